package checks

import "github.com/Farmer51Peace/sonarqube/internal/rule"

func init() {
	Register(FunctionNameCheck{})
}

// namingCheck is the shared base for naming-convention checks. Its format
// parameter is inherited by every check that embeds it.
type namingCheck struct {
	Format string `param:"format" description:"Regular expression the name must match"`
}

// FunctionNameCheck verifies function names against a naming convention.
type FunctionNameCheck struct {
	rule.Check `key:"S100" name:"Function names should comply with a naming convention" priority:"MAJOR" status:"READY" description:"<p>Consistent naming keeps a codebase searchable.</p>"`
	namingCheck
}
