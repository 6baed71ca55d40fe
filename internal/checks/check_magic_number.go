package checks

import "github.com/Farmer51Peace/sonarqube/internal/rule"

func init() {
	Register(MagicNumberCheck{})
}

// MagicNumberCheck flags unexplained numeric literals. Kept in DEPRECATED
// status; superseded by per-language constant checks.
type MagicNumberCheck struct {
	rule.Check `key:"S109" name:"Magic numbers should not be used" priority:"MINOR" status:"DEPRECATED" description:"<p>Replace magic numbers with named constants.</p>"`

	AuthorizedNumbers string  `param:"authorizedNumbers" description:"Comma-separated list of authorized numbers" default:"-1,0,1"`
	MaximumAllowed    float64 `param:"" description:"Largest literal allowed without a constant"`
}
