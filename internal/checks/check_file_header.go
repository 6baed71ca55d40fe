package checks

import "github.com/Farmer51Peace/sonarqube/internal/rule"

func init() {
	Register(FileHeaderCheck{})
}

// FileHeaderCheck verifies that files start with the expected header block.
type FileHeaderCheck struct {
	rule.Check `key:"S1451" name:"Copyright and license headers should be defined" priority:"BLOCKER" status:"READY" description:"<p>Each source file should start with the project header.</p>"`

	HeaderFormat        string `param:"headerFormat" description:"Expected header content" type:"TEXT"`
	IsRegularExpression bool   `param:"isRegularExpression" description:"Whether headerFormat is a regular expression" default:"false"`
}
