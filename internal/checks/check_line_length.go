package checks

import "github.com/Farmer51Peace/sonarqube/internal/rule"

func init() {
	Register(LineLengthCheck{})
}

// LineLengthCheck flags source lines longer than the configured maximum.
type LineLengthCheck struct {
	rule.Check `key:"S103" name:"Lines should not be too long" priority:"MINOR" cardinality:"SINGLE" status:"READY" description:"<p>Long lines hurt readability; split them or raise the limit deliberately.</p>"`

	MaximumLineLength int `param:"maximumLineLength" description:"The maximum authorized line length" default:"120"`
}
