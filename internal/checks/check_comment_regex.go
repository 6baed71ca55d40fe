package checks

import "github.com/Farmer51Peace/sonarqube/internal/rule"

func init() {
	Register(CommentRegularExpressionCheck{})
}

// CommentRegularExpressionCheck is a template rule: users instantiate copies
// of it with their own expression and message.
type CommentRegularExpressionCheck struct {
	rule.Check `key:"S124" name:"Comments matching a regular expression should be handled" priority:"MAJOR" cardinality:"MULTIPLE" status:"READY" description:"<p>Template rule; each instance flags comments matching its expression.</p>"`

	RegularExpression string `param:"regularExpression" description:"The regular expression to match comments against"`
	Message           string `param:"message" description:"The issue message" default:"The regular expression matches this comment" type:"TEXT"`
}
