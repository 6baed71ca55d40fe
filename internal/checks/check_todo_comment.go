package checks

import "github.com/Farmer51Peace/sonarqube/internal/rule"

func init() {
	Register(TodoCommentCheck{})
}

// TodoCommentCheck tracks TODO markers left in comments. No parameters.
type TodoCommentCheck struct {
	rule.Check `key:"S1135" name:"Track uses of TODO tags" priority:"INFO" status:"READY" description:"<p>TODO tags mark code that is incomplete; track them so they get resolved.</p>"`
}
