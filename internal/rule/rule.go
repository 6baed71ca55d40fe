package rule

import (
	"fmt"
	"strings"
)

// Check is the marker struct an analyzer check embeds to declare itself as a
// rule. Rule-level metadata lives on the embedded field's struct tags:
//
//	type LineLengthCheck struct {
//		rule.Check `key:"S103" name:"Lines should not be too long" priority:"MAJOR" status:"READY"`
//		Maximum    int `param:"maximum" description:"Maximum authorized line length" default:"120"`
//	}
//
// The marker carries no data itself; the compiler finds it by reflection,
// including through embedded base checks (the shallowest marker wins).
type Check struct{}

// ParamType is the closed set of data kinds a rule parameter may take.
type ParamType string

const (
	ParamTypeString     ParamType = "STRING"
	ParamTypeText       ParamType = "TEXT"
	ParamTypeBoolean    ParamType = "BOOLEAN"
	ParamTypeInteger    ParamType = "INTEGER"
	ParamTypeFloat      ParamType = "FLOAT"
	ParamTypeSelectList ParamType = "SINGLE_SELECT_LIST"
)

var paramTypes = map[string]ParamType{
	"STRING":             ParamTypeString,
	"TEXT":               ParamTypeText,
	"BOOLEAN":            ParamTypeBoolean,
	"INTEGER":            ParamTypeInteger,
	"FLOAT":              ParamTypeFloat,
	"SINGLE_SELECT_LIST": ParamTypeSelectList,
}

// ParseParamType resolves s against the ParamType grammar. Matching is
// case-insensitive after trimming; anything outside the closed set is an error.
func ParseParamType(s string) (ParamType, error) {
	pt, ok := paramTypes[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown parameter type %q", s)
	}
	return pt, nil
}

// Status is the lifecycle state of a rule definition.
type Status string

const (
	StatusBeta       Status = "BETA"
	StatusReady      Status = "READY"
	StatusDeprecated Status = "DEPRECATED"
	StatusRemoved    Status = "REMOVED"
)

// DefaultStatus applies when a check's annotation leaves status blank.
const DefaultStatus = StatusReady

var statuses = map[string]Status{
	"BETA":       StatusBeta,
	"READY":      StatusReady,
	"DEPRECATED": StatusDeprecated,
	"REMOVED":    StatusRemoved,
}

// ParseStatus resolves s against the Status enum.
func ParseStatus(s string) (Status, error) {
	st, ok := statuses[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown rule status %q", s)
	}
	return st, nil
}

// Severity names as they appear in rule annotations. The compiler copies the
// annotation's priority verbatim and performs no validation against this set;
// the names exist for the surface layers (exports, API) only.
const (
	SeverityInfo     = "INFO"
	SeverityMinor    = "MINOR"
	SeverityMajor    = "MAJOR"
	SeverityCritical = "CRITICAL"
	SeverityBlocker  = "BLOCKER"
)

// Cardinality values accepted by the `cardinality` tag.
const (
	CardinalitySingle   = "SINGLE"
	CardinalityMultiple = "MULTIPLE"
)
