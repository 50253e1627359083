package collection

import "fmt"

// MissingExampleError reports an action without the example data needed to
// build a request.
type MissingExampleError struct {
	Action  string
	Method  string
	Missing string // "example", "request" or "response"
}

func (e *MissingExampleError) Error() string {
	return fmt.Sprintf("action %q (%s): missing %s", e.Action, e.Method, e.Missing)
}

// UnresolvedVariableError reports a path variable without a matching
// parameter definition.
type UnresolvedVariableError struct {
	Variable string
	Template string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("uri template %q: no parameter definition for variable %q", e.Template, e.Variable)
}
