package lower

import (
	"fmt"

	"mycompiler/internal/diag"
	"mycompiler/internal/source"
)

// InternalError is a violated engine invariant. It never results from
// well-formed input.
type InternalError struct {
	Msg  string
	Span source.Span
}

func (e *InternalError) Error() string {
	return "internal lowering fault: " + e.Msg
}

// fault aborts lowering; File recovers it.
func fault(sp source.Span, format string, args ...any) {
	panic(&InternalError{Msg: fmt.Sprintf(format, args...), Span: sp})
}

// ArityError reports a tuple destructuring whose binding count differs from
// the statically known component count of the value.
type ArityError struct {
	Code diag.Code
	Span source.Span
	Want int // bindings
	Got  int // components
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("tuple arity mismatch: %d bindings, %d components", e.Want, e.Got)
}
