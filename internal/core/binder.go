package core

import (
	"errors"
	"fmt"
)

// ErrBind is wrapped by every argument binding failure.
var ErrBind = errors.New("cannot bind arguments")

// ParamKind describes how a parameter may be passed.
type ParamKind int

// Parameter kinds.
const (
	ParamPositionalOrKeyword ParamKind = iota
	ParamPositional
	ParamKeywordOnly
	ParamVarPositional
	ParamVarKeyword
)

// Binder normalizes call arguments against a signature, so that equivalent calls
// are recorded identically.
type Binder interface {
	Bind(args []any, kwargs map[string]any, sig *Signature) ([]any, map[string]any, error)
}

// Param is one declared parameter.
type Param struct {
	Name string
	Kind ParamKind
}

// Signature is the declared parameter list of a mocked callable.
type Signature struct {
	Params []Param
}

// SignatureBinder is the default Binder. Keyword args naming a positional-or-keyword
// parameter are folded into the positional list in parameter order, as long as every
// earlier parameter is filled. A nil signature binds nothing.
type SignatureBinder struct{}

// Bind implements Binder.
func (SignatureBinder) Bind(args []any, kwargs map[string]any, sig *Signature) ([]any, map[string]any, error) {
	if sig == nil {
		return args, kwargs, nil
	}

	var (
		positional []Param
		hasVarArgs bool
		hasVarKw   bool
		keywordOK  = map[string]bool{}
	)

	for _, param := range sig.Params {
		switch param.Kind {
		case ParamPositional:
			positional = append(positional, param)
		case ParamPositionalOrKeyword:
			positional = append(positional, param)
			keywordOK[param.Name] = true
		case ParamKeywordOnly:
			keywordOK[param.Name] = true
		case ParamVarPositional:
			hasVarArgs = true
		case ParamVarKeyword:
			hasVarKw = true
		}
	}

	if len(args) > len(positional) && !hasVarArgs {
		return nil, nil, fmt.Errorf("%w: takes %d positional argument(s) but %d were given", ErrBind, len(positional), len(args))
	}

	for i := 0; i < len(args) && i < len(positional); i++ {
		if _, dup := kwargs[positional[i].Name]; dup && positional[i].Kind == ParamPositionalOrKeyword {
			return nil, nil, fmt.Errorf("%w: multiple values for argument %q", ErrBind, positional[i].Name)
		}
	}

	bound := append([]any(nil), args...)
	remaining := make(map[string]any, len(kwargs))

	for name, value := range kwargs {
		remaining[name] = value
	}

	for i := len(args); i < len(positional); i++ {
		param := positional[i]
		if param.Kind != ParamPositionalOrKeyword {
			break
		}

		value, ok := remaining[param.Name]
		if !ok {
			break
		}

		bound = append(bound, value)
		delete(remaining, param.Name)
	}

	for name := range remaining {
		if !keywordOK[name] && !hasVarKw {
			return nil, nil, fmt.Errorf("%w: unexpected keyword argument %q", ErrBind, name)
		}
	}

	if len(remaining) == 0 {
		remaining = nil
	}

	return bound, remaining, nil
}
