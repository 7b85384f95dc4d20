package interp

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/jpx/lang/scope"
	"github.com/ardnew/jpx/lang/types"
)

// Dispatcher resolves function calls for the interpreter.
type Dispatcher interface {
	CallFunction(name string, args []any) (any, error)
}

// Interpreter evaluates AST nodes against a current value.
//
// An Interpreter owns the scope chain of a single search and must not be
// used by more than one goroutine at a time. The nodes it evaluates are
// never modified and may be shared freely.
type Interpreter struct {
	dispatch Dispatcher
	scope    *scope.Chain
	maxDepth int
	depth    int
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithMaxDepth bounds the evaluation nesting depth. Zero or a negative
// value disables the bound.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) { in.maxDepth = depth }
}

// WithDispatcher sets the function dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(in *Interpreter) { in.dispatch = d }
}

// New returns an interpreter with a fresh scope chain.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{scope: scope.New()}
	for _, opt := range opts {
		opt(in)
	}

	return in
}

// SetDispatcher sets the function dispatcher after construction, for
// dispatchers that themselves need a reference to the interpreter.
func (in *Interpreter) SetDispatcher(d Dispatcher) { in.dispatch = d }

// Scope returns the interpreter's scope chain.
func (in *Interpreter) Scope() *scope.Chain { return in.scope }

// Visit evaluates node against value.
func (in *Interpreter) Visit(node *types.Node, value any) (any, error) {
	if node == nil {
		return nil, types.ErrUnknownNode.With(slog.String("node", "nil"))
	}

	if in.maxDepth > 0 {
		in.depth++
		defer func() { in.depth-- }()

		if in.depth > in.maxDepth {
			return nil, types.ErrMaxDepth.With(slog.Int("max", in.maxDepth))
		}
	}

	switch node.Kind {
	case types.NodeField:
		if obj, ok := value.(map[string]any); ok {
			return obj[node.Name()], nil
		}

		return nil, nil

	case types.NodeSubExpression:
		left, err := in.Visit(node.Child(0), value)
		if err != nil || left == nil {
			return nil, err
		}

		return in.Visit(node.Child(1), left)

	case types.NodeIndexExpression:
		left, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		return in.Visit(node.Child(1), left)

	case types.NodeIndex:
		arr, ok := value.([]any)
		if !ok {
			return nil, nil
		}

		i, _ := node.Value.(int)
		if i < 0 {
			i += len(arr)
		}

		if i < 0 || i >= len(arr) {
			return nil, nil
		}

		return arr[i], nil

	case types.NodeSlice:
		arr, ok := value.([]any)
		if !ok {
			return nil, nil
		}

		parts, _ := node.Value.([3]*int)

		return Slice(arr, parts[0], parts[1], parts[2])

	case types.NodeProjection:
		base, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		arr, ok := base.([]any)
		if !ok {
			return nil, nil
		}

		return in.project(node.Child(1), arr)

	case types.NodeValueProjection:
		base, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		obj, ok := base.(map[string]any)
		if !ok {
			return nil, nil
		}

		return in.project(node.Child(1), Values(obj))

	case types.NodeFilterProjection:
		base, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		arr, ok := base.([]any)
		if !ok {
			return nil, nil
		}

		kept := make([]any, 0, len(arr))

		for _, elem := range arr {
			cond, err := in.Visit(node.Child(2), elem)
			if err != nil {
				return nil, err
			}

			if !types.IsFalse(cond) {
				kept = append(kept, elem)
			}
		}

		return in.project(node.Child(1), kept)

	case types.NodeFlatten:
		base, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		arr, ok := base.([]any)
		if !ok {
			return nil, nil
		}

		flat := make([]any, 0, len(arr))

		for _, elem := range arr {
			if inner, ok := elem.([]any); ok {
				flat = append(flat, inner...)
			} else {
				flat = append(flat, elem)
			}
		}

		return flat, nil

	case types.NodeComparator:
		left, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		right, err := in.Visit(node.Child(1), value)
		if err != nil {
			return nil, err
		}

		return Compare(node.Name(), left, right), nil

	case types.NodeIdentity, types.NodeCurrent:
		return value, nil

	case types.NodeLiteral, types.NodeRegexLiteral:
		return node.Value, nil

	case types.NodeMultiSelectList:
		if value == nil {
			return nil, nil
		}

		list := make([]any, len(node.Children))

		for i, child := range node.Children {
			v, err := in.Visit(child, value)
			if err != nil {
				return nil, err
			}

			list[i] = v
		}

		return list, nil

	case types.NodeMultiSelectHash:
		if value == nil {
			return nil, nil
		}

		hash := make(map[string]any, len(node.Children))

		for _, pair := range node.Children {
			v, err := in.Visit(pair.Child(0), value)
			if err != nil {
				return nil, err
			}

			hash[pair.Name()] = v
		}

		return hash, nil

	case types.NodeOrExpression:
		left, err := in.Visit(node.Child(0), value)
		if err != nil || !types.IsFalse(left) {
			return left, err
		}

		return in.Visit(node.Child(1), value)

	case types.NodeAndExpression:
		left, err := in.Visit(node.Child(0), value)
		if err != nil || types.IsFalse(left) {
			return left, err
		}

		return in.Visit(node.Child(1), value)

	case types.NodeNotExpression:
		v, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		return types.IsFalse(v), nil

	case types.NodePipe:
		left, err := in.Visit(node.Child(0), value)
		if err != nil {
			return nil, err
		}

		return in.Visit(node.Child(1), left)

	case types.NodeFunction:
		args := make([]any, len(node.Children))

		for i, child := range node.Children {
			v, err := in.Visit(child, value)
			if err != nil {
				return nil, err
			}

			args[i] = v
		}

		if in.dispatch == nil {
			return nil, types.ErrUnknownFunction.With(slog.String("function", node.Name()+"()"))
		}

		return in.dispatch.CallFunction(node.Name(), args)

	case types.NodeExpressionReference:
		return types.NewClosure(node.Child(0), value), nil

	case types.NodeScope:
		return in.scope.Resolve(node.Name()), nil
	}

	return nil, types.ErrUnknownNode.With(slog.String("node", node.Kind.String()))
}

// project evaluates node against each element and drops null results.
func (in *Interpreter) project(node *types.Node, elems []any) (any, error) {
	collected := make([]any, 0, len(elems))

	for _, elem := range elems {
		v, err := in.Visit(node, elem)
		if err != nil {
			return nil, err
		}

		if v != nil {
			collected = append(collected, v)
		}
	}

	return collected, nil
}

// Values returns the member values of obj ordered by key.
func Values(obj map[string]any) []any {
	values := make([]any, 0, len(obj))
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		values = append(values, obj[k])
	}

	return values
}

// Compare applies a comparator operator. Equality is structural; ordering
// is defined for number, string and date pairs and is false otherwise.
func Compare(op string, left, right any) bool {
	switch op {
	case types.CmpEQ:
		return types.DeepEqual(left, right)
	case types.CmpNE:
		return !types.DeepEqual(left, right)
	}

	c, ok := types.Compare(left, right)
	if !ok {
		return false
	}

	switch op {
	case types.CmpLT:
		return c < 0
	case types.CmpLTE:
		return c <= 0
	case types.CmpGT:
		return c > 0
	case types.CmpGTE:
		return c >= 0
	}

	return false
}
