package lang

import (
	"context"
	"log/slog"
	"maps"

	"github.com/ardnew/jpx/lang/function"
	"github.com/ardnew/jpx/lang/interp"
	"github.com/ardnew/jpx/lang/parser"
	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
	"github.com/ardnew/jpx/log"
)

// Aliases for the types that make up the public surface.
type (
	Node      = types.Node
	Token     = parser.Token
	Runtime   = runtime.Runtime
	Entry     = runtime.Entry
	Func      = runtime.Func
	Table     = runtime.Table
	Signature = runtime.Signature
	Param     = runtime.Param
	TypeTag   = types.TypeTag
	Error     = types.Error
)

// DefaultMaxDepth bounds the evaluation nesting depth of an [Engine]. Use
// WithMaxDepth(0) to remove the bound.
const DefaultMaxDepth = 1024

// Engine compiles and evaluates expressions.
//
// The functions an Engine registers with [Engine.Define], or that an
// expression registers with define(), persist for the lifetime of the
// Engine and are visible to every later search on it. Searches may run
// concurrently; each has its own scope chain.
type Engine struct {
	rt       *runtime.Runtime
	cache    *Cache
	logger   log.Logger
	maxDepth int
	extra    runtime.Table
}

// Option configures an [Engine].
type Option func(*Engine)

// WithDefinition adds a function to the static table, replacing any
// built-in function of the same name.
func WithDefinition(name string, entry Entry) Option {
	return func(e *Engine) {
		e.extra[name] = entry
	}
}

// WithDefinitions adds every function in table to the static table.
func WithDefinitions(table Table) Option {
	return func(e *Engine) {
		maps.Copy(e.extra, table)
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDepth bounds the evaluation nesting depth. Zero or a negative
// value disables the bound.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithCache sets the cache of compiled expressions. A nil cache disables
// caching.
func WithCache(cache *Cache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// New returns an engine with the built-in function library plus any
// definitions given as options.
func New(opts ...Option) *Engine {
	e := &Engine{
		cache:    defaultCache,
		maxDepth: DefaultMaxDepth,
		extra:    make(runtime.Table),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.rt = runtime.New(function.Table(), e.extra)

	return e
}

// Compile parses expression into an AST, consulting the engine's cache.
func (e *Engine) Compile(ctx context.Context, expression string) (*Node, error) {
	if node, ok := e.cache.Get(expression); ok {
		e.logger.TraceContext(ctx, "cache hit",
			slog.String("expression", expression))

		return node, nil
	}

	node, err := parser.Parse(expression)
	if err != nil {
		e.logger.DebugContext(ctx, "compile failed",
			slog.String("expression", expression),
			slog.Any("error", err))

		return nil, err
	}

	e.cache.Add(expression, node)

	e.logger.TraceContext(ctx, "compiled",
		slog.String("expression", expression),
		slog.String("ast", node.String()))

	return node, nil
}

// Search compiles expression and evaluates it against data.
func (e *Engine) Search(ctx context.Context, data any, expression string) (any, error) {
	node, err := e.Compile(ctx, expression)
	if err != nil {
		return nil, err
	}

	return e.Evaluate(ctx, node, data)
}

// Evaluate evaluates a compiled AST against data with a fresh scope chain.
// data is converted with [Normalize] first. ctx is checked once before
// evaluation starts.
func (e *Engine) Evaluate(ctx context.Context, node *Node, data any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := interp.New(interp.WithMaxDepth(e.maxDepth))
	in.SetDispatcher(e.rt.Bind(in))

	result, err := in.Visit(node, Normalize(data))
	if err != nil {
		e.logger.DebugContext(ctx, "evaluation failed", slog.Any("error", err))

		return nil, err
	}

	e.logger.TraceContext(ctx, "evaluated",
		slog.String("result", types.TypeOf(result).String()))

	return result, nil
}

// Define registers name as a function that evaluates expression against its
// single argument, exactly as define(name, &expression) would.
func (e *Engine) Define(ctx context.Context, name, expression string) error {
	node, err := e.Compile(ctx, expression)
	if err != nil {
		return err
	}

	if err := e.rt.Define(name, types.NewClosure(node, nil)); err != nil {
		return err
	}

	e.logger.DebugContext(ctx, "defined function",
		slog.String("name", name),
		slog.String("expression", expression))

	return nil
}

// IsDefined reports whether name was registered with [Engine.Define] or by
// an expression's define().
func (e *Engine) IsDefined(name string) bool { return e.rt.IsDefined(name) }

// Function describes a callable function.
type Function struct {
	Name      string
	Signature Signature
	Defined   bool
}

// String renders the function's call signature.
func (f Function) String() string { return f.Signature.Format(f.Name) }

// Functions returns every callable function ordered by name.
func (e *Engine) Functions() []Function {
	names := e.rt.Names()

	out := make([]Function, 0, len(names))

	for _, name := range names {
		entry, _ := e.rt.Lookup(name)
		out = append(out, Function{
			Name:      name,
			Signature: entry.Signature,
			Defined:   e.rt.IsDefined(name),
		})
	}

	return out
}

// Tokenize returns the tokens of source, excluding the end-of-input marker.
func Tokenize(source string) ([]Token, error) {
	return parser.Tokenize(source)
}

// Compile parses expression into an AST. Results are cached process-wide.
func Compile(expression string) (*Node, error) {
	if node, ok := defaultCache.Get(expression); ok {
		return node, nil
	}

	node, err := parser.Parse(expression)
	if err != nil {
		return nil, err
	}

	defaultCache.Add(expression, node)

	return node, nil
}

// Search evaluates expression against data with a new [Engine], so
// functions registered by define() do not outlive the call. data may be any
// value [Normalize] accepts.
func Search(ctx context.Context, data any, expression string, opts ...Option) (any, error) {
	return New(opts...).Search(ctx, data, expression)
}

// TypeOf returns the type tag of a runtime value.
func TypeOf(v any) TypeTag { return types.TypeOf(v) }

// IsFalse reports whether v is false under the language's falsiness rules.
func IsFalse(v any) bool { return types.IsFalse(v) }

// DeepEqual reports whether two runtime values are structurally equal.
func DeepEqual(a, b any) bool { return types.DeepEqual(a, b) }
