package runtime

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/jpx/lang/scope"
	"github.com/ardnew/jpx/lang/types"
)

// Interpreter evaluates nodes on behalf of function implementations that
// invoke closures.
type Interpreter interface {
	Visit(node *types.Node, value any) (any, error)
	Scope() *scope.Chain
}

// Func implements a function. Arguments have already been validated
// against the entry's signature.
type Func func(rt *Runtime, args []any) (any, error)

// Entry is a function table entry.
type Entry struct {
	Func      Func
	Signature Signature
}

// Table maps function names to entries.
type Table map[string]Entry

// Runtime dispatches function calls.
//
// The static table is fixed at construction. Functions added with
// [Runtime.Define] live in a separate registry shared by every Runtime
// derived from the same [New] call via [Runtime.Bind].
type Runtime struct {
	interp  Interpreter
	static  Table
	dynamic *registry
}

type registry struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

// New returns a runtime whose static table merges tables in order; later
// tables replace earlier entries of the same name.
func New(tables ...Table) *Runtime {
	static := make(Table)
	for _, t := range tables {
		maps.Copy(static, t)
	}

	return &Runtime{
		static:  static,
		dynamic: &registry{entries: make(map[string]Entry)},
	}
}

// Bind returns a copy of r that evaluates closures with in. The copy shares
// the static table and dynamic registry of r.
func (r *Runtime) Bind(in Interpreter) *Runtime {
	c := *r
	c.interp = in

	return &c
}

// Scope returns the bound interpreter's scope chain.
func (r *Runtime) Scope() *scope.Chain { return r.interp.Scope() }

// Invoke evaluates the closure's expression against value.
func (r *Runtime) Invoke(c types.Closure, value any) (any, error) {
	return r.interp.Visit(c.Node(), value)
}

// Lookup finds name in the static table, then in the dynamic registry.
func (r *Runtime) Lookup(name string) (Entry, bool) {
	if e, ok := r.static[name]; ok {
		return e, true
	}

	r.dynamic.mu.RLock()
	defer r.dynamic.mu.RUnlock()

	e, ok := r.dynamic.entries[name]

	return e, ok
}

// CallFunction validates args against the named function's signature and
// invokes it.
func (r *Runtime) CallFunction(name string, args []any) (any, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, types.ErrUnknownFunction.With(slog.String("function", name+"()"))
	}

	if err := entry.Signature.Validate(name, args); err != nil {
		return nil, err
	}

	return entry.Func(r, args)
}

// Define registers name as a function of one argument that evaluates the
// closure's expression against that argument. A name already in the
// dynamic registry cannot be defined again.
func (r *Runtime) Define(name string, c types.Closure) error {
	r.dynamic.mu.Lock()
	defer r.dynamic.mu.Unlock()

	if _, ok := r.dynamic.entries[name]; ok {
		return types.ErrRedefined.With(slog.String("function", name))
	}

	node := c.Node()
	r.dynamic.entries[name] = Entry{
		Signature: Signature{Accepts(types.TypeAny)},
		Func: func(rt *Runtime, args []any) (any, error) {
			return rt.interp.Visit(node, args[0])
		},
	}

	return nil
}

// IsDefined reports whether name was registered with [Runtime.Define].
func (r *Runtime) IsDefined(name string) bool {
	r.dynamic.mu.RLock()
	defer r.dynamic.mu.RUnlock()

	_, ok := r.dynamic.entries[name]

	return ok
}

// Names returns every callable name, sorted.
func (r *Runtime) Names() []string {
	names := slices.Collect(maps.Keys(r.static))

	r.dynamic.mu.RLock()
	for name := range r.dynamic.entries {
		if _, ok := r.static[name]; !ok {
			names = append(names, name)
		}
	}
	r.dynamic.mu.RUnlock()

	slices.Sort(names)

	return names
}
