// Package scope implements the lexical binding chain used to resolve scope
// variables such as $index.
package scope

// Chain is a stack of name bindings.
//
// Frames are pushed around any construct that introduces bindings and must
// be released with the function returned by [Chain.Push], normally via defer:
//
//	defer chain.Push(map[string]any{"index": i})()
type Chain struct {
	frames []map[string]any
}

// New returns an empty chain.
func New() *Chain { return &Chain{} }

// Push adds frame as the innermost scope and returns the function that
// removes it. Calling the returned function more than once has no further
// effect.
func (s *Chain) Push(frame map[string]any) (pop func()) {
	depth := len(s.frames)
	s.frames = append(s.frames, frame)

	popped := false

	return func() {
		if !popped && len(s.frames) > depth {
			popped = true

			clear(s.frames[depth:])
			s.frames = s.frames[:depth]
		}
	}
}

// Resolve returns the innermost binding of name, or nil when no frame binds
// it.
func (s *Chain) Resolve(name string) any {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v
		}
	}

	return nil
}

// Depth returns the number of active frames.
func (s *Chain) Depth() int { return len(s.frames) }
