// Package scope implements the frame stack shared by the typechecker and the
// interpreter. The typechecker stores type information in it, the
// interpreter stores values; the lookup rules are the same for both.
package scope

// Frame is one scope level. Variables and lists live in separate maps but
// share one namespace.
type Frame[V, L any] struct {
	Vars  map[string]V
	Lists map[string]L
}

func newFrame[V, L any]() *Frame[V, L] {
	return &Frame[V, L]{
		Vars:  make(map[string]V),
		Lists: make(map[string]L),
	}
}

// Has reports whether name is bound in this frame as a variable or a list.
func (f *Frame[V, L]) Has(name string) bool {
	if _, ok := f.Vars[name]; ok {
		return true
	}
	_, ok := f.Lists[name]
	return ok
}

// Stack is an ordered list of frames, innermost last. Frame 0 is the global
// frame and is never popped.
type Stack[V, L any] struct {
	frames []*Frame[V, L]
}

func New[V, L any]() *Stack[V, L] {
	s := &Stack[V, L]{}
	s.Reset()
	return s
}

// Reset drops every frame and starts over with an empty global frame.
func (s *Stack[V, L]) Reset() {
	s.frames = []*Frame[V, L]{newFrame[V, L]()}
}

// Push enters a new innermost frame.
func (s *Stack[V, L]) Push() *Frame[V, L] {
	f := newFrame[V, L]()
	s.frames = append(s.frames, f)
	return f
}

// PushFrame enters f as the new innermost frame.
func (s *Stack[V, L]) PushFrame(f *Frame[V, L]) {
	if f.Vars == nil {
		f.Vars = make(map[string]V)
	}
	if f.Lists == nil {
		f.Lists = make(map[string]L)
	}
	s.frames = append(s.frames, f)
}

// Pop leaves the innermost frame. Popping the global frame is a bug in the
// caller and panics.
func (s *Stack[V, L]) Pop() {
	if len(s.frames) <= 1 {
		panic("scope: pop of global frame")
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth is the number of frames, global included.
func (s *Stack[V, L]) Depth() int { return len(s.frames) }

func (s *Stack[V, L]) Top() *Frame[V, L] { return s.frames[len(s.frames)-1] }

func (s *Stack[V, L]) Global() *Frame[V, L] { return s.frames[0] }

// Frame returns the frame at index i (0 is global).
func (s *Stack[V, L]) Frame(i int) *Frame[V, L] { return s.frames[i] }

// DeclareVar binds a variable in the innermost frame.
func (s *Stack[V, L]) DeclareVar(name string, v V) {
	s.Top().Vars[name] = v
}

// DeclareList binds a list in the innermost frame.
func (s *Stack[V, L]) DeclareList(name string, l L) {
	s.Top().Lists[name] = l
}

// LookupVar finds the innermost variable called name and the index of the
// frame that holds it.
func (s *Stack[V, L]) LookupVar(name string) (V, int, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Vars[name]; ok {
			return v, i, true
		}
	}
	var zero V
	return zero, -1, false
}

// LookupList finds the innermost list called name and the index of the
// frame that holds it.
func (s *Stack[V, L]) LookupList(name string) (L, int, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if l, ok := s.frames[i].Lists[name]; ok {
			return l, i, true
		}
	}
	var zero L
	return zero, -1, false
}

// FrameOf returns the index of the innermost frame binding name as either a
// variable or a list, or -1.
func (s *Stack[V, L]) FrameOf(name string) int {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Has(name) {
			return i
		}
	}
	return -1
}

// SetVar overwrites the variable in the innermost frame that binds name. It
// reports false when no frame does.
func (s *Stack[V, L]) SetVar(name string, v V) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i].Vars[name]; ok {
			s.frames[i].Vars[name] = v
			return true
		}
	}
	return false
}
