// Package internal holds helpers shared by the stackvm packages.
package internal

// Stack is an unbounded LIFO of T, backed by a growable slice.
type Stack[T any] struct {
	Data []T
}

// NewStack returns an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push pushes a value on the top of the stack.
func (s *Stack[T]) Push(value T) {
	s.Data = append(s.Data, value)
}

// Pop removes the top of the stack.
// ok is false, and the stack untouched, if the stack is empty.
func (s *Stack[T]) Pop() (value T, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

// Peek returns the top of the stack without removing it.
func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Len returns the stack depth.
func (s *Stack[T]) Len() int {
	return len(s.Data)
}

func (s *Stack[T]) Empty() bool {
	return len(s.Data) == 0
}

// Reset empties the stack, keeping its storage.
func (s *Stack[T]) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
