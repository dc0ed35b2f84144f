// stack.go provides a stack that holds scopes during name resolution.
// The bottom element is the first entry into the stack, while the top is
// the last entry to be added to the stack.

package util

// Stack is a slice backed stack.
type Stack[T any] struct {
	elems []T
}

// Push adds a new element to the top of the stack.
func (s *Stack[T]) Push(e T) {
	s.elems = append(s.elems, e)
}

// Pop removes and returns the last inserted element on the stack.
// The second return value is false if the stack was empty.
func (s *Stack[T]) Pop() (e T, ok bool) {
	if len(s.elems) == 0 {
		return e, false
	}
	e = s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return e, true
}

// Peek works just like Pop, but it does not remove the element from the stack.
func (s *Stack[T]) Peek() (e T, ok bool) {
	if len(s.elems) == 0 {
		return e, false
	}
	return s.elems[len(s.elems)-1], true
}

// Size returns the number of elements in the stack.
func (s *Stack[T]) Size() int {
	return len(s.elems)
}

// Get returns the nth element from the stack, top down, not zero indexed.
// Get(1) returns the first element on stack, and is similar to Peek.
// Get(Stack.Size()) returns the bottom element. If the index n is out of range
// the zero value and false are returned.
func (s *Stack[T]) Get(n int) (e T, ok bool) {
	if n < 1 || n > len(s.elems) {
		return e, false
	}
	return s.elems[len(s.elems)-n], true
}
