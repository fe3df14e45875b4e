package lunchbox

// subscription holds at most one live registration against a target. Moving
// it to another target goes through rebind so the previous registration is
// always released first.
type subscription[T comparable] struct {
	target  T
	release func()
}

// rebind releases the current registration and attaches to next. A nil-like
// next leaves the subscription detached. Returns false and does nothing when
// next is already the target.
func (s *subscription[T]) rebind(next T, attach func(T) func()) bool {
	if s.target == next {
		return false
	}
	s.drop()
	s.target = next
	var zero T
	if next != zero {
		s.release = attach(next)
	}
	return true
}

// clear releases the registration. Idempotent.
func (s *subscription[T]) clear() {
	s.drop()
	var zero T
	s.target = zero
}

func (s *subscription[T]) drop() {
	if s.release != nil {
		release := s.release
		s.release = nil
		release()
	}
}

func (s *subscription[T]) current() T { return s.target }
