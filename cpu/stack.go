package cpu

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is the fixed depth call stack of return addresses.
// Sp is the number of entries in use; zero means empty.
type Stack struct {
	Data [STACK_LIMIT]uint16
	Sp   uint8
}

// Push stores a return address.
func (s *Stack) Push(value uint16) (err error) {
	if s.Full() {
		err = ErrStackOverflow
		return
	}

	s.Data[s.Sp] = value
	s.Sp++
	return
}

// Pop removes and returns the most recent return address.
func (s *Stack) Pop() (value uint16, err error) {
	if s.Empty() {
		err = ErrStackUnderflow
		return
	}

	s.Sp--
	value = s.Data[s.Sp]
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

func (s *Stack) Full() bool {
	return int(s.Sp) == STACK_LIMIT
}

// Peek returns the most recent return address without removing it.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp-1], true
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Sp = 0
}
