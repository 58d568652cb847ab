package cpu

const (
	REGISTER_COUNT = 16  // V0-VF
	REGISTER_FLAG  = 0xF // VF, the carry/borrow/collision flag.
)

// Registers is the general purpose register file plus the index register.
type Registers struct {
	V [REGISTER_COUNT]uint8 // General purpose registers.
	I uint16                // Index (address) register.
}

// Get returns the value of register Vindex.
func (r *Registers) Get(index int) (value uint8, err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = ErrInvalidRegister(index)
		return
	}

	value = r.V[index]
	return
}

// Set stores a value in register Vindex.
func (r *Registers) Set(index int, value uint8) (err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = ErrInvalidRegister(index)
		return
	}

	r.V[index] = value
	return
}

// flag sets VF to 1 when the condition holds, else 0.
func (r *Registers) flag(cond bool) {
	r.V[REGISTER_FLAG] = 0
	if cond {
		r.V[REGISTER_FLAG] = 1
	}
}

func (r *Registers) Reset() {
	clear(r.V[:])
	r.I = 0
}
