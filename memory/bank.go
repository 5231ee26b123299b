// Package memory implements the segmented memory attached to the stackvm CPU.
//
// Memory is a list of fixed size banks of doubles. The controller presents
// the banks as one flat address space, concatenated in registration order,
// and simulates a fixed access latency; writes cost twice as much as reads.
package memory

const (
	BANK_SIZE_MAX = 1 << 28 // Largest bank, in cells.
)

// Bank is a fixed size array of doubles.
type Bank struct {
	Data []float64
}

// NewBank allocates a zeroed bank of size cells.
func NewBank(size int) (bank *Bank, err error) {
	if size <= 0 {
		err = ErrBankSize
		return
	}
	if size > BANK_SIZE_MAX {
		err = ErrBankAlloc
		return
	}

	bank = &Bank{
		Data: make([]float64, size),
	}

	return
}

// Size returns the number of cells in the bank.
func (bank *Bank) Size() int {
	return len(bank.Data)
}
