package memory

import (
	"log"
	"sort"
	"time"
)

const (
	READ_DELAY = 100 * time.Millisecond // Default read latency.
)

// Controller maps a flat address space onto an ordered list of banks.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	Verbose bool          // If set, logs every access.
	Latency time.Duration // Read delay. Writes are delayed twice as long.

	Banks []*Bank
	limit []int // limit[n] is the first address past Banks[n].
}

// NewController creates a controller with the default latency
// over the given banks.
func NewController(banks ...*Bank) (mc *Controller, err error) {
	mc = &Controller{
		Latency: READ_DELAY,
	}

	for _, bank := range banks {
		err = mc.Add(bank)
		if err != nil {
			return nil, err
		}
	}

	return
}

// Add appends a bank to the end of the address space.
func (mc *Controller) Add(bank *Bank) (err error) {
	if bank == nil {
		return ErrBankMissing
	}
	if bank.Size() <= 0 {
		return ErrBankSize
	}

	mc.Banks = append(mc.Banks, bank)
	mc.limit = append(mc.limit, mc.Size()+bank.Size())

	return
}

// Size returns the sum of all bank sizes.
func (mc *Controller) Size() int {
	if len(mc.limit) == 0 {
		return 0
	}
	return mc.limit[len(mc.limit)-1]
}

// Locate translates a global address into a bank index and the offset
// within that bank.
func (mc *Controller) Locate(address int) (bank int, offset int, err error) {
	size := mc.Size()
	if address < 0 || address >= size {
		err = &ErrAddress{Address: address, Size: size, Err: ErrAddressRange}
		return
	}

	bank = sort.SearchInts(mc.limit, address+1)
	offset = address
	if bank > 0 {
		offset -= mc.limit[bank-1]
	}

	return
}

// Write stores value at address, after the write delay.
func (mc *Controller) Write(address int, value float64) (err error) {
	time.Sleep(2 * mc.Latency)

	bank, offset, err := mc.Locate(address)
	if err != nil {
		return
	}

	if mc.Verbose {
		log.Printf("memory: write %d (bank %d+%d) = %v", address, bank, offset, value)
	}

	mc.Banks[bank].Data[offset] = value
	return
}

// Read loads the value at address, after the read delay.
func (mc *Controller) Read(address int) (value float64, err error) {
	time.Sleep(mc.Latency)

	bank, offset, err := mc.Locate(address)
	if err != nil {
		return
	}

	value = mc.Banks[bank].Data[offset]

	if mc.Verbose {
		log.Printf("memory: read %d (bank %d+%d) = %v", address, bank, offset, value)
	}

	return
}
