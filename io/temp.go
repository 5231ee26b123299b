package io

// Temporary implements a circular buffer of values.
// It operates as a FIFO queue with a fixed capacity and separate read/write positions.
type Temporary struct {
	Capacity int // Capacity in values.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []float64
}

var _ Channel = (*Temporary)(nil)

// NewTemporary returns an empty buffer of capacity values, preloaded
// with values.
func NewTemporary(capacity int, values ...float64) (temp *Temporary) {
	temp = &Temporary{Capacity: capacity}
	temp.Rewind()

	for _, value := range values {
		temp.Send(value)
	}

	return
}

// Rewind resets the buffer to empty, resetting indices and
// reinitializing the data buffer.
func (temp *Temporary) Rewind() {
	temp.ReadIndex = 0
	temp.WriteIndex = 0
	temp.Size = 0
	temp.Data = make([]float64, temp.Capacity)
}

// Receive removes the oldest value from the buffer.
// Returns ErrChannelEmpty if there is nothing to read.
func (temp *Temporary) Receive() (value float64, err error) {
	if temp.Size == 0 {
		err = ErrChannelEmpty
		return
	}

	value = temp.Data[temp.ReadIndex]
	temp.ReadIndex++
	if temp.ReadIndex == temp.Capacity {
		temp.ReadIndex = 0
	}
	temp.Size--

	return
}

// Send appends a value at the current write position.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Send(value float64) (err error) {
	if temp.Size >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data[temp.WriteIndex] = value

	temp.WriteIndex++
	if temp.WriteIndex == temp.Capacity {
		temp.WriteIndex = 0
	}
	temp.Size++

	return
}

// Values returns the buffered values, oldest first, without consuming them.
func (temp *Temporary) Values() (values []float64) {
	index := temp.ReadIndex
	for range temp.Size {
		values = append(values, temp.Data[index])
		index++
		if index == temp.Capacity {
			index = 0
		}
	}
	return
}
