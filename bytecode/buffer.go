package bytecode

import (
	"io"
)

// Buffer is an in-memory byte sink that supports seek-and-overwrite,
// for use as assembler output.
type Buffer struct {
	data []byte
	pos  int64
}

var _ io.ReadWriteSeeker = (*Buffer)(nil)

// Bytes returns the buffer contents.
func (buf *Buffer) Bytes() []byte {
	return buf.data
}

// Len returns the buffer size.
func (buf *Buffer) Len() int {
	return len(buf.data)
}

// Write writes at the current position, extending the buffer as needed.
func (buf *Buffer) Write(p []byte) (n int, err error) {
	end := buf.pos + int64(len(p))
	if end > int64(len(buf.data)) {
		buf.data = append(buf.data, make([]byte, end-int64(len(buf.data)))...)
	}
	n = copy(buf.data[buf.pos:], p)
	buf.pos = end
	return
}

// Read reads from the current position.
func (buf *Buffer) Read(p []byte) (n int, err error) {
	if buf.pos >= int64(len(buf.data)) {
		return 0, io.EOF
	}
	n = copy(p, buf.data[buf.pos:])
	buf.pos += int64(n)
	return
}

// Seek sets the position for the next Read or Write.
func (buf *Buffer) Seek(offset int64, whence int) (pos int64, err error) {
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = buf.pos + offset
	case io.SeekEnd:
		pos = int64(len(buf.data)) + offset
	default:
		return buf.pos, ErrSeekInvalid
	}

	if pos < 0 {
		return buf.pos, ErrSeekInvalid
	}

	buf.pos = pos
	return
}
