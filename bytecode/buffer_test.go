package bytecode

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer(t *testing.T) {
	assert := assert.New(t)

	buf := &Buffer{}
	n, err := buf.Write([]byte{1, 2, 3, 4, 5})
	assert.NoError(err)
	assert.Equal(5, n)

	pos, err := buf.Seek(1, io.SeekStart)
	assert.NoError(err)
	assert.Equal(int64(1), pos)

	one := make([]byte, 2)
	_, err = buf.Read(one)
	assert.NoError(err)
	assert.Equal([]byte{2, 3}, one)

	_, err = buf.Seek(-2, io.SeekCurrent)
	assert.NoError(err)
	buf.Write([]byte{9, 9})
	assert.Equal([]byte{1, 9, 9, 4, 5}, buf.Bytes())

	_, err = buf.Seek(0, io.SeekEnd)
	assert.NoError(err)
	buf.Write([]byte{6})
	assert.Equal(6, buf.Len())

	_, err = buf.Read(one)
	assert.ErrorIs(err, io.EOF)

	_, err = buf.Seek(-7, io.SeekEnd)
	assert.ErrorIs(err, ErrSeekInvalid)
	_, err = buf.Seek(0, 42)
	assert.ErrorIs(err, ErrSeekInvalid)
}
