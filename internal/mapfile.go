package internal

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// MapFile maps a file read-only and returns a copy of its contents.
func MapFile(path string) (data []byte, err error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "map %v", path)
	}
	defer ra.Close()

	data = make([]byte, ra.Len())
	_, err = ra.ReadAt(data, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "read %v", path)
	}

	return data, nil
}
