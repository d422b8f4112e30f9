//go:build !linux

package rng

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

func sys2Read(buf []byte) error {
	f, err := os.Open("/dev/urandom")
	if err != nil {
		return errors.Wrap(err, "rng: urandom")
	}
	defer f.Close()
	if _, err := io.ReadFull(f, buf); err != nil {
		return errors.Wrap(err, "rng: urandom")
	}
	return nil
}
