//go:build !unix

package term

import (
	"errors"
	"os"
)

var errNotUnix = errors.New("the terminal front end requires a unix terminal")

func setNonblock(int, bool) error {
	return errNotUnix
}

func openInput(int) (*os.File, error) {
	return nil, errNotUnix
}
