package cmd

import (
	"os"

	"github.com/grovetools/pollwatch/errors"
)

// validateDirectory checks that dir exists and is a directory.
func validateDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.InvalidDirectory(dir, err)
	}
	if !info.IsDir() {
		return errors.InvalidDirectory(dir, nil)
	}
	return nil
}
