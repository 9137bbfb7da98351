package host

import (
	"os"

	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
)

// Locate reports whether a loadable module currently exists at path. It
// only checks existence — contents are not opened or validated. The check
// exists to produce a "build the script first" diagnostic instead of a
// less specific loader error.
func Locate(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &scripterrors.ModuleNotFoundError{Path: path}
		}
		return &scripterrors.ModuleNotFoundError{Path: path, Err: err}
	}
	return nil
}
