package processing

import (
	"fmt"
	"io/fs"

	"github.com/google/renameio/v2"
)

// PersistenceError reports a script that could not be written. The
// destination is left untouched when it is returned.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// writeFileAtomic replaces path with data so readers see either the old file
// or the complete new one. perm is subject to the process umask.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}
