package catalog

import (
	"fmt"
)

// FilesystemError is returned when scan root or any of the entries under it
// cannot be accessed. Scan is aborted and nothing is generated.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("unable to %s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
