package importer

import "fmt"

// ImportError is raised when the per-file transaction fails. The whole
// file is rolled back, the originating store error is kept as cause.
type ImportError struct {
	File string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.File, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// IdentityError reports a dependent record whose car number cannot be
// resolved to a vehicle id. With deterministic resolution this should
// not occur; when it does, it is fatal to that record only.
type IdentityError struct {
	CarNumber int
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("cannot resolve vehicle for car number %d", e.CarNumber)
}
