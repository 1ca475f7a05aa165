package repository

import "errors"

// ErrAlreadyExists is returned by conditional inserts whose unique constraint
// rejected the row. Callers translate it into the conflict error of their
// operation.
var ErrAlreadyExists = errors.New("record already exists")
