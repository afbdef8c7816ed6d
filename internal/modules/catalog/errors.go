package catalog

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("package not found")
	ErrDuplicateName = errors.New("package name already exists")
)
