package repository

import "errors"

var (
	// ErrNotFound se devuelve cuando el registro no existe.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail se devuelve cuando el indice unico de email rechaza la escritura.
	ErrDuplicateEmail = errors.New("email already exists")
)
