package database

import "errors"

var (
	// ErrURLExists is returned when an attempt is made to create
	// a URL whose normalized name already exists.
	ErrURLExists = errors.New("url exists")
	// ErrURLNotFound is returned when an attempt is made to retrieve
	// a URL that doesn't exist.
	ErrURLNotFound = errors.New("url not found")
)
