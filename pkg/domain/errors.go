package domain

import "errors"

// ErrLibraryNotFound is returned by a LibraryOpener when the named
// library is not loaded in the process.
var ErrLibraryNotFound = errors.New("library not found")

// ErrSymbolNotFound is returned by a Library when a symbol cannot be
// resolved by name.
var ErrSymbolNotFound = errors.New("symbol not found")
