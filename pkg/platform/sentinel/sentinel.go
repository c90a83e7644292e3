package sentinel

import "errors"

// Storage facts returned (optionally wrapped) by stores. Services translate
// them into domain errors; they never reach a response as-is.
//
// - ErrNotFound: no row for the requested key
// - ErrConflict: the write would contradict what is stored
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
