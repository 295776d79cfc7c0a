package domain

import "errors"

// Domain errors returned by services and adapters. Wrap these with
// fmt.Errorf("context: %w", err) to add detail; callers test with
// errors.Is.
var (
	// ErrNotFound indicates a document does not exist in the index.
	ErrNotFound = errors.New("not found")

	// ErrIndexUnavailable indicates the index could not be opened
	// or has been closed.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrWriteConflict indicates a concurrent writer holds the
	// index.
	ErrWriteConflict = errors.New("index write conflict")

	// ErrInvalidInput indicates a request that cannot be executed,
	// such as an empty document ID.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownField indicates a field name absent from the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrSuggestionUnavailable indicates the suggestion catalog
	// could not be reached.
	ErrSuggestionUnavailable = errors.New("suggestion catalog unavailable")
)
