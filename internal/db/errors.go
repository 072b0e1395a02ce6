package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrPointNotFound = errors.New("db: point not found")
)

// Op constants map to store operations for error context.
const (
	OpQuery            = "query"
	OpRetrieve         = "retrieve"
	OpListCollections  = "list_collections"
	OpCollectionExists = "collection_exists"
	OpHealthCheck      = "health_check"
	OpGet              = "GET"
	OpSet              = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
