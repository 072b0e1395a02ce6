package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a malformed or out-of-range request parameter.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCollectionNotFound signals that the backing collection is absent.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrRetrievalFailed signals a vector store failure during search.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationFailed signals a chat-completion provider failure.
	ErrGenerationFailed = errors.New("generation failed")
)

// CollectionNotFoundError wraps ErrCollectionNotFound with the collection name,
// which the transport layer surfaces to the caller.
type CollectionNotFoundError struct {
	Collection string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection %q %s", e.Collection, ErrCollectionNotFound.Error())
}

func (e *CollectionNotFoundError) Unwrap() error { return ErrCollectionNotFound }

// NewCollectionNotFound creates a collection-not-found error.
func NewCollectionNotFound(collection string) error {
	return &CollectionNotFoundError{Collection: collection}
}
