package model

import "context"

// DocumentStore is the persistence contract for documents.
// Every call reflects the live state of the backing storage.
type DocumentStore interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, content []byte) error
	Create(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}
