// Package archive persists named structure snapshots. The sandbox itself
// is deliberately in-memory only; archiving is an explicit user action
// that copies a snapshot out to durable storage under a chosen name.
package archive

import (
	"context"
	"time"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/snapshot"
)

// Entry is one archived snapshot.
type Entry struct {
	Name     string            `json:"name" bson:"_id"`
	Target   string            `json:"target" bson:"target"`
	Snapshot snapshot.Snapshot `json:"snapshot" bson:"snapshot"`
	SavedAt  time.Time         `json:"saved_at" bson:"saved_at"`
}

// Store is the interface for archive storage backends.
type Store interface {
	// Save stores the entry, replacing any previous entry of the same name.
	Save(ctx context.Context, e Entry) error

	// Load retrieves an entry by name. Missing names yield an error with
	// ErrCodeArchiveNotFound.
	Load(ctx context.Context, name string) (Entry, error)

	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Delete removes an entry by name. Missing names yield an error with
	// ErrCodeArchiveNotFound.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Archive validates names and stamps save times on top of a Store.
type Archive struct {
	store Store
}

// New creates an archive over the given store. A nil store gets an
// in-memory one.
func New(store Store) *Archive {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Archive{store: store}
}

// Save archives the snapshot under name.
func (a *Archive) Save(ctx context.Context, name, target string, s snapshot.Snapshot) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "archive name must not be empty")
	}
	return a.store.Save(ctx, Entry{
		Name:     name,
		Target:   target,
		Snapshot: s,
		SavedAt:  time.Now().UTC(),
	})
}

// Load retrieves the entry archived under name.
func (a *Archive) Load(ctx context.Context, name string) (Entry, error) {
	return a.store.Load(ctx, name)
}

// List returns all archived names in lexical order.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	return a.store.List(ctx)
}

// Delete removes the entry archived under name.
func (a *Archive) Delete(ctx context.Context, name string) error {
	return a.store.Delete(ctx, name)
}

// Close releases the underlying store.
func (a *Archive) Close(ctx context.Context) error {
	return a.store.Close(ctx)
}
