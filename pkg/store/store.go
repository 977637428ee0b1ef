// Package store persists diagram documents for the HTTP service.
//
// Three backends implement [Store]:
//   - MemoryStore: in-process map, used by tests and when no database is set
//   - FileStore: one JSON file per diagram, for single-host deployments
//   - MongoStore: a MongoDB collection, for multi-instance deployments
//
// Documents are stored as submitted; they are parsed again when rendered so
// a stored diagram always renders with the current engine.
//
//	d := store.NewDiagram("flow", src, diagram.FormatTOML)
//	if err := st.Put(ctx, d); err != nil {
//	    return err
//	}
//	got, err := st.Get(ctx, d.ID)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stackdraw/pkg/cache"
	"github.com/matzehuels/stackdraw/pkg/diagram"
	"github.com/matzehuels/stackdraw/pkg/errors"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Diagram is a stored diagram document.
type Diagram struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	Format    diagram.Format `json:"format" bson:"format"`
	Source    string         `json:"source" bson:"source"`
	Hash      string         `json:"hash" bson:"hash"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// NewDiagram wraps a document source with a fresh id and content hash.
func NewDiagram(name string, source []byte, format diagram.Format) *Diagram {
	return &Diagram{
		ID:        uuid.NewString(),
		Name:      name,
		Format:    format,
		Source:    string(source),
		Hash:      cache.Hash(source),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Parse decodes the stored source.
func (d *Diagram) Parse() (*diagram.Document, error) {
	return diagram.Parse([]byte(d.Source), d.Format)
}

// Store is the interface for diagram storage backends. Get and Delete
// return a NOT_FOUND error for unknown ids.
type Store interface {
	Put(ctx context.Context, d *Diagram) error
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns up to limit diagrams, newest first.
	List(ctx context.Context, limit int) ([]*Diagram, error)

	Delete(ctx context.Context, id string) error
	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "diagram %q not found", id)
}

func validate(d *Diagram) error {
	if d == nil || d.ID == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "diagram needs an id")
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
