// Package store persists analysis reports.
//
// A report archives one pipeline execution: which network it ran against,
// what kind of analysis or simulation it was, and the full result payload.
// The Store interface has a memory backend for the CLI and tests and a
// MongoDB backend for the API server.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Report archives one analysis or simulation execution.
type Report struct {
	// ID is the run ID of the execution that produced this report.
	ID uuid.UUID `json:"id" bson:"_id"`

	// CreatedAt is when the report was saved.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// NetworkHash identifies the analyzed network; empty for simulations.
	NetworkHash string `json:"network_hash,omitempty" bson:"network_hash,omitempty"`

	// Kind is the analysis or simulation kind.
	Kind string `json:"kind" bson:"kind"`

	// Summary is a short human-readable description of the result.
	Summary string `json:"summary" bson:"summary"`

	// Payload is the full JSON-encoded result.
	Payload []byte `json:"payload" bson:"payload"`
}

// Store persists reports.
type Store interface {
	// Save persists a report. Saving the same ID twice overwrites.
	Save(ctx context.Context, r Report) error

	// List returns reports in reverse chronological order, at most limit.
	// A limit of 0 means no limit.
	List(ctx context.Context, limit int) ([]Report, error)

	// Get retrieves a report by ID.
	Get(ctx context.Context, id uuid.UUID) (Report, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
