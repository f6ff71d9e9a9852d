package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"herdbook/internal/blob"
	"herdbook/pkg/domain"
)

// KeyPrefix is the blob key prefix of stored reports.
const KeyPrefix = "reports/"

// SnapshotSource provides the registry state to report on.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}

// Exporter builds reports from a source and stores them in a blob store.
type Exporter struct {
	source SnapshotSource
	store  blob.Store
	clock  Clock
	newID  func() string
}

// NewExporter constructs an Exporter. A nil clock uses the wall clock.
func NewExporter(source SnapshotSource, store blob.Store, clock Clock) *Exporter {
	return &Exporter{source: source, store: store, clock: clock, newID: uuid.NewString}
}

// Export renders the current state in format and stores it under
// reports/<uuid>.<format>.
func (e *Exporter) Export(ctx context.Context, format Format) (blob.Info, error) {
	if e.source == nil || e.store == nil {
		return blob.Info{}, fmt.Errorf("report exporter not configured")
	}
	snapshot, err := e.source.Snapshot(ctx)
	if err != nil {
		return blob.Info{}, fmt.Errorf("snapshot: %w", err)
	}
	r, err := Build(snapshot, e.clock)
	if err != nil {
		return blob.Info{}, err
	}
	payload, err := Render(r, format)
	if err != nil {
		return blob.Info{}, err
	}
	key := KeyPrefix + e.newID() + "." + string(format)
	info, err := e.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: format.ContentType(),
		Metadata: map[string]string{
			"format":       string(format),
			"animals":      strconv.Itoa(len(r.Animals)),
			"breeders":     strconv.Itoa(len(r.Breeders)),
			"generated_at": r.GeneratedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store report: %w", err)
	}
	return info, nil
}
