package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"herdbook/internal/blob"
	"herdbook/internal/core"
	"herdbook/internal/fixture"
	"herdbook/internal/report"
	"herdbook/pkg/domain"
)

type storeVariant struct {
	name string
	cfg  func(t *testing.T) core.StorageConfig
}

func storeVariants() []storeVariant {
	return []storeVariant{
		{
			name: "memory-store",
			cfg:  func(*testing.T) core.StorageConfig { return core.StorageConfig{Driver: core.StorageMemory} },
		},
		{
			name: "sqlite-store",
			cfg: func(t *testing.T) core.StorageConfig {
				return core.StorageConfig{Driver: core.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "herd.db")}
			},
		},
	}
}

func openStore(t *testing.T, cfg core.StorageConfig) domain.PersistentStore {
	t.Helper()
	store, err := core.OpenStore(context.Background(), cfg, core.DefaultRulesEngine())
	if err != nil {
		t.Fatalf("open %s store: %v", cfg.Driver, err)
	}
	t.Cleanup(func() { _ = core.CloseStore(store) })
	return store
}

// TestIntegrationSmoke seeds the reference herd into each store, queries it
// and exports a report into each in-process blob backend.
func TestIntegrationSmoke(t *testing.T) {
	ctx := context.Background()
	dataset, err := fixture.Reference()
	if err != nil {
		t.Fatalf("reference dataset: %v", err)
	}

	blobVariants := []struct {
		name string
		open func(t *testing.T) blob.Store
	}{
		{name: "memory-blob", open: func(*testing.T) blob.Store { return blob.NewMemory() }},
		{
			name: "filesystem-blob",
			open: func(t *testing.T) blob.Store {
				fs, err := blob.NewFilesystem(t.TempDir())
				if err != nil {
					t.Fatalf("new filesystem blob: %v", err)
				}
				return fs
			},
		},
	}

	for _, sv := range storeVariants() {
		t.Run(sv.name, func(t *testing.T) {
			store := openStore(t, sv.cfg(t))
			metrics := core.NewExpvarMetricsRecorder("")
			var traces bytes.Buffer
			tracer := core.NewJSONTracer(&traces)
			svc := core.NewService(store, core.DefaultRulesEngine(),
				core.WithMetricsRecorder(metrics),
				core.WithTracer(tracer),
			)
			if err := dataset.Apply(ctx, svc); err != nil {
				t.Fatalf("apply dataset: %v", err)
			}

			ancestors, err := svc.Ancestors(ctx, 8)
			if err != nil {
				t.Fatalf("ancestors: %v", err)
			}
			if got := recordIDs(ancestors); !equalInts(got, []int{0, 1, 3, 4, 6}) {
				t.Fatalf("unexpected ancestors of 8: %v", got)
			}
			david, err := svc.Breeder(ctx, "David")
			if err != nil {
				t.Fatalf("breeder: %v", err)
			}
			if !equalInts(david.AnimalIDs, []int{0, 2, 3}) {
				t.Fatalf("unexpected David herd: %v", david.AnimalIDs)
			}

			snap := metrics.Snapshot()
			if snap.Results["add_animal"]["success"] != 9 || snap.Results["transfer_animal"]["success"] != 1 {
				t.Fatalf("unexpected metrics: %+v", snap.Results)
			}
			if traces.Len() == 0 || len(tracer.Entries()) == 0 {
				t.Fatalf("expected spans to be emitted")
			}

			for _, bv := range blobVariants {
				t.Run(bv.name, func(t *testing.T) {
					bs := bv.open(t)
					info, err := report.NewExporter(svc, bs, nil).Export(ctx, report.FormatJSON)
					if err != nil {
						t.Fatalf("export: %v", err)
					}
					_, rc, err := bs.Get(ctx, info.Key)
					if err != nil {
						t.Fatalf("get report: %v", err)
					}
					payload, err := io.ReadAll(rc)
					_ = rc.Close()
					if err != nil {
						t.Fatalf("read report: %v", err)
					}
					var r report.Report
					if err := json.Unmarshal(payload, &r); err != nil {
						t.Fatalf("decode report: %v", err)
					}
					if len(r.Animals) != 9 || len(r.Breeders) != 4 {
						t.Fatalf("unexpected report shape: %d animals, %d breeders", len(r.Animals), len(r.Breeders))
					}
					if r.Animals[0].DescendantCount != 7 || r.Animals[0].Owner != "David" {
						t.Fatalf("unexpected report line for Hansi: %+v", r.Animals[0])
					}
					if ok, err := bs.Delete(ctx, info.Key); err != nil || !ok {
						t.Fatalf("delete report: ok=%v err=%v", ok, err)
					}
				})
			}
		})
	}
}

func recordIDs(records []domain.AnimalRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
