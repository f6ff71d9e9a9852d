package domain

import (
	"errors"
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestExportImportRoundTrip(t *testing.T) {
	r := buildReference(t)
	snapshot := r.Export()
	if len(snapshot.Breeders) != 4 || len(snapshot.Animals) != 9 {
		t.Fatalf("unexpected snapshot size %d/%d", len(snapshot.Breeders), len(snapshot.Animals))
	}
	if snapshot.Breeders[0].Name != "Alf" || snapshot.Breeders[3].Name != "David" {
		t.Fatalf("expected breeders sorted by name, got %+v", snapshot.Breeders)
	}
	if got := snapshot.Animals[8]; got.Owner != "Beate" || *got.FatherID != 0 || *got.MotherID != 6 {
		t.Fatalf("unexpected record for animal 8: %+v", got)
	}

	restored, err := FromSnapshot(snapshot)
	mustNoError(t, "import", err)
	if !reflect.DeepEqual(restored.Export(), snapshot) {
		t.Fatalf("round trip mismatch")
	}
	if len(restored.Changes()) != 0 {
		t.Fatalf("imported registry must start with an empty journal")
	}
	ancestors, err := mustAnimal(t, restored, 8).Ancestors()
	mustNoError(t, "ancestors", err)
	assertIDs(t, "restored ancestors", ancestors, 0, 1, 3, 4, 6)
}

func TestCloneIsIndependent(t *testing.T) {
	r := buildReference(t)
	clone, err := r.Clone()
	mustNoError(t, "clone", err)
	alf, _ := clone.Breeder("Alf")
	mustNoError(t, "transfer", clone.Transfer(mustAnimal(t, clone, 0), alf))

	if owner := mustAnimal(t, r, 0).Owner().Name(); owner != "David" {
		t.Fatalf("clone mutation leaked into original: owner %s", owner)
	}
	if mustAnimal(t, clone, 0) == mustAnimal(t, r, 0) {
		t.Fatalf("clone must not share animal pointers")
	}
}

func TestFromSnapshotOrdersParentsFirst(t *testing.T) {
	snapshot := Snapshot{
		Breeders: []BreederRecord{{Name: "Alf"}},
		Animals: []AnimalRecord{
			{ID: 1, Name: "Child", Owner: "Alf", FatherID: intPtr(7), MotherID: intPtr(9)},
			{ID: 9, Name: "Mother", Owner: "Alf", FatherID: intPtr(7)},
			{ID: 7, Name: "Grandfather", Owner: "Alf"},
		},
	}
	r, err := FromSnapshot(snapshot)
	mustNoError(t, "import", err)
	assertIDs(t, "children of 7", mustAnimal(t, r, 7).Children(), 1, 9)
	alf, _ := r.Breeder("Alf")
	if alf.Count() != 3 {
		t.Fatalf("expected Alf to own 3 animals, got %d", alf.Count())
	}
}

func TestFromSnapshotRejectsInconsistentRecords(t *testing.T) {
	alf := []BreederRecord{{Name: "Alf"}}
	tests := []struct {
		name     string
		snapshot Snapshot
		check    func(error) bool
	}{
		{"missing parent", Snapshot{Breeders: alf, Animals: []AnimalRecord{
			{ID: 1, Name: "Orphan", Owner: "Alf", MotherID: intPtr(5)},
		}}, IsNotFound},
		{"missing owner", Snapshot{Breeders: alf, Animals: []AnimalRecord{
			{ID: 1, Name: "Stray", Owner: "Nobody"},
		}}, IsNotFound},
		{"duplicate animal", Snapshot{Breeders: alf, Animals: []AnimalRecord{
			{ID: 1, Name: "A", Owner: "Alf"},
			{ID: 1, Name: "B", Owner: "Alf"},
		}}, func(err error) bool {
			var dup ErrDuplicateKey
			return errors.As(err, &dup)
		}},
		{"duplicate breeder", Snapshot{Breeders: []BreederRecord{{Name: "Alf"}, {Name: "Alf"}}}, func(err error) bool {
			var dup ErrDuplicateKey
			return errors.As(err, &dup)
		}},
		{"self parent", Snapshot{Breeders: alf, Animals: []AnimalRecord{
			{ID: 1, Name: "Loop", Owner: "Alf", FatherID: intPtr(1)},
		}}, IsMalformedGraph},
		{"two cycle", Snapshot{Breeders: alf, Animals: []AnimalRecord{
			{ID: 1, Name: "X", Owner: "Alf", FatherID: intPtr(2)},
			{ID: 2, Name: "Y", Owner: "Alf", MotherID: intPtr(1)},
		}}, IsMalformedGraph},
		{"same parent twice", Snapshot{Breeders: alf, Animals: []AnimalRecord{
			{ID: 1, Name: "P", Owner: "Alf"},
			{ID: 2, Name: "C", Owner: "Alf", FatherID: intPtr(1), MotherID: intPtr(1)},
		}}, IsMalformedGraph},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := FromSnapshot(tc.snapshot)
			if r != nil || !tc.check(err) {
				t.Fatalf("unexpected result %v, %v", r, err)
			}
		})
	}
}

func TestFromSnapshotCycleReportsPath(t *testing.T) {
	_, err := FromSnapshot(Snapshot{
		Breeders: []BreederRecord{{Name: "Alf"}},
		Animals: []AnimalRecord{
			{ID: 1, Name: "X", Owner: "Alf", FatherID: intPtr(2)},
			{ID: 2, Name: "Y", Owner: "Alf", MotherID: intPtr(1)},
		},
	})
	var malformed ErrMalformedGraph
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed graph, got %v", err)
	}
	if !reflect.DeepEqual(malformed.Path, []int{1, 2, 1}) {
		t.Fatalf("expected cycle 1 -> 2 -> 1, got %v", malformed.Path)
	}
	if malformed.Error() != "malformed pedigree at animal 1: cycle 1 -> 2 -> 1" {
		t.Fatalf("unexpected message %q", malformed.Error())
	}
}

func TestFromSnapshotImportsUnownedAnimals(t *testing.T) {
	r, err := FromSnapshot(Snapshot{
		Breeders: []BreederRecord{{Name: "Alf", AnimalIDs: []int{99}}},
		Animals:  []AnimalRecord{{ID: 3, Name: "Stray"}},
	})
	mustNoError(t, "import", err)
	stray := mustAnimal(t, r, 3)
	if stray.Owner() != nil {
		t.Fatalf("expected unowned animal")
	}
	alf, _ := r.Breeder("Alf")
	if alf.Count() != 0 {
		t.Fatalf("derived AnimalIDs must be ignored on import")
	}
	if rec := stray.Record(); rec.Owner != "" {
		t.Fatalf("expected empty owner in record, got %q", rec.Owner)
	}
}
