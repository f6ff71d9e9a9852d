package domain

import (
	"fmt"
	"slices"
	"sort"
)

// Export captures the registry as flat records: breeders by name, animals by id.
func (r *Registry) Export() Snapshot {
	names := make([]string, 0, len(r.breeders))
	for name := range r.breeders {
		names = append(names, name)
	}
	sort.Strings(names)
	snapshot := Snapshot{
		Breeders: make([]BreederRecord, 0, len(names)),
		Animals:  make([]AnimalRecord, 0, len(r.animals)),
	}
	for _, name := range names {
		snapshot.Breeders = append(snapshot.Breeders, r.breeders[name].Record())
	}
	for _, a := range r.Animals() {
		snapshot.Animals = append(snapshot.Animals, a.Record())
	}
	return snapshot
}

// Clone returns an independent copy of the registry with an empty change journal.
func (r *Registry) Clone() (*Registry, error) {
	return FromSnapshot(r.Export())
}

// FromSnapshot rebuilds a registry from records. Animals are inserted parents
// first regardless of record order; a record citing a missing parent or owner
// fails with ErrNotFound and a parent cycle fails with ErrMalformedGraph.
// Records with an empty owner are imported as unowned.
func FromSnapshot(snapshot Snapshot) (*Registry, error) {
	r := NewRegistry()
	for _, rec := range snapshot.Breeders {
		if _, err := r.AddBreeder(rec.Name); err != nil {
			return nil, fmt.Errorf("import breeder: %w", err)
		}
	}

	pending := make(map[int]AnimalRecord, len(snapshot.Animals))
	ids := make([]int, 0, len(snapshot.Animals))
	for _, rec := range snapshot.Animals {
		if _, dup := pending[rec.ID]; dup {
			return nil, ErrDuplicateKey{Entity: EntityAnimal, Key: AnimalKey(rec.ID)}
		}
		pending[rec.ID] = rec
		ids = append(ids, rec.ID)
	}
	sort.Ints(ids)

	b := snapshotBuilder{registry: r, pending: pending, state: make(map[int]placeState, len(ids))}
	for _, id := range ids {
		if err := b.place(id); err != nil {
			return nil, err
		}
	}
	r.changes = nil
	return r, nil
}

type placeState int

const (
	unplaced placeState = iota
	placing
	placed
)

type snapshotBuilder struct {
	registry *Registry
	pending  map[int]AnimalRecord
	state    map[int]placeState
	path     []int
}

func (b *snapshotBuilder) place(id int) error {
	switch b.state[id] {
	case placed:
		return nil
	case placing:
		cycle := append(slices.Clone(b.path[slices.Index(b.path, id):]), id)
		return ErrMalformedGraph{AnimalID: id, Path: cycle}
	}
	rec := b.pending[id]
	b.state[id] = placing
	b.path = append(b.path, id)

	parents := [2]*Animal{}
	for i, parentID := range []*int{rec.FatherID, rec.MotherID} {
		if parentID == nil {
			continue
		}
		if _, ok := b.pending[*parentID]; !ok {
			return fmt.Errorf("animal %d parent: %w", id, ErrNotFound{Entity: EntityAnimal, Key: AnimalKey(*parentID)})
		}
		if err := b.place(*parentID); err != nil {
			return err
		}
		parents[i] = b.registry.animals[*parentID]
	}
	if parents[0] != nil && parents[0] == parents[1] {
		return ErrMalformedGraph{AnimalID: id, Reason: "father and mother are the same animal"}
	}

	var owner *Breeder
	if rec.Owner != "" {
		o, ok := b.registry.breeders[rec.Owner]
		if !ok {
			return fmt.Errorf("animal %d owner: %w", id, ErrNotFound{Entity: EntityBreeder, Key: rec.Owner})
		}
		owner = o
	}
	b.registry.insertAnimal(owner, rec.ID, rec.Name, parents[0], parents[1])
	b.path = b.path[:len(b.path)-1]
	b.state[id] = placed
	return nil
}
