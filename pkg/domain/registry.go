package domain

import (
	"fmt"
	"strings"
)

// Registry is the canonical store of animals and breeders together with the
// ownership ledger and the pedigree edges between animals. All edge and
// ownership mutations go through Registry methods.
//
// A Registry is not safe for concurrent use; persistence stores serialise
// writers and hand out copy-on-write clones.
type Registry struct {
	breeders map[string]*Breeder
	animals  map[int]*Animal
	changes  []Change
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		breeders: make(map[string]*Breeder),
		animals:  make(map[int]*Animal),
	}
}

// AddBreeder registers a breeder with no animals. Names are unique.
func (r *Registry) AddBreeder(name string) (*Breeder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("breeder name required")
	}
	if _, exists := r.breeders[name]; exists {
		return nil, ErrDuplicateKey{Entity: EntityBreeder, Key: name}
	}
	b := &Breeder{name: name, animals: make(map[int]*Animal)}
	r.breeders[name] = b
	r.record(Change{Entity: EntityBreeder, Action: ActionCreate, Key: name, After: b.Record()})
	return b, nil
}

// AddAnimal registers a new animal owned by owner with optional parents. The
// owner and both parents must already belong to this registry; the animal is
// added to the owner's herd and linked as a child of each parent.
func (r *Registry) AddAnimal(owner *Breeder, id int, name string, father, mother *Animal) (*Animal, error) {
	if owner == nil {
		return nil, fmt.Errorf("animal %d: owner required", id)
	}
	if !r.holdsBreeder(owner) {
		return nil, ErrNotFound{Entity: EntityBreeder, Key: owner.name}
	}
	if _, exists := r.animals[id]; exists {
		return nil, ErrDuplicateKey{Entity: EntityAnimal, Key: AnimalKey(id)}
	}
	for _, parent := range []*Animal{father, mother} {
		if parent != nil && !r.holdsAnimal(parent) {
			return nil, ErrNotFound{Entity: EntityAnimal, Key: AnimalKey(parent.id)}
		}
	}
	if father != nil && father == mother {
		return nil, ErrMalformedGraph{AnimalID: id, Reason: "father and mother are the same animal"}
	}
	a := r.insertAnimal(owner, id, name, father, mother)
	r.record(Change{Entity: EntityAnimal, Action: ActionCreate, Key: AnimalKey(id), After: a.Record()})
	return a, nil
}

// Transfer moves an animal into newOwner's herd. Removing it from the previous
// owner, updating the owner field and adding it to the new herd happen in one
// call. Transferring to the current owner is a no-op.
func (r *Registry) Transfer(a *Animal, newOwner *Breeder) error {
	if a == nil {
		return fmt.Errorf("transfer: animal required")
	}
	if !r.holdsAnimal(a) {
		return ErrNotFound{Entity: EntityAnimal, Key: AnimalKey(a.id)}
	}
	if newOwner == nil {
		return ErrInvalidTransfer{AnimalID: a.id, Reason: "new owner required"}
	}
	if !r.holdsBreeder(newOwner) {
		return ErrNotFound{Entity: EntityBreeder, Key: newOwner.name}
	}
	previous := a.owner
	if previous == nil {
		return ErrInvalidTransfer{AnimalID: a.id, Reason: "animal has no current owner"}
	}
	if previous == newOwner {
		return nil
	}
	before := a.Record()
	delete(previous.animals, a.id)
	a.owner = newOwner
	newOwner.animals[a.id] = a
	r.record(Change{Entity: EntityAnimal, Action: ActionTransfer, Key: AnimalKey(a.id), Before: before, After: a.Record()})
	return nil
}

// Breeder returns the breeder registered under name.
func (r *Registry) Breeder(name string) (*Breeder, error) {
	b, ok := r.breeders[name]
	if !ok {
		return nil, ErrNotFound{Entity: EntityBreeder, Key: name}
	}
	return b, nil
}

// Animal returns the animal registered under id.
func (r *Registry) Animal(id int) (*Animal, error) {
	a, ok := r.animals[id]
	if !ok {
		return nil, ErrNotFound{Entity: EntityAnimal, Key: AnimalKey(id)}
	}
	return a, nil
}

// Animals returns every animal in ascending identifier order.
func (r *Registry) Animals() []*Animal { return sortedAnimals(r.animals) }

// Breeders returns every breeder in natural order (first letter, then name).
func (r *Registry) Breeders() []*Breeder {
	out := make([]*Breeder, 0, len(r.breeders))
	for _, b := range r.breeders {
		out = append(out, b)
	}
	sortBreedersByInitial(out)
	return out
}

// AnimalsSortedBy returns every animal ordered by the given policy.
func (r *Registry) AnimalsSortedBy(order AnimalOrder) ([]*Animal, error) {
	return SortAnimals(r.Animals(), order)
}

// BreedersSortedBy returns every breeder ordered by the given policy.
func (r *Registry) BreedersSortedBy(order BreederOrder) ([]*Breeder, error) {
	return SortBreeders(r.Breeders(), order)
}

// Changes returns the mutations recorded since the registry was built.
func (r *Registry) Changes() []Change {
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

func (r *Registry) record(change Change) {
	r.changes = append(r.changes, change)
}

func (r *Registry) holdsBreeder(b *Breeder) bool {
	return b != nil && r.breeders[b.name] == b
}

func (r *Registry) holdsAnimal(a *Animal) bool {
	return a != nil && r.animals[a.id] == a
}

// insertAnimal performs the store, ledger and edge registration for a new animal
// without validation. owner may be nil for imported unowned records.
func (r *Registry) insertAnimal(owner *Breeder, id int, name string, father, mother *Animal) *Animal {
	a := &Animal{
		id:       id,
		name:     name,
		father:   father,
		mother:   mother,
		children: make(map[int]*Animal),
		owner:    owner,
	}
	r.animals[id] = a
	if owner != nil {
		owner.animals[id] = a
	}
	if father != nil {
		addChild(father, a)
	}
	if mother != nil {
		addChild(mother, a)
	}
	return a
}

// addChild registers child under parent keyed by the child's id, so repeated
// registration of the same id overwrites rather than duplicates.
func addChild(parent, child *Animal) {
	parent.children[child.id] = child
}
