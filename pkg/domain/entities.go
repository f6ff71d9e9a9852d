// Package domain defines the breeder registry: animals, the breeders that own
// them, the pedigree graph linking animals to their parents and offspring,
// ordering policies over both, and the rule evaluation primitives applied when
// the registry changes.
package domain

import (
	"sort"
	"strconv"
)

// EntityType identifies the type of record stored in the registry.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityAnimal identifies an individual animal record.
	EntityAnimal EntityType = "animal"
	// EntityBreeder identifies a breeder (owner) record.
	EntityBreeder EntityType = "breeder"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	// SeverityLog records an informational note; it never blocks.
	SeverityLog Severity = "log"
)

// Animal is a node of the pedigree graph. Identifier, name and parent links are
// fixed at construction; children and owner are maintained by the Registry that
// created the animal.
type Animal struct {
	id       int
	name     string
	father   *Animal
	mother   *Animal
	children map[int]*Animal
	owner    *Breeder
}

// ID returns the animal identifier.
func (a *Animal) ID() int { return a.id }

// Name returns the animal name.
func (a *Animal) Name() string { return a.name }

// Father returns the father or nil when unknown.
func (a *Animal) Father() *Animal { return a.father }

// Mother returns the mother or nil when unknown.
func (a *Animal) Mother() *Animal { return a.mother }

// Owner returns the current owner. It is nil only for animals imported without one.
func (a *Animal) Owner() *Breeder { return a.owner }

func (a *Animal) String() string { return a.name }

// Record returns a flat value copy of the animal.
func (a *Animal) Record() AnimalRecord {
	rec := AnimalRecord{
		ID:       a.id,
		Name:     a.name,
		ChildIDs: sortedIDs(a.children),
	}
	if a.owner != nil {
		rec.Owner = a.owner.name
	}
	if a.father != nil {
		id := a.father.id
		rec.FatherID = &id
	}
	if a.mother != nil {
		id := a.mother.id
		rec.MotherID = &id
	}
	return rec
}

// Breeder is a person owning animals. The name is the breeder's key.
type Breeder struct {
	name    string
	animals map[int]*Animal
}

// Name returns the breeder name.
func (b *Breeder) Name() string { return b.name }

// Count returns how many animals the breeder currently owns.
func (b *Breeder) Count() int { return len(b.animals) }

// Owns reports whether the breeder currently owns the animal with the given id.
func (b *Breeder) Owns(id int) bool {
	_, ok := b.animals[id]
	return ok
}

// Animals returns the owned animals in ascending identifier order.
func (b *Breeder) Animals() []*Animal { return sortedAnimals(b.animals) }

func (b *Breeder) String() string { return b.name }

// Record returns a flat value copy of the breeder.
func (b *Breeder) Record() BreederRecord {
	return BreederRecord{Name: b.name, AnimalIDs: sortedIDs(b.animals)}
}

// AnimalRecord is the serialisable form of an animal. ChildIDs is derived from
// the parent links of other animals and is ignored on import.
type AnimalRecord struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	FatherID *int   `json:"father_id,omitempty"`
	MotherID *int   `json:"mother_id,omitempty"`
	ChildIDs []int  `json:"child_ids"`
}

// BreederRecord is the serialisable form of a breeder. AnimalIDs is derived
// from the animals' owner field and is ignored on import.
type BreederRecord struct {
	Name      string `json:"name"`
	AnimalIDs []int  `json:"animal_ids"`
}

// Snapshot is a full export of a registry.
type Snapshot struct {
	Breeders []BreederRecord `json:"breeders"`
	Animals  []AnimalRecord  `json:"animals"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Key    string
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate the mutations captured in the change journal.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionTransfer indicates an animal changed owner.
	ActionTransfer Action = "transfer"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}

// AnimalKey renders an animal identifier as the string key used in changes and violations.
func AnimalKey(id int) string { return strconv.Itoa(id) }

func sortedIDs(m map[int]*Animal) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedAnimals(m map[int]*Animal) []*Animal {
	out := make([]*Animal, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
