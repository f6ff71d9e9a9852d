package domain

import "context"

// RegistryView is the read-only surface of a Registry handed to readers and rules.
type RegistryView interface {
	Animal(id int) (*Animal, error)
	Breeder(name string) (*Breeder, error)
	Animals() []*Animal
	Breeders() []*Breeder
	AnimalsSortedBy(order AnimalOrder) ([]*Animal, error)
	BreedersSortedBy(order BreederOrder) ([]*Breeder, error)
	Export() Snapshot
}

var _ RegistryView = (*Registry)(nil)

// PersistentStore is a minimal abstraction over durable backends. Writers
// receive a private copy of the registry that replaces the committed one only
// when fn and every blocking rule succeed.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(*Registry) error) (Result, error)
	View(ctx context.Context, fn func(RegistryView) error) error
	ExportState() Snapshot
	ImportState(Snapshot) error
}
