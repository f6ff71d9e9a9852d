package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup by identifier or name has no match.
type ErrNotFound struct {
	Entity EntityType
	Key    string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// ErrDuplicateKey is returned when an animal id or breeder name is already registered.
type ErrDuplicateKey struct {
	Entity EntityType
	Key    string
}

func (e ErrDuplicateKey) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.Key)
}

// ErrInvalidTransfer is returned when an ownership transfer cannot be applied.
type ErrInvalidTransfer struct {
	AnimalID int
	Reason   string
}

func (e ErrInvalidTransfer) Error() string {
	return fmt.Sprintf("cannot transfer animal %d: %s", e.AnimalID, e.Reason)
}

// ErrMalformedGraph reports pedigree data violating the acyclic parent model.
// Path lists the identifiers of a detected cycle, first and last being equal.
type ErrMalformedGraph struct {
	AnimalID int
	Path     []int
	Reason   string
}

func (e ErrMalformedGraph) Error() string {
	if len(e.Path) > 0 {
		parts := make([]string, len(e.Path))
		for i, id := range e.Path {
			parts[i] = AnimalKey(id)
		}
		return fmt.Sprintf("malformed pedigree at animal %d: cycle %s", e.AnimalID, strings.Join(parts, " -> "))
	}
	return fmt.Sprintf("malformed pedigree at animal %d: %s", e.AnimalID, e.Reason)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var target ErrNotFound
	return errors.As(err, &target)
}

// IsMalformedGraph reports whether err wraps an ErrMalformedGraph.
func IsMalformedGraph(err error) bool {
	var target ErrMalformedGraph
	return errors.As(err, &target)
}
