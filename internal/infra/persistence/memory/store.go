// Package memory provides the in-memory implementation of the registry
// persistence store used for tests, the demo and as the working set of the
// durable backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"herdbook/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Registry aliases domain.Registry mutated inside transactions.
	Registry = domain.Registry
	// RegistryView aliases domain.RegistryView handed to readers.
	RegistryView = domain.RegistryView
	// Snapshot aliases domain.Snapshot used for import and export.
	Snapshot = domain.Snapshot
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
)

// Store keeps the committed registry behind a read/write lock. Writers work on
// a private clone which replaces the committed registry only on success, so a
// committed registry is never mutated and readers need no copy.
type Store struct {
	mu      sync.RWMutex
	state   *Registry
	engine  *RulesEngine
	commits uint64
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{state: domain.NewRegistry(), engine: engine}
}

// RunInTransaction applies fn to a clone of the committed registry, evaluates
// the rules engine against the result and commits unless fn fails or a
// blocking violation is reported.
func (s *Store) RunInTransaction(ctx context.Context, fn func(*Registry) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	working, err := s.state.Clone()
	if err != nil {
		return Result{}, fmt.Errorf("memory store: clone registry: %w", err)
	}
	if err := fn(working); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, working, working.Changes())
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = working
	s.commits++
	return result, nil
}

// View executes fn against the committed registry.
func (s *Store) View(ctx context.Context, fn func(RegistryView) error) error {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(state)
}

// ExportState returns the committed registry as flat records.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Export()
}

// ImportState replaces the committed registry with one rebuilt from snapshot.
// An inconsistent snapshot leaves the store unchanged.
func (s *Store) ImportState(snapshot Snapshot) error {
	restored, err := domain.FromSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("memory store: import: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = restored
	return nil
}

// RulesEngine exposes the configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Commits reports how many transactions have been committed since construction.
func (s *Store) Commits() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}
