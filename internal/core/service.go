// Package core exposes the herdbook service: identifier based operations over
// the breeder registry, wrapped in store transactions, rules evaluation and
// observability hooks.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"herdbook/internal/infra/persistence/memory"
	"herdbook/pkg/domain"
)

// Service exposes transactional registry operations keyed by animal id and breeder name.
type Service struct {
	store   domain.PersistentStore
	engine  *domain.RulesEngine
	clock   Clock
	now     func() time.Time
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	newID   func() string
}

// NewAnimal describes an animal to register. Parent ids are optional.
type NewAnimal struct {
	ID       int
	Name     string
	Owner    string
	FatherID *int
	MotherID *int
}

// NewService constructs a service backed by the supplied store. engine may be
// nil when the store evaluates rules on its own; it is only reported by RulesEngine.
func NewService(store domain.PersistentStore, engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	clock := ClockFunc(func() time.Time { return time.Now().UTC() })
	s := &Service{
		store:   store,
		engine:  engine,
		clock:   clock,
		now:     clock.Now,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store using engine.
func NewInMemoryService(engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = DefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), engine, opts...)
}

// Store returns the underlying persistence store.
func (s *Service) Store() domain.PersistentStore { return s.store }

// RulesEngine returns the engine the service was built with.
func (s *Service) RulesEngine() *domain.RulesEngine { return s.engine }

// AddBreeder registers a breeder with an empty herd.
func (s *Service) AddBreeder(ctx context.Context, name string) (domain.BreederRecord, domain.Result, error) {
	var created domain.BreederRecord
	res, err := s.mutate(ctx, "add_breeder", name, func(tx *domain.Registry) error {
		b, err := tx.AddBreeder(name)
		if err != nil {
			return err
		}
		created = b.Record()
		return nil
	})
	return created, res, err
}

// AddAnimal registers an animal owned by an existing breeder, linking it to
// the given parents when present.
func (s *Service) AddAnimal(ctx context.Context, in NewAnimal) (domain.AnimalRecord, domain.Result, error) {
	var created domain.AnimalRecord
	res, err := s.mutate(ctx, "add_animal", domain.AnimalKey(in.ID), func(tx *domain.Registry) error {
		owner, err := tx.Breeder(in.Owner)
		if err != nil {
			return err
		}
		father, err := optionalAnimal(tx, in.FatherID)
		if err != nil {
			return fmt.Errorf("father: %w", err)
		}
		mother, err := optionalAnimal(tx, in.MotherID)
		if err != nil {
			return fmt.Errorf("mother: %w", err)
		}
		a, err := tx.AddAnimal(owner, in.ID, in.Name, father, mother)
		if err != nil {
			return err
		}
		created = a.Record()
		return nil
	})
	return created, res, err
}

// TransferAnimal moves an animal into the herd of newOwner.
func (s *Service) TransferAnimal(ctx context.Context, id int, newOwner string) (domain.AnimalRecord, domain.Result, error) {
	var moved domain.AnimalRecord
	res, err := s.mutate(ctx, "transfer_animal", domain.AnimalKey(id), func(tx *domain.Registry) error {
		a, err := tx.Animal(id)
		if err != nil {
			return err
		}
		owner, err := tx.Breeder(newOwner)
		if err != nil {
			return err
		}
		if err := tx.Transfer(a, owner); err != nil {
			return err
		}
		moved = a.Record()
		return nil
	})
	return moved, res, err
}

// ImportSnapshot replaces the registry with the given snapshot.
func (s *Service) ImportSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "import_snapshot")
	err := s.store.ImportState(snapshot)
	s.finish(ctx, span, "import_snapshot", start, err)
	return err
}

// Animal returns the animal registered under id.
func (s *Service) Animal(ctx context.Context, id int) (domain.AnimalRecord, error) {
	var out domain.AnimalRecord
	err := s.read(ctx, "get_animal", func(v domain.RegistryView) error {
		a, err := v.Animal(id)
		if err != nil {
			return err
		}
		out = a.Record()
		return nil
	})
	return out, err
}

// Breeder returns the breeder registered under name.
func (s *Service) Breeder(ctx context.Context, name string) (domain.BreederRecord, error) {
	var out domain.BreederRecord
	err := s.read(ctx, "get_breeder", func(v domain.RegistryView) error {
		b, err := v.Breeder(name)
		if err != nil {
			return err
		}
		out = b.Record()
		return nil
	})
	return out, err
}

// Animals lists every animal in the given order.
func (s *Service) Animals(ctx context.Context, order domain.AnimalOrder) ([]domain.AnimalRecord, error) {
	var out []domain.AnimalRecord
	err := s.read(ctx, "list_animals", func(v domain.RegistryView) error {
		sorted, err := v.AnimalsSortedBy(order)
		if err != nil {
			return err
		}
		out = animalRecords(sorted)
		return nil
	})
	return out, err
}

// Breeders lists every breeder in the given order.
func (s *Service) Breeders(ctx context.Context, order domain.BreederOrder) ([]domain.BreederRecord, error) {
	var out []domain.BreederRecord
	err := s.read(ctx, "list_breeders", func(v domain.RegistryView) error {
		sorted, err := v.BreedersSortedBy(order)
		if err != nil {
			return err
		}
		out = make([]domain.BreederRecord, len(sorted))
		for i, b := range sorted {
			out[i] = b.Record()
		}
		return nil
	})
	return out, err
}

// BreederAnimals lists the animals owned by name in the given order.
func (s *Service) BreederAnimals(ctx context.Context, name string, order domain.AnimalOrder) ([]domain.AnimalRecord, error) {
	var out []domain.AnimalRecord
	err := s.read(ctx, "list_breeder_animals", func(v domain.RegistryView) error {
		b, err := v.Breeder(name)
		if err != nil {
			return err
		}
		sorted, err := b.AnimalsSortedBy(order)
		if err != nil {
			return err
		}
		out = animalRecords(sorted)
		return nil
	})
	return out, err
}

// Ancestors returns the ancestor closure of the animal in ascending id order.
func (s *Service) Ancestors(ctx context.Context, id int) ([]domain.AnimalRecord, error) {
	return s.related(ctx, "list_ancestors", id, (*domain.Animal).Ancestors)
}

// Descendants returns the descendant closure of the animal in ascending id order.
func (s *Service) Descendants(ctx context.Context, id int) ([]domain.AnimalRecord, error) {
	return s.related(ctx, "list_descendants", id, (*domain.Animal).Descendants)
}

// Children returns the direct offspring of the animal.
func (s *Service) Children(ctx context.Context, id int) ([]domain.AnimalRecord, error) {
	return s.related(ctx, "list_children", id, func(a *domain.Animal) ([]*domain.Animal, error) {
		return a.Children(), nil
	})
}

// AncestorCount returns the number of distinct ancestors of the animal.
func (s *Service) AncestorCount(ctx context.Context, id int) (int, error) {
	ancestors, err := s.related(ctx, "count_ancestors", id, (*domain.Animal).Ancestors)
	return len(ancestors), err
}

// DescendantCount returns the number of distinct descendants of the animal.
func (s *Service) DescendantCount(ctx context.Context, id int) (int, error) {
	descendants, err := s.related(ctx, "count_descendants", id, (*domain.Animal).Descendants)
	return len(descendants), err
}

// IsAncestor reports whether candidate is an ancestor of the animal with id of.
func (s *Service) IsAncestor(ctx context.Context, candidate, of int) (bool, error) {
	var out bool
	err := s.read(ctx, "is_ancestor", func(v domain.RegistryView) error {
		c, err := v.Animal(candidate)
		if err != nil {
			return err
		}
		target, err := v.Animal(of)
		if err != nil {
			return err
		}
		out, err = c.IsAncestorOf(target)
		return err
	})
	return out, err
}

// Snapshot exports the committed registry.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	var out domain.Snapshot
	err := s.read(ctx, "export_snapshot", func(v domain.RegistryView) error {
		out = v.Export()
		return nil
	})
	return out, err
}

func (s *Service) related(ctx context.Context, op string, id int, fn func(*domain.Animal) ([]*domain.Animal, error)) ([]domain.AnimalRecord, error) {
	var out []domain.AnimalRecord
	err := s.read(ctx, op, func(v domain.RegistryView) error {
		a, err := v.Animal(id)
		if err != nil {
			return err
		}
		related, err := fn(a)
		if err != nil {
			return err
		}
		out = animalRecords(related)
		return nil
	})
	return out, err
}

func (s *Service) mutate(ctx context.Context, op, entityID string, fn func(*domain.Registry) error) (domain.Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	res, err := s.store.RunInTransaction(ctx, fn)
	s.logViolations(op, res)
	s.finish(ctx, span, op, start, err)
	s.recordAudit(ctx, op, entityID, time.Since(start), err)
	return res, err
}

func (s *Service) read(ctx context.Context, op string, fn func(domain.RegistryView) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := s.store.View(ctx, fn)
	s.finish(ctx, span, op, start, err)
	return err
}

func (s *Service) finish(ctx context.Context, span TraceSpan, op string, start time.Time, err error) {
	duration := time.Since(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)
	if err != nil {
		s.logger.Warn("operation failed", "operation", op, "duration", duration, "error", err)
		return
	}
	s.logger.Debug("operation completed", "operation", op, "duration", duration)
}

func (s *Service) logViolations(op string, res domain.Result) {
	for _, v := range res.Violations {
		args := []any{"operation", op, "rule", v.Rule, "entity", v.Entity, "entity_id", v.EntityID, "message", v.Message}
		switch v.Severity {
		case domain.SeverityBlock, domain.SeverityWarn:
			s.logger.Warn("rule violation", append(args, "severity", v.Severity)...)
		default:
			s.logger.Info("rule note", args...)
		}
	}
}

type auditTarget struct {
	entity domain.EntityType
	action domain.Action
}

var auditedOperations = map[string]auditTarget{
	"add_breeder":     {entity: domain.EntityBreeder, action: domain.ActionCreate},
	"add_animal":      {entity: domain.EntityAnimal, action: domain.ActionCreate},
	"transfer_animal": {entity: domain.EntityAnimal, action: domain.ActionTransfer},
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	target, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		ID:        s.newID(),
		Operation: op,
		Entity:    target.entity,
		Action:    target.action,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

func optionalAnimal(tx *domain.Registry, id *int) (*domain.Animal, error) {
	if id == nil {
		return nil, nil
	}
	return tx.Animal(*id)
}

func animalRecords(animals []*domain.Animal) []domain.AnimalRecord {
	out := make([]domain.AnimalRecord, len(animals))
	for i, a := range animals {
		out[i] = a.Record()
	}
	return out
}
