package core

import (
	"context"
	"fmt"
	"strconv"

	"herdbook/pkg/domain"
)

const lineageIntegrityRuleName = "lineage_integrity"

// LineageIntegrityRule enforces parent/offspring constraints: recorded parents
// exist in the registry, no animal is its own parent, father and mother differ,
// every parent lists the animal as a child, and the ancestor closure of each
// created animal can be computed.
func LineageIntegrityRule() domain.Rule {
	return lineageIntegrityRule{}
}

type lineageIntegrityRule struct{}

func (lineageIntegrityRule) Name() string { return lineageIntegrityRuleName }

func (lineageIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, child := range view.Animals() {
		parents := child.Parents()
		for _, parent := range parents {
			if parent == child {
				res.Violations = append(res.Violations, lineageViolation(child.ID(), fmt.Sprintf("animal %d references itself as a parent", child.ID())))
				continue
			}
			stored, err := view.Animal(parent.ID())
			if err != nil || stored != parent {
				res.Violations = append(res.Violations, lineageViolation(child.ID(), fmt.Sprintf("animal %d references missing parent %d", child.ID(), parent.ID())))
				continue
			}
			if !hasChild(parent, child) {
				res.Violations = append(res.Violations, lineageViolation(child.ID(), fmt.Sprintf("parent %d does not list animal %d as a child", parent.ID(), child.ID())))
			}
		}
		if len(parents) == 2 && parents[0] == parents[1] {
			res.Violations = append(res.Violations, lineageViolation(child.ID(), fmt.Sprintf("animal %d has the same father and mother", child.ID())))
		}
	}

	for _, change := range changes {
		if change.Entity != domain.EntityAnimal || change.Action != domain.ActionCreate {
			continue
		}
		id, err := strconv.Atoi(change.Key)
		if err != nil {
			continue
		}
		a, err := view.Animal(id)
		if err != nil {
			continue
		}
		if _, err := a.Ancestors(); err != nil {
			res.Violations = append(res.Violations, lineageViolation(id, err.Error()))
		}
	}

	return res, nil
}

func hasChild(parent, child *domain.Animal) bool {
	for _, c := range parent.Children() {
		if c == child {
			return true
		}
	}
	return false
}

func lineageViolation(animalID int, message string) domain.Violation {
	return domain.Violation{
		Rule:     lineageIntegrityRuleName,
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   domain.EntityAnimal,
		EntityID: domain.AnimalKey(animalID),
	}
}
