package core

import (
	"context"
	"fmt"

	"herdbook/pkg/domain"
)

const ownershipConsistencyRuleName = "ownership_consistency"

// OwnershipConsistencyRule checks the ownership ledger: each owned animal is
// held by exactly the breeder named as its owner. Animals without an owner,
// which only snapshot imports can produce, are reported as warnings, and each
// transfer in the transaction is noted at log severity.
func OwnershipConsistencyRule() domain.Rule {
	return ownershipConsistencyRule{}
}

type ownershipConsistencyRule struct{}

func (ownershipConsistencyRule) Name() string { return ownershipConsistencyRuleName }

func (ownershipConsistencyRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	breeders := view.Breeders()

	for _, a := range view.Animals() {
		owner := a.Owner()
		if owner == nil {
			res.Violations = append(res.Violations, ownershipViolation(domain.SeverityWarn, domain.EntityAnimal, domain.AnimalKey(a.ID()),
				fmt.Sprintf("animal %d has no owner", a.ID())))
			continue
		}
		stored, err := view.Breeder(owner.Name())
		if err != nil || stored != owner {
			res.Violations = append(res.Violations, ownershipViolation(domain.SeverityBlock, domain.EntityAnimal, domain.AnimalKey(a.ID()),
				fmt.Sprintf("animal %d is owned by unknown breeder %s", a.ID(), owner.Name())))
			continue
		}
		if !owner.Owns(a.ID()) {
			res.Violations = append(res.Violations, ownershipViolation(domain.SeverityBlock, domain.EntityAnimal, domain.AnimalKey(a.ID()),
				fmt.Sprintf("animal %d is missing from the herd of %s", a.ID(), owner.Name())))
		}
	}

	for _, b := range breeders {
		for _, a := range b.Animals() {
			if a.Owner() != b {
				res.Violations = append(res.Violations, ownershipViolation(domain.SeverityBlock, domain.EntityBreeder, b.Name(),
					fmt.Sprintf("breeder %s holds animal %d owned by %v", b.Name(), a.ID(), a.Owner())))
			}
		}
	}

	for _, change := range changes {
		if change.Action != domain.ActionTransfer {
			continue
		}
		before, okBefore := change.Before.(domain.AnimalRecord)
		after, okAfter := change.After.(domain.AnimalRecord)
		if !okBefore || !okAfter {
			continue
		}
		res.Violations = append(res.Violations, ownershipViolation(domain.SeverityLog, domain.EntityAnimal, change.Key,
			fmt.Sprintf("animal %d transferred from %s to %s", after.ID, before.Owner, after.Owner)))
	}
	return res, nil
}

func ownershipViolation(severity domain.Severity, entity domain.EntityType, key, message string) domain.Violation {
	return domain.Violation{
		Rule:     ownershipConsistencyRuleName,
		Severity: severity,
		Message:  message,
		Entity:   entity,
		EntityID: key,
	}
}
