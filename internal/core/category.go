package core

import (
	"errors"
	"fmt"
)

// Category names match the rows seeded into the senior_categories table.
type Category string

const (
	CategoryRegular      Category = "Regular senior citizens"
	CategorySpecial      Category = "Special assistance cases"
	CategoryOctogenarian Category = "Octogenarian (80-89)"
	CategoryNonagenarian Category = "Nonagenarian (90-99)"
	CategoryCentenarian  Category = "Centenarian (100+)"
)

// ErrCategoryMissing means the category lookup table lacks a row the
// classification rules need. This is a deployment problem, not user input:
// reassignment aborts instead of silently leaving applications stale.
var ErrCategoryMissing = errors.New("category lookup missing required entry")

// CategoryLookup maps category names to their lookup-table ids.
type CategoryLookup map[Category]int64

// TierFor resolves the age-tier category for an age.
func TierFor(age int) Category {
	switch {
	case age >= 100:
		return CategoryCentenarian
	case age >= 90:
		return CategoryNonagenarian
	case age >= 80:
		return CategoryOctogenarian
	default:
		return CategoryRegular
	}
}

// Snapshot is the classification-relevant state of a senior.
type Snapshot struct {
	Age int
	PWD bool
}

// InitialCategory classifies a senior with no prior category, used when a
// new application is submitted. PWD status wins over the age tier, matching
// the rule order in NewReconciler.
func InitialCategory(s Snapshot) Category {
	if s.PWD {
		return CategorySpecial
	}
	return TierFor(s.Age)
}

// Rule decides whether a transition between two snapshots forces a category
// reassignment. Rules are pure.
type Rule interface {
	Name() string
	Apply(old, next Snapshot) (Category, bool)
}

// PWDRule reassigns when the PWD flag flips: true gets special assistance,
// false falls back to the regular category.
type PWDRule struct{}

func (PWDRule) Name() string { return "pwd" }

func (PWDRule) Apply(old, next Snapshot) (Category, bool) {
	if old.PWD == next.PWD {
		return "", false
	}
	if next.PWD {
		return CategorySpecial, true
	}
	return CategoryRegular, true
}

// AgeTierRule reassigns when the age crosses a tier boundary. Same tier on
// both sides means no change, whatever the raw ages are.
type AgeTierRule struct{}

func (AgeTierRule) Name() string { return "age_tier" }

func (AgeTierRule) Apply(old, next Snapshot) (Category, bool) {
	oldTier := TierFor(old.Age)
	newTier := TierFor(next.Age)
	if oldTier == newTier {
		return "", false
	}
	return newTier, true
}

// CategoryChange is the reassignment a Reconciler decided on. The caller
// applies CategoryID to all of the senior's applications in one batch.
type CategoryChange struct {
	Rule       string
	Category   Category
	CategoryID int64
}

// Reconciler keeps application categories consistent with a senior's
// current age and PWD status.
type Reconciler struct {
	rules  []Rule
	lookup CategoryLookup
}

// NewReconciler builds a reconciler with the fixed rule order: a PWD flip
// takes precedence over an age-tier crossing when both happen in the same
// update. The first rule that fires wins.
func NewReconciler(lookup CategoryLookup) *Reconciler {
	return &Reconciler{
		rules:  []Rule{PWDRule{}, AgeTierRule{}},
		lookup: lookup,
	}
}

// ChangeFor returns the reassignment for a snapshot transition, or nil when
// no rule fires. Pure: calling it twice with the same inputs gives the same
// answer, and it never mutates anything itself.
func (r *Reconciler) ChangeFor(old, next Snapshot) (*CategoryChange, error) {
	for _, rule := range r.rules {
		cat, changed := rule.Apply(old, next)
		if !changed {
			continue
		}
		id, ok := r.lookup[cat]
		if !ok {
			return nil, fmt.Errorf("%w: %q (rule %s)", ErrCategoryMissing, cat, rule.Name())
		}
		return &CategoryChange{Rule: rule.Name(), Category: cat, CategoryID: id}, nil
	}
	return nil, nil
}
