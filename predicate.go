package indexadvisor

import (
	"github.com/autom8ter/indexadvisor/errors"
)

// Predicate is a node in a filter expression tree - either a single leaf
// where clause, a conjunction, or a disjunction of child predicates
type Predicate struct {
	// Leaf is a single where clause (leaf node)
	Leaf *Where `json:"leaf,omitempty"`
	// And is a conjunction of child predicates
	And []*Predicate `json:"and,omitempty"`
	// Or is a disjunction of child predicates
	Or []*Predicate `json:"or,omitempty"`
}

// Eq creates an equality leaf predicate
func Eq(field string, value any) *Predicate {
	return leaf(field, WhereOpEq, value)
}

// Neq creates a non-equality leaf predicate
func Neq(field string, value any) *Predicate {
	return leaf(field, WhereOpNeq, value)
}

// Gt creates a greater-than leaf predicate
func Gt(field string, value any) *Predicate {
	return leaf(field, WhereOpGt, value)
}

// Gte creates a greater-than-or-equal leaf predicate
func Gte(field string, value any) *Predicate {
	return leaf(field, WhereOpGte, value)
}

// Lt creates a less-than leaf predicate
func Lt(field string, value any) *Predicate {
	return leaf(field, WhereOpLt, value)
}

// Lte creates a less-than-or-equal leaf predicate
func Lte(field string, value any) *Predicate {
	return leaf(field, WhereOpLte, value)
}

// In creates a leaf predicate matching any of a list of values
func In(field string, values any) *Predicate {
	return leaf(field, WhereOpIn, values)
}

// Contains creates a substring leaf predicate
func Contains(field string, value any) *Predicate {
	return leaf(field, WhereOpContains, value)
}

// And creates a conjunction of the given predicates
func And(children ...*Predicate) *Predicate {
	return &Predicate{And: children}
}

// Or creates a disjunction of the given predicates
func Or(children ...*Predicate) *Predicate {
	return &Predicate{Or: children}
}

func leaf(field string, op WhereOp, value any) *Predicate {
	return &Predicate{Leaf: &Where{Field: field, Op: op, Value: value}}
}

// Flatten reduces the predicate tree to its canonical Filter form: nested
// conjunctions collapse into a single leaf list and any disjunction marks
// the filter disjunctive. Leaves beneath a disjunction are dropped from the
// leaf list since they do not constrain every matching document.
func (p *Predicate) Flatten() (Filter, error) {
	if p == nil {
		return Filter{}, nil
	}
	var f Filter
	if err := p.flatten(&f); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func (p *Predicate) flatten(f *Filter) error {
	switch {
	case p.Leaf != nil:
		if p.Leaf.Field == "" {
			return errors.New(errors.Validation, "malformed filter: empty field path")
		}
		f.Where = append(f.Where, *p.Leaf)
	case p.And != nil:
		if len(p.And) == 0 {
			return errors.New(errors.Validation, "malformed filter: conjunction with zero children")
		}
		for _, child := range p.And {
			if err := child.flatten(f); err != nil {
				return err
			}
		}
	case p.Or != nil:
		if len(p.Or) == 0 {
			return errors.New(errors.Validation, "malformed filter: disjunction with zero children")
		}
		for _, child := range p.Or {
			if err := child.validate(); err != nil {
				return err
			}
		}
		f.Disjunctive = true
	default:
		return errors.New(errors.Validation, "malformed filter: empty predicate node")
	}
	return nil
}

func (p *Predicate) validate() error {
	var discard Filter
	return p.flatten(&discard)
}
