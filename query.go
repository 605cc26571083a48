package indexadvisor

import (
	"github.com/autom8ter/indexadvisor/errors"
	"github.com/autom8ter/indexadvisor/util"
	"github.com/samber/lo"
)

// WhereOp is an operator used to compare a value to a documents field value in a where clause
type WhereOp string

const (
	// WhereOpEq is an equality check
	WhereOpEq WhereOp = "eq"
	// WhereOpNeq is a non-equality check
	WhereOpNeq WhereOp = "neq"
	// WhereOpGt is a check whether a value is greater than another
	WhereOpGt WhereOp = "gt"
	// WhereOpGte is a check whether a value is greater than or equal to another
	WhereOpGte WhereOp = "gte"
	// WhereOpLt is a check whether a value is less than another
	WhereOpLt WhereOp = "lt"
	// WhereOpLte is a check whether a value is less than or equal to another
	WhereOpLte WhereOp = "lte"
	// WhereOpIn is a check whether a value is one of a list of values
	WhereOpIn WhereOp = "in"
	// WhereOpContains is a check whether a string field contains subtext
	WhereOpContains WhereOp = "contains"
)

// IsRange returns true if the operator bounds a single contiguous range of values
func (o WhereOp) IsRange() bool {
	switch o {
	case WhereOpGt, WhereOpGte, WhereOpLt, WhereOpLte:
		return true
	}
	return false
}

// Where is a field-level filter leaf - a single predicate against one field path
type Where struct {
	// Field is a dot separated path to the field being filtered
	Field string `json:"field" validate:"required"`
	// Op is the operator used to compare the field against the value
	Op WhereOp `json:"op" validate:"oneof='eq' 'neq' 'gt' 'gte' 'lt' 'lte' 'in' 'contains'"`
	// Value is the value the field is compared against
	Value any `json:"value"`
}

// OrderByDirection indicates whether results should be sorted in ascending or descending order
type OrderByDirection string

const (
	// OrderByDirectionAsc is ascending order
	OrderByDirectionAsc OrderByDirection = "asc"
	// OrderByDirectionDesc is descending order
	OrderByDirectionDesc OrderByDirection = "desc"
)

// Reverse returns the opposite direction
func (d OrderByDirection) Reverse() OrderByDirection {
	if d == OrderByDirectionDesc {
		return OrderByDirectionAsc
	}
	return OrderByDirectionDesc
}

// OrderBy orders a result set by a given field in a given direction
type OrderBy struct {
	// Field is the field to sort on
	Field string `json:"field" validate:"required"`
	// Direction is the sort direction
	Direction OrderByDirection `json:"direction" validate:"oneof='asc' 'desc'"`
}

// Projection selects the subset of document fields a query returns
type Projection struct {
	// Fields are the field paths included in the result set
	Fields []string `json:"fields"`
	// IncludeID indicates that the identifier field is returned alongside the projected fields
	IncludeID bool `json:"includeId"`
}

// Filter is the canonical, flattened form of a query's filter expression.
// Nested conjunctions are flattened into the Where list. A filter containing
// any disjunction is marked Disjunctive and its leaves are not usable for
// index matching.
type Filter struct {
	// Where are the conjunctive leaf predicates
	Where []Where `json:"where,omitempty" validate:"dive"`
	// Disjunctive indicates the original expression contained a disjunction
	Disjunctive bool `json:"disjunctive,omitempty"`
}

// Fields returns the unique field paths referenced by the filter, in leaf order
func (f Filter) Fields() []string {
	return lo.Uniq(lo.Map(f.Where, func(w Where, _ int) string {
		return w.Field
	}))
}

// Query is a declarative query to analyze against a collection's declared indexes
type Query struct {
	// From is the collection to query
	From string `json:"from" validate:"required"`
	// Filter filters records - an empty filter matches everything
	Filter Filter `json:"filter,omitempty"`
	// Projection selects fields to return (optional - the full document is returned when nil)
	Projection *Projection `json:"projection,omitempty"`
	// OrderBy is the order to return results in (optional)
	OrderBy []OrderBy `json:"orderBy,omitempty" validate:"dive"`
	// Limit caps the number of results (optional)
	Limit int `json:"limit,omitempty" validate:"min=0"`
}

// Validate validates the query and returns a validation error if one exists
func (q Query) Validate() error {
	if err := util.ValidateStruct(&q); err != nil {
		return err
	}
	if q.Projection != nil {
		for _, f := range q.Projection.Fields {
			if f == "" {
				return errors.New(errors.Validation, "%s - empty projection field path", q.From)
			}
		}
	}
	return nil
}

// fields returns the unique field paths referenced by the query's filter,
// projection, and order by clauses
func (q Query) fields() []string {
	fields := q.Filter.Fields()
	if q.Projection != nil {
		fields = append(fields, q.Projection.Fields...)
	}
	for _, o := range q.OrderBy {
		fields = append(fields, o.Field)
	}
	return lo.Uniq(fields)
}
