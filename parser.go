package indexadvisor

import (
	"sort"
	"strings"

	"github.com/autom8ter/indexadvisor/errors"
	"github.com/spf13/cast"
)

// RawQuery is the loosely typed form of a query accepted from callers before
// it is parsed into its canonical Query form
type RawQuery struct {
	// From is the collection to query
	From string `json:"from"`
	// Filter is a filter expression document: field: value for equality,
	// field: {$op: value} for operators, $and / $or for boolean composition
	Filter map[string]any `json:"filter,omitempty"`
	// Projection maps field paths to 1/true (include) or 0/false (exclude)
	Projection map[string]any `json:"projection,omitempty"`
	// Sort is an ordered list of sort fields
	Sort []RawSort `json:"sort,omitempty"`
	// Limit caps the number of results
	Limit int `json:"limit,omitempty"`
}

// RawSort is a single sort field in a raw query
type RawSort struct {
	// Field is the field to sort on
	Field string `json:"field"`
	// Direction is 1/"asc" for ascending or -1/"desc" for descending
	Direction any `json:"direction,omitempty"`
}

var whereOps = map[string]WhereOp{
	"$eq":       WhereOpEq,
	"$neq":      WhereOpNeq,
	"$ne":       WhereOpNeq,
	"$gt":       WhereOpGt,
	"$gte":      WhereOpGte,
	"$lt":       WhereOpLt,
	"$lte":      WhereOpLte,
	"$in":       WhereOpIn,
	"$contains": WhereOpContains,
	"eq":        WhereOpEq,
	"neq":       WhereOpNeq,
	"gt":        WhereOpGt,
	"gte":       WhereOpGte,
	"lt":        WhereOpLt,
	"lte":       WhereOpLte,
	"in":        WhereOpIn,
	"contains":  WhereOpContains,
}

// ParseQuery parses a raw query into its canonical Query form
func ParseQuery(raw RawQuery) (Query, error) {
	if raw.From == "" {
		return Query{}, errors.New(errors.Validation, "empty required field: 'from'")
	}
	filter, err := ParseFilter(raw.Filter)
	if err != nil {
		return Query{}, err
	}
	projection, err := ParseProjection(raw.Projection)
	if err != nil {
		return Query{}, err
	}
	orderBy, err := ParseSort(raw.Sort)
	if err != nil {
		return Query{}, err
	}
	if raw.Limit < 0 {
		return Query{}, errors.New(errors.Validation, "limit must be non-negative: %d", raw.Limit)
	}
	q := Query{
		From:       raw.From,
		Filter:     filter,
		Projection: projection,
		OrderBy:    orderBy,
		Limit:      raw.Limit,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// ParseFilter parses a raw filter expression document into its canonical
// flattened Filter form. Map keys are walked in sorted order so parsing the
// same document always yields the same canonical filter.
func ParseFilter(raw map[string]any) (Filter, error) {
	p, err := parsePredicate(raw)
	if err != nil {
		return Filter{}, err
	}
	return p.Flatten()
}

func parsePredicate(raw map[string]any) (*Predicate, error) {
	var children []*Predicate
	for _, key := range sortedKeys(raw) {
		value := raw[key]
		switch {
		case key == "$and" || key == "$or":
			sub, err := parseBoolean(key, value)
			if err != nil {
				return nil, err
			}
			if key == "$and" {
				children = append(children, And(sub...))
			} else {
				children = append(children, Or(sub...))
			}
		case strings.HasPrefix(key, "$"):
			return nil, errors.New(errors.Validation, "malformed filter: unknown operator: %s", key)
		case key == "":
			return nil, errors.New(errors.Validation, "malformed filter: empty field path")
		default:
			leaves, err := parseFieldPredicate(key, value)
			if err != nil {
				return nil, err
			}
			children = append(children, leaves...)
		}
	}
	switch len(children) {
	case 0:
		return nil, nil
	case 1:
		return children[0], nil
	}
	return And(children...), nil
}

func parseBoolean(key string, value any) ([]*Predicate, error) {
	var items []map[string]any
	switch value := value.(type) {
	case []map[string]any:
		items = value
	case []any:
		for _, item := range value {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errors.New(errors.Validation, "malformed filter: %s children must be filter documents", key)
			}
			items = append(items, m)
		}
	default:
		return nil, errors.New(errors.Validation, "malformed filter: %s requires a list of filter documents", key)
	}
	if len(items) == 0 {
		return nil, errors.New(errors.Validation, "malformed filter: %s with zero children", key)
	}
	var children []*Predicate
	for _, item := range items {
		child, err := parsePredicate(item)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, errors.New(errors.Validation, "malformed filter: %s contains an empty filter document", key)
		}
		children = append(children, child)
	}
	return children, nil
}

func parseFieldPredicate(field string, value any) ([]*Predicate, error) {
	opDoc, ok := value.(map[string]any)
	if !ok || !isOperatorDoc(opDoc) {
		// plain values (including embedded documents) are equality matches
		return []*Predicate{Eq(field, value)}, nil
	}
	var leaves []*Predicate
	for _, key := range sortedKeys(opDoc) {
		op, ok := whereOps[key]
		if !ok {
			return nil, errors.New(errors.Validation, "malformed filter: unknown operator %s on field %s", key, field)
		}
		leaves = append(leaves, leaf(field, op, opDoc[key]))
	}
	return leaves, nil
}

// isOperatorDoc reports whether a field's value document is an operator
// document rather than an embedded document equality match - true when any
// key carries the operator prefix or every key is a known operator name
func isOperatorDoc(doc map[string]any) bool {
	if len(doc) == 0 {
		return false
	}
	allOps := true
	for key := range doc {
		if strings.HasPrefix(key, "$") {
			return true
		}
		if _, ok := whereOps[key]; !ok {
			allOps = false
		}
	}
	return allOps
}

// ParseProjection parses a raw projection document. A projection is either
// strictly inclusive or strictly exclusive - mixing both errors, with the
// identifier field alone exempt. Exclusive projections return the full
// document minus the excluded fields and canonicalize to nil since the
// returned field set is unknown to the advisor.
func ParseProjection(raw map[string]any) (*Projection, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var (
		includes  []string
		excludes  []string
		includeID = true
		sawID     bool
	)
	for _, key := range sortedKeys(raw) {
		if key == "" {
			return nil, errors.New(errors.Validation, "conflicting projection: empty field path")
		}
		included, err := projectionValue(key, raw[key])
		if err != nil {
			return nil, err
		}
		if key == idField {
			includeID = included
			sawID = true
			continue
		}
		if included {
			includes = append(includes, key)
		} else {
			excludes = append(excludes, key)
		}
	}
	if len(includes) > 0 && len(excludes) > 0 {
		return nil, errors.New(errors.Validation,
			"conflicting projection: cannot mix inclusion of %s with exclusion of %s", includes[0], excludes[0])
	}
	if len(excludes) > 0 {
		return nil, nil
	}
	if len(includes) == 0 && (!sawID || !includeID) {
		return nil, nil
	}
	return &Projection{
		Fields:    includes,
		IncludeID: includeID,
	}, nil
}

func projectionValue(field string, value any) (bool, error) {
	switch value {
	case 1, int64(1), float64(1), true, "1":
		return true, nil
	case 0, int64(0), float64(0), false, "0":
		return false, nil
	}
	return false, errors.New(errors.Validation, "conflicting projection: invalid value for field %s", field)
}

// ParseSort parses a raw sort list into order by clauses
func ParseSort(raw []RawSort) ([]OrderBy, error) {
	var orderBy []OrderBy
	for _, s := range raw {
		if s.Field == "" {
			return nil, errors.New(errors.Validation, "malformed sort: empty field path")
		}
		direction, err := parseDirection(s.Field, s.Direction)
		if err != nil {
			return nil, err
		}
		orderBy = append(orderBy, OrderBy{Field: s.Field, Direction: direction})
	}
	return orderBy, nil
}

func parseDirection(field string, raw any) (OrderByDirection, error) {
	switch raw {
	case nil, 1, int64(1), float64(1), "1", "asc":
		return OrderByDirectionAsc, nil
	case -1, int64(-1), float64(-1), "-1", "desc":
		return OrderByDirectionDesc, nil
	}
	return "", errors.New(errors.Validation, "malformed sort: invalid direction for field %s: %v", field, raw)
}

// foldable aggregation stages - anything else ends the foldable pipeline head
const (
	stageMatch   = "$match"
	stageSort    = "$sort"
	stageProject = "$project"
	stageLimit   = "$limit"
	stageSkip    = "$skip"
)

// ParsePipeline folds the leading run of $match / $sort / $project / $limit /
// $skip stages of an aggregation pipeline into a canonical Query - the same
// head a database's own pipeline optimizer pushes into the query layer.
// Folding stops at the first stage that cannot be expressed as a query
// (e.g. $group); later stages never change which index serves the head.
func ParsePipeline(from string, stages []map[string]any) (Query, error) {
	if from == "" {
		return Query{}, errors.New(errors.Validation, "empty required field: 'from'")
	}
	var (
		filters    []*Predicate
		projection *Projection
		orderBy    []OrderBy
		limit      int
	)
	for _, stage := range stages {
		if len(stage) != 1 {
			return Query{}, errors.New(errors.Validation, "malformed pipeline: a stage must contain exactly one $stage key")
		}
		name := sortedKeys(stage)[0]
		value := stage[name]
		done := false
		switch name {
		case stageMatch:
			// a $match after a $project may reference renamed fields, so it
			// cannot be folded into the pre-projection filter
			if projection != nil {
				done = true
				break
			}
			doc, ok := value.(map[string]any)
			if !ok {
				return Query{}, errors.New(errors.Validation, "malformed pipeline: $match requires a filter document")
			}
			p, err := parsePredicate(doc)
			if err != nil {
				return Query{}, err
			}
			if p != nil {
				filters = append(filters, p)
			}
		case stageSort:
			if len(orderBy) > 0 {
				done = true
				break
			}
			doc, ok := value.(map[string]any)
			if !ok {
				return Query{}, errors.New(errors.Validation, "malformed pipeline: $sort requires a sort document")
			}
			for _, field := range sortedKeys(doc) {
				direction, err := parseDirection(field, doc[field])
				if err != nil {
					return Query{}, err
				}
				orderBy = append(orderBy, OrderBy{Field: field, Direction: direction})
			}
		case stageProject:
			if projection != nil {
				done = true
				break
			}
			doc, ok := value.(map[string]any)
			if !ok {
				return Query{}, errors.New(errors.Validation, "malformed pipeline: $project requires a projection document")
			}
			p, err := ParseProjection(doc)
			if err != nil {
				return Query{}, err
			}
			projection = p
		case stageLimit:
			n, err := cast.ToIntE(value)
			if err != nil {
				return Query{}, errors.New(errors.Validation, "malformed pipeline: $limit must be an integer: %v", value)
			}
			if n < 0 {
				return Query{}, errors.New(errors.Validation, "malformed pipeline: $limit must be non-negative: %d", n)
			}
			if limit == 0 || n < limit {
				limit = n
			}
		case stageSkip:
			// skip does not change the query shape
		default:
			done = true
		}
		if done {
			break
		}
	}
	var filter Filter
	if len(filters) > 0 {
		f, err := And(filters...).Flatten()
		if err != nil {
			return Query{}, err
		}
		filter = f
	}
	q := Query{
		From:       from,
		Filter:     filter,
		Projection: projection,
		OrderBy:    orderBy,
		Limit:      limit,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
