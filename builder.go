package indexadvisor

// QueryBuilder is a utility for creating queries via chainable methods
type QueryBuilder struct {
	query  *Query
	filter *Predicate
	err    error
}

// NewQueryBuilder creates a new QueryBuilder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{query: &Query{}}
}

// Query returns the built query or the first error encountered while building it
func (q *QueryBuilder) Query() (Query, error) {
	if q.err != nil {
		return Query{}, q.err
	}
	filter, err := q.filter.Flatten()
	if err != nil {
		return Query{}, err
	}
	q.query.Filter = filter
	return *q.query, nil
}

// From adds the From clause to the query
func (q *QueryBuilder) From(from string) *QueryBuilder {
	q.query.From = from
	return q
}

// Where adds the predicate(s) to the query's filter as a conjunction
func (q *QueryBuilder) Where(predicates ...*Predicate) *QueryBuilder {
	if q.filter == nil && len(predicates) == 1 {
		q.filter = predicates[0]
		return q
	}
	if q.filter != nil {
		predicates = append([]*Predicate{q.filter}, predicates...)
	}
	q.filter = And(predicates...)
	return q
}

// Project adds the projected field(s) to the query
func (q *QueryBuilder) Project(fields ...string) *QueryBuilder {
	if q.query.Projection == nil {
		q.query.Projection = &Projection{IncludeID: true}
	}
	q.query.Projection.Fields = append(q.query.Projection.Fields, fields...)
	return q
}

// ExcludeID excludes the identifier field from the query's projection
func (q *QueryBuilder) ExcludeID() *QueryBuilder {
	if q.query.Projection == nil {
		q.query.Projection = &Projection{}
	}
	q.query.Projection.IncludeID = false
	return q
}

// OrderBy adds the OrderBy clause(s) to the query
func (q *QueryBuilder) OrderBy(ob ...OrderBy) *QueryBuilder {
	q.query.OrderBy = append(q.query.OrderBy, ob...)
	return q
}

// Limit adds the Limit clause to the query
func (q *QueryBuilder) Limit(limit int) *QueryBuilder {
	q.query.Limit = limit
	return q
}
