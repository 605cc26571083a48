package indexadvisor

// idField is the identifier field implicitly returned by queries unless a
// projection excludes it
const idField = "_id"

// Explain is the optimizer's report of how a query maps onto a collection's
// declared indexes
type Explain struct {
	// Collection is the collection the query targets
	Collection string `json:"collection"`
	// Index is the chosen index - nil means no index narrows the query and a
	// full collection scan is required
	Index *Index `json:"index,omitempty"`
	// MatchedFields is the equality prefix: the leading index fields bound by
	// equality predicates in the filter
	MatchedFields []string `json:"matchedFields,omitempty"`
	// MatchedValues are the values bound to the equality prefix
	MatchedValues map[string]any `json:"matchedValues,omitempty"`
	// SeekField is the single range-bound index field following the equality
	// prefix, if one exists
	SeekField string `json:"seekField,omitempty"`
	// SeekOp is the range operator bounding the seek field
	SeekOp WhereOp `json:"seekOp,omitempty"`
	// SeekValues are the range bounds on the seek field
	SeekValues map[WhereOp]any `json:"seekValues,omitempty"`
	// SortedByIndex indicates the order by clause is satisfied by the index
	// scan itself, with no in-memory sort
	SortedByIndex bool `json:"sortedByIndex"`
	// Reverse indicates the index should be scanned in reverse to satisfy the
	// order by clause
	Reverse bool `json:"reverse,omitempty"`
	// Covered indicates the query is answerable entirely from the index
	// without fetching documents
	Covered bool `json:"covered"`
}

// FullScan returns true when no index supports the query
func (e Explain) FullScan() bool {
	return e.Index == nil
}

// Optimizer selects the best index for a query from a collection's declared indexes
type Optimizer interface {
	// Optimize selects the optimal index to use based on the query's filter
	// and order by clauses
	Optimize(query Query, indexes []Index) (Explain, error)
}

type defaultOptimizer struct{}

// NewOptimizer returns the default optimizer
func NewOptimizer() Optimizer {
	return defaultOptimizer{}
}

func (o defaultOptimizer) Optimize(query Query, indexes []Index) (Explain, error) {
	explain := Explain{
		Collection: query.From,
	}
	// a single simple index cannot serve a disjunctive filter
	if query.Filter.Disjunctive {
		return explain, nil
	}
	var (
		equality = map[string]Where{}
		ranges   = map[string][]Where{}
	)
	for _, w := range query.Filter.Where {
		switch {
		case w.Op == WhereOpEq:
			if _, ok := equality[w.Field]; !ok {
				equality[w.Field] = w
			}
		case w.Op.IsRange():
			ranges[w.Field] = append(ranges[w.Field], w)
		}
	}
	var (
		best      candidate
		haveMatch bool
	)
	for _, index := range indexes {
		if len(index.Fields) == 0 {
			continue
		}
		c := matchIndex(query, index, equality, ranges)
		if c.prefixLen == 0 && !c.hasRange {
			continue
		}
		if !haveMatch || c.better(best) {
			best = c
			haveMatch = true
		}
	}
	if !haveMatch {
		return explain, nil
	}
	index := best.index
	explain.Index = &index
	explain.MatchedFields = best.matchedFields
	explain.MatchedValues = best.matchedValues
	explain.SeekField = best.seekField
	explain.SeekOp = best.seekOp
	explain.SeekValues = best.seekValues
	explain.SortedByIndex = best.sorted
	explain.Reverse = best.reverse
	return explain, nil
}

type candidate struct {
	index         Index
	prefixLen     int
	matchedFields []string
	matchedValues map[string]any
	hasRange      bool
	seekField     string
	seekOp        WhereOp
	seekValues    map[WhereOp]any
	sorted        bool
	reverse       bool
}

// better reports whether c beats other: larger equality prefix, then range
// bound presence, then sort satisfaction, then fewer index fields. Full ties
// keep the earlier declared index.
func (c candidate) better(other candidate) bool {
	if c.prefixLen != other.prefixLen {
		return c.prefixLen > other.prefixLen
	}
	if c.hasRange != other.hasRange {
		return c.hasRange
	}
	if c.sorted != other.sorted {
		return c.sorted
	}
	return len(c.index.Fields) < len(other.index.Fields)
}

func matchIndex(query Query, index Index, equality map[string]Where, ranges map[string][]Where) candidate {
	c := candidate{
		index: index,
	}
	for _, f := range index.Fields {
		w, ok := equality[f.Field]
		if !ok {
			break
		}
		c.matchedFields = append(c.matchedFields, f.Field)
		if c.matchedValues == nil {
			c.matchedValues = map[string]any{}
		}
		c.matchedValues[f.Field] = w.Value
	}
	c.prefixLen = len(c.matchedFields)
	// at most one range-bound field may follow the equality prefix - index
	// fields beyond it do not narrow the scan
	if c.prefixLen < len(index.Fields) {
		next := index.Fields[c.prefixLen]
		if bounds, ok := ranges[next.Field]; ok {
			c.hasRange = true
			c.seekField = next.Field
			c.seekOp = bounds[0].Op
			c.seekValues = map[WhereOp]any{}
			for _, b := range bounds {
				if _, ok := c.seekValues[b.Op]; !ok {
					c.seekValues[b.Op] = b.Value
				}
			}
		}
	}
	c.sorted, c.reverse = sortAlignment(query.OrderBy, index, c.prefixLen, c.hasRange, equality)
	return c
}

// sortAlignment reports whether the order by clause is satisfied by scanning
// the index. Sort fields bound by equality predicates are constant and are
// skipped; the remaining sort fields must align with the index fields
// immediately following the matched prefix, either all in the stored
// direction or all reversed (a reverse scan costs the same). Partially
// reversed sorts are not satisfied.
func sortAlignment(orderBy []OrderBy, index Index, prefixLen int, hasRange bool, equality map[string]Where) (bool, bool) {
	var remaining []OrderBy
	for _, o := range orderBy {
		if _, ok := equality[o.Field]; ok {
			continue
		}
		remaining = append(remaining, o)
	}
	if len(remaining) == 0 {
		return true, false
	}
	pos := prefixLen
	if hasRange {
		pos++
	}
	if pos+len(remaining) > len(index.Fields) {
		return false, false
	}
	reverse := remaining[0].Direction != index.Fields[pos].Direction
	for i, o := range remaining {
		f := index.Fields[pos+i]
		if o.Field != f.Field {
			return false, false
		}
		stored := f.Direction
		if reverse {
			stored = stored.Reverse()
		}
		if o.Direction != stored {
			return false, false
		}
	}
	return true, reverse
}
