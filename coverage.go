package indexadvisor

import (
	"github.com/samber/lo"
)

// analyzeCoverage returns a copy of the explain with Covered set. A query is
// covered when every field referenced by its filter, projection, and order by
// clauses is stored in the chosen index, and the identifier field is either
// excluded by the projection or itself indexed. A query without a projection
// returns full documents and is never covered.
func analyzeCoverage(query Query, explain Explain) Explain {
	explain.Covered = isCovered(query, explain.Index)
	return explain
}

func isCovered(query Query, index *Index) bool {
	if index == nil || query.Projection == nil || query.Filter.Disjunctive {
		return false
	}
	if !lo.EveryBy(query.fields(), index.HasField) {
		return false
	}
	if query.Projection.IncludeID && !index.HasField(idField) {
		return false
	}
	return true
}
