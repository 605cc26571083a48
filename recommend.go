package indexadvisor

import (
	"github.com/samber/lo"
)

// Benefit is the ordinal estimated benefit of adding a recommended index
type Benefit string

const (
	// BenefitNone indicates the query is already served as well as the
	// candidate would serve it
	BenefitNone Benefit = "none"
	// BenefitPartial indicates the candidate improves the match but documents
	// must still be fetched
	BenefitPartial Benefit = "partial"
	// BenefitFullCoverage indicates the candidate answers the query entirely
	// from the index
	BenefitFullCoverage Benefit = "full-coverage"
)

// Recommendation is a synthesized candidate index and its estimated benefit
type Recommendation struct {
	// Index is the candidate index to declare
	Index Index `json:"index"`
	// Benefit is the estimated benefit of declaring it
	Benefit Benefit `json:"benefit"`
}

// Recommender synthesizes candidate indexes for queries the declared indexes
// serve poorly
type Recommender interface {
	// Recommend returns candidate indexes ordered best-first
	Recommend(query Query, explain Explain) []Recommendation
}

type defaultRecommender struct{}

// NewRecommender returns the default recommender
func NewRecommender() Recommender {
	return defaultRecommender{}
}

func (r defaultRecommender) Recommend(query Query, explain Explain) []Recommendation {
	// a single index cannot serve a disjunction, and a covered query needs nothing
	if query.Filter.Disjunctive || explain.Covered {
		return nil
	}
	primary := primaryCandidate(query)
	if len(primary.Fields) == 0 {
		return nil
	}
	var recommendations []Recommendation
	if explain.Index == nil || primary.Key() != explain.Index.Key() {
		benefit := BenefitPartial
		if isCovered(query, &primary) {
			benefit = BenefitFullCoverage
		}
		recommendations = append(recommendations, Recommendation{
			Index:   primary,
			Benefit: benefit,
		})
		if benefit == BenefitFullCoverage {
			return recommendations
		}
	}
	// a covering candidate trades index size for zero document fetches, so it
	// never outranks the primary candidate
	if covering, ok := coveringCandidate(query, primary); ok {
		recommendations = append(recommendations, Recommendation{
			Index:   covering,
			Benefit: BenefitFullCoverage,
		})
	}
	if len(recommendations) == 0 {
		// the declared index already matches the minimal candidate and no
		// covering index is possible for this query shape
		return []Recommendation{{
			Index:   primary,
			Benefit: BenefitNone,
		}}
	}
	return recommendations
}

// primaryCandidate is the minimal index making the query a full prefix match
// with its sort satisfied: equality fields in filter order, at most one range
// field, then unsatisfied sort fields in their sort direction.
func primaryCandidate(query Query) Index {
	var (
		fields []IndexField
		seen   = map[string]bool{}
	)
	add := func(f IndexField) {
		if seen[f.Field] {
			return
		}
		seen[f.Field] = true
		fields = append(fields, f)
	}
	for _, w := range query.Filter.Where {
		if w.Op == WhereOpEq {
			add(IndexField{Field: w.Field, Direction: OrderByDirectionAsc})
		}
	}
	for _, w := range query.Filter.Where {
		if w.Op.IsRange() && !seen[w.Field] {
			add(IndexField{Field: w.Field, Direction: OrderByDirectionAsc})
			break
		}
	}
	for _, o := range query.OrderBy {
		add(IndexField{Field: o.Field, Direction: o.Direction})
	}
	return Index{Fields: fields}.normalized()
}

// coveringCandidate extends the primary candidate with the fields referenced
// only by the projection (and the identifier field when the projection
// returns it) so the query is answerable from the index alone.
func coveringCandidate(query Query, primary Index) (Index, bool) {
	if query.Projection == nil {
		return Index{}, false
	}
	fields := make([]IndexField, len(primary.Fields))
	copy(fields, primary.Fields)
	for _, f := range query.Projection.Fields {
		if primary.HasField(f) {
			continue
		}
		fields = append(fields, IndexField{Field: f, Direction: OrderByDirectionAsc})
	}
	if query.Projection.IncludeID && !lo.ContainsBy(fields, func(f IndexField) bool {
		return f.Field == idField
	}) {
		fields = append(fields, IndexField{Field: idField, Direction: OrderByDirectionAsc})
	}
	covering := Index{Fields: fields}.normalized()
	if covering.Key() == primary.Key() {
		return Index{}, false
	}
	return covering, true
}
