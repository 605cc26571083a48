package indexadvisor

import (
	"context"
)

// Analysis is the advisor's full report for a single query: how the declared
// indexes serve it and, when they serve it poorly, what to declare instead
type Analysis struct {
	// Explain is the optimizer's report for the query
	Explain Explain `json:"explain"`
	// Recommendations are candidate indexes ordered best-first - empty when
	// the declared indexes already cover the query
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// Advisor statically analyzes declarative queries against a registry of
// declared indexes. All analysis methods are pure reads and may be called
// concurrently; DeclareIndex and DropIndex serialize against them.
type Advisor interface {
	// ConfigureCollection registers a collection from a yaml/json schema document
	ConfigureCollection(ctx context.Context, schemaContent []byte) error
	// DeclareIndex declares an index on a collection
	DeclareIndex(ctx context.Context, collection string, index Index) error
	// DropIndex removes a declared index from a collection
	DropIndex(ctx context.Context, collection string, name string) error
	// AnalyzeQuery analyzes a canonical query
	AnalyzeQuery(ctx context.Context, query Query) (*Analysis, error)
	// AnalyzeRaw parses and analyzes a loosely typed raw query
	AnalyzeRaw(ctx context.Context, raw RawQuery) (*Analysis, error)
	// AnalyzePipeline folds an aggregation pipeline's head into a query and analyzes it
	AnalyzePipeline(ctx context.Context, from string, stages []map[string]any) (*Analysis, error)
	// Registry returns the advisor's schema registry
	Registry() *Registry
}

// Option configures an Advisor
type Option func(*defaultAdvisor)

// WithLogger overrides the advisor's logger
func WithLogger(logger Logger) Option {
	return func(a *defaultAdvisor) {
		a.logger = logger
	}
}

// WithOptimizer overrides the advisor's optimizer
func WithOptimizer(optimizer Optimizer) Option {
	return func(a *defaultAdvisor) {
		a.optimizer = optimizer
	}
}

// WithRecommender overrides the advisor's recommender
func WithRecommender(recommender Recommender) Option {
	return func(a *defaultAdvisor) {
		a.recommender = recommender
	}
}

type defaultAdvisor struct {
	registry    *Registry
	optimizer   Optimizer
	recommender Recommender
	logger      Logger
}

// New creates an Advisor with an empty registry
func New(opts ...Option) Advisor {
	a := &defaultAdvisor{
		registry:    NewRegistry(),
		optimizer:   defaultOptimizer{},
		recommender: defaultRecommender{},
		logger:      noopLogger{},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *defaultAdvisor) Registry() *Registry {
	return a.registry
}

func (a *defaultAdvisor) ConfigureCollection(ctx context.Context, schemaContent []byte) error {
	if err := a.registry.ConfigureCollection(schemaContent); err != nil {
		return err
	}
	return nil
}

func (a *defaultAdvisor) DeclareIndex(ctx context.Context, collection string, index Index) error {
	if err := a.registry.DeclareIndex(collection, index); err != nil {
		return err
	}
	a.logger.Info(ctx, "declared index", map[string]any{
		"collection": collection,
		"index":      index.normalized().Name,
	})
	return nil
}

func (a *defaultAdvisor) DropIndex(ctx context.Context, collection string, name string) error {
	if err := a.registry.DropIndex(collection, name); err != nil {
		return err
	}
	a.logger.Info(ctx, "dropped index", map[string]any{
		"collection": collection,
		"index":      name,
	})
	return nil
}

func (a *defaultAdvisor) AnalyzeQuery(ctx context.Context, query Query) (*Analysis, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	indexes, err := a.registry.Indexes(query.From)
	if err != nil {
		return nil, err
	}
	explain, err := a.optimizer.Optimize(query, indexes)
	if err != nil {
		return nil, err
	}
	explain = analyzeCoverage(query, explain)
	analysis := &Analysis{
		Explain: explain,
	}
	if explain.FullScan() || !explain.Covered {
		analysis.Recommendations = a.recommender.Recommend(query, explain)
	}
	a.logger.Debug(ctx, "analyzed query", map[string]any{
		"collection":      query.From,
		"fullScan":        explain.FullScan(),
		"covered":         explain.Covered,
		"recommendations": len(analysis.Recommendations),
	})
	return analysis, nil
}

func (a *defaultAdvisor) AnalyzeRaw(ctx context.Context, raw RawQuery) (*Analysis, error) {
	query, err := ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeQuery(ctx, query)
}

func (a *defaultAdvisor) AnalyzePipeline(ctx context.Context, from string, stages []map[string]any) (*Analysis, error) {
	query, err := ParsePipeline(from, stages)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeQuery(ctx, query)
}
