package indexadvisor_test

import (
	"context"
	"fmt"

	"github.com/autom8ter/indexadvisor"
)

func ExampleNew() {
	ctx := context.Background()
	advisor := indexadvisor.New()
	if err := advisor.DeclareIndex(ctx, "user", indexadvisor.Index{
		Fields: []indexadvisor.IndexField{
			{Field: "account_id"},
			{Field: "contact.email"},
		},
		Unique: true,
	}); err != nil {
		panic(err)
	}
	analysis, err := advisor.AnalyzeRaw(ctx, indexadvisor.RawQuery{
		From: "user",
		Filter: map[string]any{
			"account_id":    1,
			"contact.email": "john@example.com",
		},
		Projection: map[string]any{
			"_id":           0,
			"contact.email": 1,
		},
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(analysis.Explain.Index.Name, analysis.Explain.Covered)
	// Output: account_id_1_contact.email_1 true
}

func ExampleQueryBuilder() {
	ctx := context.Background()
	advisor := indexadvisor.New()
	if err := advisor.Registry().CreateCollection("task"); err != nil {
		panic(err)
	}
	query, err := indexadvisor.NewQueryBuilder().
		From("task").
		Where(indexadvisor.Eq("user", "u1"), indexadvisor.Gt("timestamp", "2023-01-01")).
		OrderBy(indexadvisor.OrderBy{Field: "timestamp", Direction: indexadvisor.OrderByDirectionAsc}).
		Limit(10).
		Query()
	if err != nil {
		panic(err)
	}
	analysis, err := advisor.AnalyzeQuery(ctx, query)
	if err != nil {
		panic(err)
	}
	for _, rec := range analysis.Recommendations {
		fmt.Println(rec.Index.Name, rec.Benefit)
	}
	// Output: user_1_timestamp_1 partial
}
