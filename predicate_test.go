package indexadvisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicate(t *testing.T) {
	t.Run("nil predicate flattens to a match-all filter", func(t *testing.T) {
		var p *Predicate
		f, err := p.Flatten()
		assert.NoError(t, err)
		assert.Empty(t, f.Where)
	})
	t.Run("nested conjunctions flatten in order", func(t *testing.T) {
		f, err := And(
			Eq("a", 1),
			And(Gt("b", 2), Lte("c", 3)),
		).Flatten()
		assert.NoError(t, err)
		require.Len(t, f.Where, 3)
		assert.Equal(t, []string{"a", "b", "c"}, f.Fields())
		assert.False(t, f.Disjunctive)
	})
	t.Run("disjunction marks the filter", func(t *testing.T) {
		f, err := And(
			Eq("a", 1),
			Or(Eq("b", 2), Eq("c", 3)),
		).Flatten()
		assert.NoError(t, err)
		assert.True(t, f.Disjunctive)
		assert.Equal(t, []string{"a"}, f.Fields())
	})
	t.Run("empty conjunction", func(t *testing.T) {
		_, err := And().Flatten()
		require.Error(t, err)
	})
	t.Run("empty disjunction", func(t *testing.T) {
		_, err := Or().Flatten()
		require.Error(t, err)
	})
	t.Run("empty field path", func(t *testing.T) {
		_, err := Eq("", 1).Flatten()
		require.Error(t, err)
	})
	t.Run("malformed disjunction child", func(t *testing.T) {
		_, err := Or(Eq("a", 1), Eq("", 2)).Flatten()
		require.Error(t, err)
	})
}

func TestQueryBuilder(t *testing.T) {
	t.Run("build a full query", func(t *testing.T) {
		q, err := NewQueryBuilder().
			From("user").
			Where(Eq("account_id", 1), Gt("age", 20)).
			Project("name", "age").
			ExcludeID().
			OrderBy(OrderBy{Field: "age", Direction: OrderByDirectionAsc}).
			Limit(10).
			Query()
		require.NoError(t, err)
		assert.Equal(t, "user", q.From)
		assert.Len(t, q.Filter.Where, 2)
		require.NotNil(t, q.Projection)
		assert.Equal(t, []string{"name", "age"}, q.Projection.Fields)
		assert.False(t, q.Projection.IncludeID)
		assert.Equal(t, 10, q.Limit)
	})
	t.Run("chained where clauses conjoin", func(t *testing.T) {
		q, err := NewQueryBuilder().
			From("user").
			Where(Eq("a", 1)).
			Where(Eq("b", 2)).
			Query()
		require.NoError(t, err)
		assert.Len(t, q.Filter.Where, 2)
	})
	t.Run("disjunctive where", func(t *testing.T) {
		q, err := NewQueryBuilder().
			From("user").
			Where(Or(Eq("a", 1), Eq("b", 2))).
			Query()
		require.NoError(t, err)
		assert.True(t, q.Filter.Disjunctive)
	})
}
