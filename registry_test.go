package indexadvisor

import (
	"fmt"
	"testing"

	"github.com/autom8ter/indexadvisor/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegistry(t *testing.T) {
	t.Run("configure from schema", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.ConfigureCollection([]byte(userSchema)))
		assert.True(t, r.HasCollection("user"))
		indexes, err := r.Indexes("user")
		assert.NoError(t, err)
		assert.Len(t, indexes, 3)
	})
	t.Run("unknown collection", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Indexes("nope")
		require.Error(t, err)
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
		assert.Contains(t, errors.Extract(err).Messages[0], "nope")
	})
	t.Run("create empty collection", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.CreateCollection("empty"))
		indexes, err := r.Indexes("empty")
		assert.NoError(t, err)
		assert.Empty(t, indexes)
	})
	t.Run("declare index creates the collection", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.DeclareIndex("user", index(asc("name"))))
		assert.True(t, r.HasCollection("user"))
		indexes, err := r.Indexes("user")
		assert.NoError(t, err)
		require.Len(t, indexes, 1)
		assert.Equal(t, "name_1", indexes[0].Name)
	})
	t.Run("duplicate index name", func(t *testing.T) {
		r := NewRegistry()
		first := index(asc("name"))
		first.Name = "name_idx"
		second := index(asc("age"))
		second.Name = "name_idx"
		require.NoError(t, r.DeclareIndex("user", first))
		err := r.DeclareIndex("user", second)
		require.Error(t, err)
		assert.Equal(t, errors.Conflict, errors.Extract(err).Code)
	})
	t.Run("duplicate field sequence", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.DeclareIndex("user", index(asc("a"), asc("b"))))
		err := r.DeclareIndex("user", Index{
			Name:   "another_name",
			Fields: []IndexField{{Field: "a"}, {Field: "b"}},
		})
		require.Error(t, err)
		assert.Equal(t, errors.Conflict, errors.Extract(err).Code)
	})
	t.Run("reversed direction is a different index", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.DeclareIndex("user", index(asc("a"))))
		assert.NoError(t, r.DeclareIndex("user", index(desc("a"))))
	})
	t.Run("field order matters", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.DeclareIndex("user", index(asc("a"), asc("b"))))
		assert.NoError(t, r.DeclareIndex("user", index(asc("b"), asc("a"))))
	})
	t.Run("underscored field names are not duplicates", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.DeclareIndex("user", index(asc("a_1"), asc("b"))))
		assert.NoError(t, r.DeclareIndex("user", index(asc("a"), asc("1_b"))))
	})
	t.Run("invalid index", func(t *testing.T) {
		r := NewRegistry()
		err := r.DeclareIndex("user", Index{})
		require.Error(t, err)
	})
	t.Run("invalid direction error carries context", func(t *testing.T) {
		r := NewRegistry()
		err := r.DeclareIndex("user", Index{
			Fields: []IndexField{{Field: "age", Direction: "sideways"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sideways")
		assert.Contains(t, err.Error(), "invalid index")
	})
	t.Run("drop index", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.DeclareIndex("user", index(asc("name"))))
		require.NoError(t, r.DropIndex("user", "name_1"))
		indexes, err := r.Indexes("user")
		assert.NoError(t, err)
		assert.Empty(t, indexes)
	})
	t.Run("drop unknown index", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.CreateCollection("user"))
		err := r.DropIndex("user", "nope")
		require.Error(t, err)
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
	t.Run("declared indexes persist into the schema", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.ConfigureCollection([]byte(userSchema)))
		require.NoError(t, r.DeclareIndex("user", index(asc("age"))))
		schema, err := r.CollectionSchema("user")
		require.NoError(t, err)
		bits, err := schema.Bytes()
		require.NoError(t, err)
		assert.Contains(t, string(bits), "age_1")
	})
	t.Run("collections are sorted", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.CreateCollection("b"))
		require.NoError(t, r.CreateCollection("a"))
		assert.Equal(t, []string{"a", "b"}, r.Collections())
	})
	t.Run("concurrent declares and reads", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.CreateCollection("user"))
		var eg errgroup.Group
		for i := 0; i < 25; i++ {
			i := i
			eg.Go(func() error {
				return r.DeclareIndex("user", index(asc(fmt.Sprintf("field.%d", i))))
			})
			eg.Go(func() error {
				_, err := r.Indexes("user")
				return err
			})
		}
		require.NoError(t, eg.Wait())
		indexes, err := r.Indexes("user")
		assert.NoError(t, err)
		assert.Len(t, indexes, 25)
	})
}
