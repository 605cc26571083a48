package indexadvisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionSchema(t *testing.T) {
	t.Run("parse yaml schema", func(t *testing.T) {
		schema, err := NewCollectionSchema([]byte(userSchema))
		require.NoError(t, err)
		assert.Equal(t, "user", schema.Collection())
		indexes := schema.Indexing()
		require.Len(t, indexes, 3)
		assert.Equal(t, "user_account_email_idx", indexes[0].Name)
		assert.Equal(t, []string{"account_id", "contact.email"}, indexes[0].FieldPaths())
		assert.True(t, indexes[0].Unique)
	})
	t.Run("directions default to ascending", func(t *testing.T) {
		schema, err := NewCollectionSchema([]byte(userSchema))
		require.NoError(t, err)
		for _, i := range schema.Indexing() {
			for _, f := range i.Fields {
				assert.Equal(t, OrderByDirectionAsc, f.Direction)
			}
		}
	})
	t.Run("descending direction is preserved", func(t *testing.T) {
		schema, err := NewCollectionSchema([]byte(eventSchema))
		require.NoError(t, err)
		indexes := schema.Indexing()
		require.Len(t, indexes, 1)
		assert.Equal(t, OrderByDirectionDesc, indexes[0].Fields[0].Direction)
	})
	t.Run("empty schema content", func(t *testing.T) {
		_, err := NewCollectionSchema(nil)
		require.Error(t, err)
	})
	t.Run("missing collection name", func(t *testing.T) {
		_, err := NewCollectionSchema([]byte(`type: object`))
		require.Error(t, err)
	})
	t.Run("set index returns an updated copy", func(t *testing.T) {
		schema, err := NewCollectionSchema([]byte(userSchema))
		require.NoError(t, err)
		updated, err := schema.SetIndex(index(asc("age")))
		require.NoError(t, err)
		assert.Len(t, schema.Indexing(), 3)
		assert.Len(t, updated.Indexing(), 4)
		bits, err := updated.Bytes()
		require.NoError(t, err)
		assert.Contains(t, string(bits), "age_1")
	})
	t.Run("del index returns an updated copy", func(t *testing.T) {
		schema, err := NewCollectionSchema([]byte(userSchema))
		require.NoError(t, err)
		updated, err := schema.DelIndex("user_language_idx")
		require.NoError(t, err)
		assert.Len(t, schema.Indexing(), 3)
		assert.Len(t, updated.Indexing(), 2)
	})
	t.Run("index names containing dots round trip", func(t *testing.T) {
		schema, err := NewCollectionSchema([]byte(userSchema))
		require.NoError(t, err)
		updated, err := schema.SetIndex(index(asc("contact.email"), asc("language")))
		require.NoError(t, err)
		bits, err := updated.Bytes()
		require.NoError(t, err)
		reparsed, err := NewCollectionSchema(bits)
		require.NoError(t, err)
		assert.Len(t, reparsed.Indexing(), 4)
	})
	t.Run("yaml round trip", func(t *testing.T) {
		schema, err := NewCollectionSchema([]byte(userSchema))
		require.NoError(t, err)
		bits, err := schema.Bytes()
		require.NoError(t, err)
		reparsed, err := NewCollectionSchema(bits)
		require.NoError(t, err)
		assert.Equal(t, schema.Collection(), reparsed.Collection())
		assert.Len(t, reparsed.Indexing(), 3)
	})
}
