package indexadvisor

import (
	"sort"

	"github.com/autom8ter/indexadvisor/errors"
	"github.com/autom8ter/indexadvisor/internal/safe"
)

// Registry holds the declared indexes for each collection. Reads (analysis)
// may run concurrently; writes (declaring or dropping indexes) are serialized
// against them and atomically publish an updated index set.
type Registry struct {
	collections *safe.Map[*registeredCollection]
}

type registeredCollection struct {
	name    string
	schema  CollectionSchema
	indexes []Index
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		collections: safe.NewMap(map[string]*registeredCollection{}),
	}
}

// CreateCollection registers a collection with no indexes. It is a no-op if
// the collection already exists.
func (r *Registry) CreateCollection(name string) error {
	if name == "" {
		return errors.New(errors.Validation, "empty collection name")
	}
	r.collections.SetFunc(name, func(c *registeredCollection) *registeredCollection {
		if c != nil {
			return c
		}
		return &registeredCollection{name: name}
	})
	return nil
}

// ConfigureCollection registers a collection from a yaml/json schema document,
// replacing any previous configuration for the same collection
func (r *Registry) ConfigureCollection(schemaContent []byte) error {
	schema, err := NewCollectionSchema(schemaContent)
	if err != nil {
		return err
	}
	indexes := schema.Indexing()
	seen := map[string]string{}
	for _, i := range indexes {
		if name, ok := seen[i.Key()]; ok {
			return errors.New(errors.Conflict, "%s - duplicate index: %s indexes the same fields as %s", schema.Collection(), i.Name, name)
		}
		seen[i.Key()] = i.Name
	}
	r.collections.Set(schema.Collection(), &registeredCollection{
		name:    schema.Collection(),
		schema:  schema,
		indexes: indexes,
	})
	return nil
}

// DeclareIndex declares an index on a collection, creating the collection if
// it does not exist. Declaring an index with the same name or the same field
// and direction sequence as an existing one fails.
func (r *Registry) DeclareIndex(collection string, index Index) error {
	if collection == "" {
		return errors.New(errors.Validation, "empty collection name")
	}
	if err := index.Validate(); err != nil {
		return errors.Wrap(err, 0, "%s - invalid index", collection)
	}
	index = index.normalized()
	return r.collections.UpdateFunc(collection, func(c *registeredCollection) (*registeredCollection, error) {
		if c == nil {
			c = &registeredCollection{name: collection}
		}
		for _, existing := range c.indexes {
			if existing.Name == index.Name {
				return c, errors.New(errors.Conflict, "%s - duplicate index name: %s", collection, index.Name)
			}
			if existing.Key() == index.Key() {
				return c, errors.New(errors.Conflict, "%s - duplicate index: %s indexes the same fields as %s", collection, index.Name, existing.Name)
			}
		}
		updated := &registeredCollection{
			name:    collection,
			schema:  c.schema,
			indexes: append(append([]Index{}, c.indexes...), index),
		}
		if c.schema != nil {
			schema, err := c.schema.SetIndex(index)
			if err != nil {
				return c, err
			}
			updated.schema = schema
		}
		return updated, nil
	})
}

// DropIndex removes a declared index from a collection by name
func (r *Registry) DropIndex(collection string, name string) error {
	return r.collections.UpdateFunc(collection, func(c *registeredCollection) (*registeredCollection, error) {
		if c == nil {
			return c, errors.New(errors.NotFound, "unknown collection: %s", collection)
		}
		updated := &registeredCollection{
			name:   collection,
			schema: c.schema,
		}
		found := false
		for _, existing := range c.indexes {
			if existing.Name == name {
				found = true
				continue
			}
			updated.indexes = append(updated.indexes, existing)
		}
		if !found {
			return c, errors.New(errors.NotFound, "%s - unknown index: %s", collection, name)
		}
		if c.schema != nil {
			schema, err := c.schema.DelIndex(name)
			if err != nil {
				return c, err
			}
			updated.schema = schema
		}
		return updated, nil
	})
}

// Indexes returns the collection's declared indexes in declaration order
func (r *Registry) Indexes(collection string) ([]Index, error) {
	c := r.collections.Get(collection)
	if c == nil {
		return nil, errors.New(errors.NotFound, "unknown collection: %s", collection)
	}
	return c.indexes, nil
}

// HasCollection returns true if the collection is registered
func (r *Registry) HasCollection(collection string) bool {
	return r.collections.Exists(collection)
}

// Collections returns the registered collection names in sorted order
func (r *Registry) Collections() []string {
	var names []string
	r.collections.Range(func(key string, _ *registeredCollection) bool {
		names = append(names, key)
		return true
	})
	sort.Strings(names)
	return names
}

// CollectionSchema returns the collection's schema document, if it was
// configured from one
func (r *Registry) CollectionSchema(collection string) (CollectionSchema, error) {
	c := r.collections.Get(collection)
	if c == nil {
		return nil, errors.New(errors.NotFound, "unknown collection: %s", collection)
	}
	if c.schema == nil {
		return nil, errors.New(errors.NotFound, "%s - collection has no schema", collection)
	}
	return c.schema, nil
}
