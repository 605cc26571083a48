package indexadvisor

import (
	"fmt"
	"strings"

	"github.com/autom8ter/indexadvisor/errors"
	"github.com/autom8ter/indexadvisor/util"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// CollectionSchema is a parsed collection schema document declaring the
// collection's name and indexes. Schemas are immutable: SetIndex and DelIndex
// return updated copies.
type CollectionSchema interface {
	// Collection returns the collection name
	Collection() string
	// Indexing returns the declared indexes in declaration order
	Indexing() []Index
	// SetIndex returns a copy of the schema with the index added or replaced
	SetIndex(index Index) (CollectionSchema, error)
	// DelIndex returns a copy of the schema with the named index removed
	DelIndex(name string) (CollectionSchema, error)
	// Bytes returns the schema document as yaml
	Bytes() ([]byte, error)
}

type collectionSchema struct {
	raw        gjson.Result
	collection string
	indexing   []Index
}

type schemaPath string

const (
	collectionPath schemaPath = "x-collection"
	indexingPath   schemaPath = "x-indexing"
)

// NewCollectionSchema parses a yaml or json collection schema document
func NewCollectionSchema(content []byte) (CollectionSchema, error) {
	if len(content) == 0 {
		return nil, errors.New(errors.Validation, "empty schema content")
	}
	jsonContent, err := util.YAMLToJSON(content)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to decode schema content")
	}
	r := gjson.ParseBytes(jsonContent)
	s := &collectionSchema{
		raw:        r,
		collection: r.Get(string(collectionPath)).String(),
	}
	if s.collection == "" {
		return nil, errors.New(errors.Validation, "schema is missing %s", collectionPath)
	}
	var decodeErr error
	s.raw.Get(string(indexingPath)).ForEach(func(key, value gjson.Result) bool {
		var i Index
		if err := util.Decode(value.Value(), &i); err != nil {
			decodeErr = errors.Wrap(err, errors.Validation, "%s - failed to decode index: %s", s.collection, key.String())
			return false
		}
		if i.Name == "" {
			i.Name = key.String()
		}
		i = i.normalized()
		if err := i.Validate(); err != nil {
			decodeErr = errors.Wrap(err, errors.Validation, "%s - invalid index: %s", s.collection, i.Name)
			return false
		}
		s.indexing = append(s.indexing, i)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return s, nil
}

func (c *collectionSchema) Collection() string {
	return c.collection
}

func (c *collectionSchema) Indexing() []Index {
	return c.indexing
}

func (c *collectionSchema) SetIndex(index Index) (CollectionSchema, error) {
	index = index.normalized()
	raw, err := sjson.Set(c.raw.Raw, indexPath(index.Name), index)
	if err != nil {
		return nil, errors.Wrap(err, 0, "failed to set schema index: %s", index.Name)
	}
	updated := &collectionSchema{
		raw:        gjson.Parse(raw),
		collection: c.collection,
	}
	replaced := false
	for _, i := range c.indexing {
		if i.Name == index.Name {
			updated.indexing = append(updated.indexing, index)
			replaced = true
			continue
		}
		updated.indexing = append(updated.indexing, i)
	}
	if !replaced {
		updated.indexing = append(updated.indexing, index)
	}
	return updated, nil
}

func (c *collectionSchema) DelIndex(name string) (CollectionSchema, error) {
	raw, err := sjson.Delete(c.raw.Raw, indexPath(name))
	if err != nil {
		return nil, errors.Wrap(err, 0, "failed to delete schema index: %s", name)
	}
	updated := &collectionSchema{
		raw:        gjson.Parse(raw),
		collection: c.collection,
	}
	for _, i := range c.indexing {
		if i.Name == name {
			continue
		}
		updated.indexing = append(updated.indexing, i)
	}
	return updated, nil
}

func (c *collectionSchema) Bytes() ([]byte, error) {
	return util.JSONToYAML([]byte(c.raw.Raw))
}

// index names may contain dots (they default to the index key), which must be
// escaped in sjson paths
func indexPath(name string) string {
	return fmt.Sprintf("%s.%s", indexingPath, strings.ReplaceAll(name, ".", `\.`))
}
