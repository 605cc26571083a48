package indexadvisor

import (
	"strings"

	"github.com/autom8ter/indexadvisor/errors"
	"github.com/autom8ter/indexadvisor/util"
	"github.com/samber/lo"
)

// IndexField is a single field within an index - order matters
type IndexField struct {
	// Field is a dot separated path to the indexed field
	Field string `json:"field" validate:"required"`
	// Direction is the direction the field is stored in (defaults to ascending)
	Direction OrderByDirection `json:"direction,omitempty"`
}

// Index is a declared index used to optimize queries against a collection
type Index struct {
	// Name is the indexes unique name in the collection (defaults to a mongo
	// style name derived from the fields)
	Name string `json:"name,omitempty"`
	// Fields are the indexed fields - order matters
	Fields []IndexField `json:"fields" validate:"required,min=1,dive"`
	// Unique indicates that it's a unique index which will enforce uniqueness
	Unique bool `json:"unique,omitempty"`
	// Sparse indicates the index skips documents missing the indexed fields
	Sparse bool `json:"sparse,omitempty"`
	// PartialFilter restricts which documents the index includes - it is
	// tracked for reporting but never evaluated by the matcher
	PartialFilter map[string]any `json:"partialFilter,omitempty"`
}

// Key is the identity of the index: its field paths and directions in order.
// Two indexes with the same key index the same thing. Field paths never
// contain ':' or ',', so the encoding stays unambiguous for field names
// containing underscores.
func (i Index) Key() string {
	parts := make([]string, 0, len(i.Fields))
	for _, f := range i.Fields {
		if f.Direction == OrderByDirectionDesc {
			parts = append(parts, f.Field+":-1")
		} else {
			parts = append(parts, f.Field+":1")
		}
	}
	return strings.Join(parts, ",")
}

// defaultName is the mongo style display name an unnamed index receives
func (i Index) defaultName() string {
	parts := make([]string, 0, len(i.Fields))
	for _, f := range i.Fields {
		if f.Direction == OrderByDirectionDesc {
			parts = append(parts, f.Field+"_-1")
		} else {
			parts = append(parts, f.Field+"_1")
		}
	}
	return strings.Join(parts, "_")
}

// FieldPaths returns the index's field paths in order
func (i Index) FieldPaths() []string {
	return lo.Map(i.Fields, func(f IndexField, _ int) string {
		return f.Field
	})
}

// HasField returns true if the index stores the given field path
func (i Index) HasField(field string) bool {
	return lo.ContainsBy(i.Fields, func(f IndexField) bool {
		return f.Field == field
	})
}

// Validate validates the index and returns a validation error if one exists
func (i Index) Validate() error {
	if err := util.ValidateStruct(&i); err != nil {
		return err
	}
	for _, f := range i.Fields {
		if f.Direction != "" && f.Direction != OrderByDirectionAsc && f.Direction != OrderByDirectionDesc {
			return errors.New(errors.Validation, "%s - invalid index field direction: %s", f.Field, f.Direction)
		}
	}
	return nil
}

// normalized returns a copy with empty directions defaulted to ascending and
// an empty name defaulted to the index key
func (i Index) normalized() Index {
	fields := make([]IndexField, len(i.Fields))
	for j, f := range i.Fields {
		if f.Direction == "" {
			f.Direction = OrderByDirectionAsc
		}
		fields[j] = f
	}
	i.Fields = fields
	if i.Name == "" {
		i.Name = i.defaultName()
	}
	return i
}
