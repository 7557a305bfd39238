package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
)

// RegisterString registers a text column.
func (tf *TableFilter[T]) RegisterString(id string, get func(T) string, opts ...ColumnOption) (*ColumnFilter[T], error) {
	return tf.Register(id, schema.FieldTypeString, func(row T) schema.Value {
		return schema.String(get(row))
	}, opts...)
}

// RegisterUint registers an unsigned integer column.
func (tf *TableFilter[T]) RegisterUint(id string, get func(T) uint64, opts ...ColumnOption) (*ColumnFilter[T], error) {
	return tf.Register(id, schema.FieldTypeUnsigned, func(row T) schema.Value {
		return schema.Uint(get(row))
	}, opts...)
}

// RegisterInt registers a signed integer column.
func (tf *TableFilter[T]) RegisterInt(id string, get func(T) int64, opts ...ColumnOption) (*ColumnFilter[T], error) {
	return tf.Register(id, schema.FieldTypeInteger, func(row T) schema.Value {
		return schema.Int(get(row))
	}, opts...)
}

// RegisterDate registers a date column. Values are compared by calendar date.
func (tf *TableFilter[T]) RegisterDate(id string, get func(T) time.Time, opts ...ColumnOption) (*ColumnFilter[T], error) {
	return tf.Register(id, schema.FieldTypeDate, func(row T) schema.Value {
		return schema.Date(get(row))
	}, opts...)
}

// RegisterBool registers a boolean column, rendered as Yes or No.
func (tf *TableFilter[T]) RegisterBool(id string, get func(T) bool, opts ...ColumnOption) (*ColumnFilter[T], error) {
	return tf.Register(id, schema.FieldTypeBoolean, func(row T) schema.Value {
		return schema.Bool(get(row))
	}, opts...)
}

// RegisterDefinition validates def and registers each of its columns over
// document rows, in declaration order.
func RegisterDefinition(tf *TableFilter[schema.Document], def *schema.TableDefinition) error {
	if ok, issues := schema.NewValidator(def).Validate(); !ok {
		errs := make([]error, 0, len(issues))
		for _, issue := range issues {
			errs = append(errs, errors.New(issue.String()))
		}
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(errs...))
	}

	for _, col := range def.Columns {
		field, kind := col.FieldName(), col.Type
		valueOf := func(doc schema.Document) schema.Value {
			return schema.ValueOf(kind, doc[field])
		}
		if _, err := tf.Register(col.ID, kind, valueOf, WithDateFormat(col.DateFormat())); err != nil {
			return fmt.Errorf("failed to register column %q: %w", col.ID, err)
		}
	}
	return nil
}

// NewDocumentFilter creates a filter over documents with every column of def
// registered.
func NewDocumentFilter(docs []schema.Document, def *schema.TableDefinition, opts ...Option) (*TableFilter[schema.Document], error) {
	if def != nil {
		opts = append([]Option{WithName(def.Name)}, opts...)
	}
	tf, err := NewTableFilter(docs, opts...)
	if err != nil {
		return nil, err
	}
	if err := RegisterDefinition(tf, def); err != nil {
		return nil, err
	}
	return tf, nil
}
