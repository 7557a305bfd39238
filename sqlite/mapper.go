package sqlite

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
)

// StorageDateLayout is the layout of date columns at rest. ISO dates sort
// chronologically as text, independent of the display layout of a column.
const StorageDateLayout = time.DateOnly

// quoteIdentifier safely quotes an identifier, such as a table or column name,
// to handle names that might be keywords or contain special characters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// storageFields returns the distinct document fields of a definition in
// declaration order, with the kind of the first column reading each one.
func storageFields(def *schema.TableDefinition) ([]string, map[string]schema.FieldType) {
	fields := make([]string, 0, len(def.Columns))
	kinds := make(map[string]schema.FieldType, len(def.Columns))
	for _, col := range def.Columns {
		field := col.FieldName()
		if _, ok := kinds[field]; ok {
			continue
		}
		fields = append(fields, field)
		kinds[field] = col.Type
	}
	return fields, kinds
}

// CreateTableSQL generates the DDL statement for a table definition.
func (l *Loader) CreateTableSQL(def *schema.TableDefinition) (string, error) {
	fields, kinds := storageFields(def)
	if len(fields) == 0 {
		return "", fmt.Errorf("table '%s' declares no columns", def.Name)
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if l.options.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(l.getTableName(def) + " (\n")

	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columnType, err := GetColumnType(kinds[field])
		if err != nil {
			return "", fmt.Errorf("error on field '%s': %w", field, err)
		}
		columns = append(columns, "    "+quoteIdentifier(field)+" "+columnType)
	}
	sb.WriteString(strings.Join(columns, ",\n"))
	sb.WriteString("\n);")
	return sb.String(), nil
}

// GetColumnType maps a column kind to its SQLite storage type.
func GetColumnType(kind schema.FieldType) (string, error) {
	switch kind {
	case schema.FieldTypeString, schema.FieldTypeDate:
		return "TEXT", nil
	case schema.FieldTypeUnsigned, schema.FieldTypeInteger, schema.FieldTypeBoolean:
		return "INTEGER", nil
	default:
		return "", fmt.Errorf("unsupported column type: %s", kind)
	}
}

// InsertSQL generates a parameterized single-row INSERT statement.
func (l *Loader) InsertSQL(def *schema.TableDefinition) (string, []string) {
	fields, _ := storageFields(def)
	quoted := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteIdentifier(f)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		l.getTableName(def), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")), fields
}

// SelectSQL generates the statement reading every declared field in insertion
// order.
func (l *Loader) SelectSQL(def *schema.TableDefinition) (string, []string) {
	fields, _ := storageFields(def)
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteIdentifier(f)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid;", strings.Join(quoted, ", "), l.getTableName(def)), fields
}

// encodeValue converts a document field to its storage form.
func encodeValue(kind schema.FieldType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch kind {
	case schema.FieldTypeDate:
		switch t := value.(type) {
		case time.Time:
			return t.Format(StorageDateLayout), nil
		case *time.Time:
			if t == nil {
				return nil, nil
			}
			return t.Format(StorageDateLayout), nil
		}
	case schema.FieldTypeBoolean:
		if b, ok := value.(bool); ok {
			if b {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case schema.FieldTypeUnsigned:
		if u, ok := value.(uint64); ok {
			if u > math.MaxInt64 {
				return nil, fmt.Errorf("value %d overflows a SQLite integer", u)
			}
			return int64(u), nil
		}
		if u, ok := schema.ValueOf(kind, value).Unsigned(); ok && u <= math.MaxInt64 {
			return int64(u), nil
		}
	case schema.FieldTypeInteger:
		i, _ := schema.ValueOf(kind, value).Signed()
		return i, nil
	case schema.FieldTypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("cannot store %T in a %s column", value, kind)
}

// decodeValue converts a scanned SQLite value back to the document form of
// the column kind.
func decodeValue(kind schema.FieldType, val any) (any, error) {
	switch kind {
	case schema.FieldTypeString:
		if byteVal, isByte := val.([]byte); isByte {
			return string(byteVal), nil
		}
		return val, nil
	case schema.FieldTypeInteger:
		if floatVal, isFloat := val.(float64); isFloat {
			return int64(floatVal), nil
		}
		return val, nil
	case schema.FieldTypeUnsigned:
		if intVal, isInt := val.(int64); isInt {
			if intVal < 0 {
				return nil, fmt.Errorf("negative value %d in unsigned column", intVal)
			}
			return uint64(intVal), nil
		}
		return val, nil
	case schema.FieldTypeBoolean:
		if intVal, isInt := val.(int64); isInt {
			return intVal != 0, nil
		}
		return val, nil
	case schema.FieldTypeDate:
		var text string
		switch v := val.(type) {
		case time.Time:
			return v, nil
		case []byte:
			text = string(v)
		case string:
			text = v
		default:
			return val, nil
		}
		t, err := time.Parse(StorageDateLayout, text)
		if err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", text, err)
		}
		return t, nil
	default:
		return val, nil
	}
}
