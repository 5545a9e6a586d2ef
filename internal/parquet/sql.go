package parquet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

/*
select column_name, data_type, character_maximum_length, column_default, is_nullable
from INFORMATION_SCHEMA.COLUMNS where table_name =
*/

// Column is a single row of information_schema.columns.
type Column struct {
	Name                   string
	DataType               string
	CharacterMaximumLength *int
	ColumnDefault          *string
	IsNullable             string
}

func (c Column) Field() (Field, error) {
	f := Field{
		Name: c.Name,
	}
	dtParts := strings.Split(c.DataType, " ")
	switch dtParts[0] {
	case "integer", "bigint", "smallint":
		f.Type = "INT64"
	case "character", "text":
		f.Type = "BYTE_ARRAY"
		f.ConvertedType = "UTF8"
	case "timestamp":
		f.Type = "INT64"
		f.ConvertedType = "TIMESTAMP_MILLIS"
	case "date":
		f.Type = "INT32"
		f.ConvertedType = "DATE"
	case "numeric":
		f.Type = "INT64"
		f.ConvertedType = "DECIMAL"
	case "boolean":
		f.Type = "BOOLEAN"
	case "double", "real":
		f.Type = "DOUBLE"
	default:
		return Field{}, fmt.Errorf("unsupported data type: %q", c.DataType)
	}

	switch c.IsNullable {
	case "YES":
		f.RepetitionType = "OPTIONAL"
	}

	return f, nil
}

func ColumnsToSchema(columns []Column) (Schema, error) {
	var schema Schema
	for _, column := range columns {
		f, err := column.Field()
		if err != nil {
			return nil, err
		}
		schema = append(schema, f)
	}
	return schema, nil
}

// PostgresSQLParserColumnToField maps a parsed CREATE TABLE column
// definition onto a parquet field.
func PostgresSQLParserColumnToField(col *sqlparser.ColumnDefinition) (Field, error) {
	f := Field{
		Name: col.Name.String(),
	}

	switch strings.ToLower(col.Type.Type) {
	case "int", "integer", "bigint", "smallint", "serial", "bigserial":
		f.Type = "INT64"
	case "varchar", "char", "character", "text":
		f.Type = "BYTE_ARRAY"
		f.ConvertedType = "UTF8"
	case "timestamp", "datetime":
		f.Type = "INT64"
		f.ConvertedType = "TIMESTAMP_MILLIS"
	case "date":
		f.Type = "INT32"
		f.ConvertedType = "DATE"
	case "decimal", "numeric":
		f.Type = "INT64"
		f.ConvertedType = "DECIMAL"
		f.Precision = sqlValInt(col.Type.Length, 18)
		f.Scale = sqlValInt(col.Type.Scale, 0)
	case "float", "double":
		f.Type = "DOUBLE"
	case "bool", "boolean":
		f.Type = "BOOLEAN"
	default:
		return Field{}, fmt.Errorf("unsupported data type: %q", col.Type.Type)
	}

	if !bool(col.Type.NotNull) {
		f.RepetitionType = "OPTIONAL"
	}

	return f, nil
}

func sqlValInt(v *sqlparser.SQLVal, fallback int) int {
	if v == nil {
		return fallback
	}
	n, err := strconv.Atoi(string(v.Val))
	if err != nil {
		return fallback
	}
	return n
}
