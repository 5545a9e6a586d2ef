package parquet

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/turbolytics/rowset/pkg/row"
)

// Field describes a single parquet column using the writer's metadata
// vocabulary (physical type, converted type, repetition).
type Field struct {
	Name           string
	Type           string
	ConvertedType  string
	RepetitionType string
	Scale          int
	Precision      int
}

type Schema []Field

// ToGoParquetSchema renders the schema as the metadata strings the CSV
// writer consumes, one per column.
func (s Schema) ToGoParquetSchema() []string {
	schema := make([]string, len(s))
	for i, field := range s {
		parts := []string{
			fmt.Sprintf("name=%s", field.Name),
			fmt.Sprintf("type=%s", field.Type),
		}
		if field.ConvertedType != "" {
			parts = append(parts, fmt.Sprintf("convertedtype=%s", field.ConvertedType))
		}
		if field.ConvertedType == "DECIMAL" {
			parts = append(parts, fmt.Sprintf("scale=%d", field.Scale))
			parts = append(parts, fmt.Sprintf("precision=%d", field.Precision))
		}
		if field.RepetitionType != "" {
			parts = append(parts, fmt.Sprintf("repetitiontype=%s", field.RepetitionType))
		}
		schema[i] = strings.Join(parts, ", ")
	}

	return schema
}

// RowToParquetValues converts a row into the positional value slice the
// parquet writer expects for this schema.
func (s Schema) RowToParquetValues(r *row.Row) ([]any, error) {
	if len(s) != r.Len() {
		return nil, fmt.Errorf(
			"schema and row fields mismatch: schema has %d fields, row has %d values",
			len(s),
			r.Len(),
		)
	}

	values := r.Values()
	out := make([]any, len(s))
	for i, field := range s {
		converted, err := field.convert(values[i])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		out[i] = converted
	}

	return out, nil
}

func (f Field) convert(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch f.ConvertedType {
	case "TIMESTAMP_MICROS":
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		return t.UnixMicro(), nil
	case "TIMESTAMP_MILLIS":
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		return t.UnixMilli(), nil
	case "DATE":
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		return int32(t.Unix() / 86400), nil
	case "DECIMAL":
		return f.convertDecimal(v)
	}

	switch f.Type {
	case "INT64":
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)
	case "INT32":
		switch n := v.(type) {
		case int32:
			return n, nil
		case int:
			return int32(n), nil
		case int64:
			return int32(n), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)
	case "DOUBLE":
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		}
		return nil, fmt.Errorf("expected float, got %T", v)
	case "FLOAT":
		switch n := v.(type) {
		case float32:
			return n, nil
		case float64:
			return float32(n), nil
		}
		return nil, fmt.Errorf("expected float, got %T", v)
	case "BOOLEAN":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil
	case "BYTE_ARRAY", "FIXED_LEN_BYTE_ARRAY":
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
		return nil, fmt.Errorf("expected string, got %T", v)
	}

	return nil, fmt.Errorf("unsupported parquet type %q for value %T", f.Type, v)
}

func (f Field) convertDecimal(v any) (any, error) {
	var d decimal.Decimal
	switch t := v.(type) {
	case decimal.Decimal:
		d = t
	case string:
		var err error
		if d, err = decimal.NewFromString(t); err != nil {
			return nil, err
		}
	case []byte:
		var err error
		if d, err = decimal.NewFromString(string(t)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("expected decimal, got %T", v)
	}

	switch f.Type {
	case "INT64":
		unscaled, err := DecimalUnscaled(d.String(), f.Scale)
		if err != nil {
			return nil, err
		}
		return unscaled.Int64(), nil
	case "BYTE_ARRAY", "FIXED_LEN_BYTE_ARRAY":
		bs, err := DecimalByteArray(d.String(), f.Precision, f.Scale)
		if err != nil {
			return nil, err
		}
		return string(bs), nil
	}

	return nil, fmt.Errorf("unsupported decimal physical type %q", f.Type)
}
