package row

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// Equal reports whether the row's values equal the other operand's values,
// position by position. The operand may be another *Row or a plain []any;
// metadata and key style never participate.
func (r *Row) Equal(other any) bool {
	vals, ok := sequenceValues(other)
	if !ok || len(vals) != len(r.values) {
		return false
	}
	for i, v := range r.values {
		if !equalValues(v, vals[i]) {
			return false
		}
	}
	return true
}

// Compare orders the row against another *Row or []any lexicographically,
// returning -1, 0 or 1. Element pairs with no defined order report
// ErrIncomparable.
func (r *Row) Compare(other any) (int, error) {
	vals, ok := sequenceValues(other)
	if !ok {
		return 0, fmt.Errorf("%w: row and %T", ErrIncomparable, other)
	}
	n := min(len(r.values), len(vals))
	for i := 0; i < n; i++ {
		c, err := compareValues(r.values[i], vals[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(r.values) < len(vals):
		return -1, nil
	case len(r.values) > len(vals):
		return 1, nil
	}
	return 0, nil
}

// Less reports whether the row orders before other.
func (r *Row) Less(other any) (bool, error) {
	c, err := r.Compare(other)
	return err == nil && c < 0, err
}

// LessEqual reports whether the row orders before or equal to other.
func (r *Row) LessEqual(other any) (bool, error) {
	c, err := r.Compare(other)
	return err == nil && c <= 0, err
}

// Greater reports whether the row orders after other.
func (r *Row) Greater(other any) (bool, error) {
	c, err := r.Compare(other)
	return err == nil && c > 0, err
}

// GreaterEqual reports whether the row orders after or equal to other.
func (r *Row) GreaterEqual(other any) (bool, error) {
	c, err := r.Compare(other)
	return err == nil && c >= 0, err
}

func sequenceValues(other any) ([]any, bool) {
	switch o := other.(type) {
	case *Row:
		return o.values, true
	case []any:
		return o, true
	}
	return nil, false
}

// equalValues compares across numeric kinds, so int(1) equals int64(1) and
// 1.0; everything non-numeric falls back to deep equality.
func equalValues(a, b any) bool {
	if c, err := compareValues(a, b); err == nil {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b any) (int, error) {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}
	if ai, ok := asInt64(a); ok {
		if bi, ok := asInt64(b); ok {
			return cmpOrdered(ai, bi), nil
		}
		if bf, ok := asFloat(b); ok {
			return cmpOrdered(float64(ai), bf), nil
		}
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}
	if af, ok := asFloat(a); ok {
		if bi, ok := asInt64(b); ok {
			return cmpOrdered(af, float64(bi)), nil
		}
		if bf, ok := asFloat(b); ok {
			return cmpOrdered(af, bf), nil
		}
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}
	switch at := a.(type) {
	case string:
		if bt, ok := b.(string); ok {
			return strings.Compare(at, bt), nil
		}
	case []byte:
		if bt, ok := b.([]byte); ok {
			return bytes.Compare(at, bt), nil
		}
	case bool:
		if bt, ok := b.(bool); ok {
			switch {
			case at == bt:
				return 0, nil
			case !at:
				return -1, nil
			}
			return 1, nil
		}
	case time.Time:
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt), nil
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		if uint64(t) <= math.MaxInt64 {
			return int64(t), true
		}
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}
