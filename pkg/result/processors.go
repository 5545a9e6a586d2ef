package result

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/turbolytics/rowset/pkg/row"
)

// Processors maps upper-cased database type names to value processors.
type Processors map[string]row.Processor

// For builds the positional processor list for a result set's columns.
// Columns without a mapped type get no processor.
func (p Processors) For(meta *Metadata) []row.Processor {
	procs := make([]row.Processor, len(meta.Columns()))
	for i, c := range meta.Columns() {
		if proc, ok := p[strings.ToUpper(c.Type)]; ok {
			procs[i] = proc
		}
	}
	return procs
}

// DefaultTypeProcessors are the conversions most fetch paths want: exact
// numerics into decimal.Decimal instead of lossy floats or raw driver text,
// and byte-slice text into strings.
var DefaultTypeProcessors = Processors{
	"NUMERIC": DecimalProcessor,
	"DECIMAL": DecimalProcessor,
	"TEXT":    TextProcessor,
	"VARCHAR": TextProcessor,
	"BPCHAR":  TextProcessor,
	"CHAR":    TextProcessor,
	"NAME":    TextProcessor,
	"UUID":    TextProcessor,
	"JSON":    TextProcessor,
	"JSONB":   TextProcessor,
}

// DecimalProcessor parses driver text into a decimal.Decimal, passing through
// anything it cannot parse.
func DecimalProcessor(v any) any {
	switch t := v.(type) {
	case string:
		if d, err := decimal.NewFromString(t); err == nil {
			return d
		}
	case []byte:
		if d, err := decimal.NewFromString(string(t)); err == nil {
			return d
		}
	}
	return v
}

// TextProcessor converts byte-slice column values into strings.
func TextProcessor(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
