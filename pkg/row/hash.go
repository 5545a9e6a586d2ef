package row

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/OneOfOne/xxhash"
)

// integral floats within this bound hash through the integer encoding so
// Hash stays consistent with Equal across numeric kinds.
const hashIntBound = float64(1 << 62)

// Hash digests the row's values in order. Metadata and key style do not
// participate, so a restored row hashes equal to its source. Numerically
// equal values of different kinds hash equal, matching Equal.
func (r *Row) Hash() uint64 {
	h := xxhash.New64()
	for _, v := range r.values {
		writeHashValue(h, v)
	}
	return h.Sum64()
}

func writeHashValue(h *xxhash.XXHash64, v any) {
	var buf [8]byte
	if v == nil {
		h.Write([]byte{0x00})
		return
	}
	if i, ok := asInt64(v); ok {
		h.Write([]byte{0x01})
		binary.BigEndian.PutUint64(buf[:], uint64(i))
		h.Write(buf[:])
		return
	}
	if f, ok := asFloat(v); ok {
		if f == math.Trunc(f) && f > -hashIntBound && f < hashIntBound {
			h.Write([]byte{0x01})
			binary.BigEndian.PutUint64(buf[:], uint64(int64(f)))
			h.Write(buf[:])
			return
		}
		h.Write([]byte{0x02})
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
		return
	}
	switch t := v.(type) {
	case bool:
		if t {
			h.Write([]byte{0x03, 0x01})
		} else {
			h.Write([]byte{0x03, 0x00})
		}
	case string:
		h.Write([]byte{0x04})
		binary.BigEndian.PutUint64(buf[:], uint64(len(t)))
		h.Write(buf[:])
		h.WriteString(t)
	case []byte:
		h.Write([]byte{0x05})
		binary.BigEndian.PutUint64(buf[:], uint64(len(t)))
		h.Write(buf[:])
		h.Write(t)
	case time.Time:
		h.Write([]byte{0x06})
		binary.BigEndian.PutUint64(buf[:], uint64(t.UnixNano()))
		h.Write(buf[:])
	default:
		h.Write([]byte{0x07})
		fmt.Fprintf(h, "%T:%v", t, t)
	}
}
