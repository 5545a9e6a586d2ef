package parquet

import (
	"fmt"
	"math/big"
	"strings"
)

// DecimalUnscaled converts a decimal string into its unscaled integer
// representation at the given scale: "12.34" at scale 2 becomes 1234.
// The fractional part is padded or truncated to the scale.
func DecimalUnscaled(decimalStr string, scale int) (*big.Int, error) {
	sign := 1
	if strings.HasPrefix(decimalStr, "-") {
		sign = -1
		decimalStr = decimalStr[1:]
	}

	parts := strings.Split(decimalStr, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid decimal string format")
	}

	integerPart := parts[0]
	fractionalPart := ""
	if len(parts) == 2 {
		fractionalPart = parts[1]
	}

	if len(fractionalPart) < scale {
		fractionalPart += strings.Repeat("0", scale-len(fractionalPart))
	} else if len(fractionalPart) > scale {
		fractionalPart = fractionalPart[:scale]
	}

	unscaled := new(big.Int)
	if _, ok := unscaled.SetString(integerPart+fractionalPart, 10); !ok {
		return nil, fmt.Errorf("invalid number format")
	}

	if sign == -1 {
		unscaled.Neg(unscaled)
	}

	return unscaled, nil
}

// DecimalByteArray converts a decimal string into the big-endian two's
// complement byte representation parquet expects for DECIMAL byte array
// columns. The byte length is derived from the precision.
func DecimalByteArray(decimalStr string, precision int, scale int) ([]byte, error) {
	unscaled, err := DecimalUnscaled(decimalStr, scale)
	if err != nil {
		return nil, err
	}

	negative := unscaled.Sign() < 0
	if negative {
		unscaled = new(big.Int).Neg(unscaled)
	}

	// Approximate byte length based on precision.
	byteSize := (precision + 1) / 2
	bs := unscaled.Bytes()
	if len(bs) > byteSize {
		return nil, fmt.Errorf("decimal %s overflows %d bytes", decimalStr, byteSize)
	}

	padded := make([]byte, byteSize)
	copy(padded[byteSize-len(bs):], bs)

	if negative {
		for i := range padded {
			padded[i] ^= 0xff
		}
		for i := len(padded) - 1; i >= 0; i-- {
			padded[i]++
			if padded[i] != 0 {
				break
			}
		}
	}

	return padded, nil
}
