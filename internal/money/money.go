// Package money handles currency amounts from delivery-provider APIs
// without losing precision.
package money

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Amount is a fixed-point currency value in millionths of a unit.
type Amount int64

var _ json.Unmarshaler = (*Amount)(nil)

const Scale int64 = 1_000_000

// UnmarshalJSON accepts both quoted ("4.20") and raw (4.2) numeric payloads;
// the provider is not consistent about which it sends.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	// Else we assume that it is a raw number.

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Parse reads a decimal string such as "5", "0.5" or "-1.25" into an Amount.
// Digits beyond the sixth fractional place are truncated.
func Parse(s string) (Amount, error) {
	if s == "" {
		return 0, fmt.Errorf("couldn't parse empty amount")
	}

	neg := false
	i := 0
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		i++
	}
	if i == len(s) {
		return 0, fmt.Errorf("couldn't parse amount %q", s)
	}

	var res int64
	sawDigit := false

	for i < len(s) && s[i] != '.' {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("couldn't parse amount %q", s)
		}
		res = res*10 + int64(s[i]-'0')*Scale
		sawDigit = true
		i++
	}

	if i < len(s) && s[i] == '.' {
		i++
		mult := Scale
		for i < len(s) {
			if s[i] < '0' || s[i] > '9' {
				return 0, fmt.Errorf("couldn't parse amount %q", s)
			}
			mult /= 10
			res += int64(s[i]-'0') * mult
			sawDigit = true
			i++
		}
	}

	if !sawDigit {
		return 0, fmt.Errorf("couldn't parse amount %q", s)
	}
	if neg {
		res = -res
	}
	return Amount(res), nil
}

func (a Amount) Float64() float64 {
	return float64(a) / float64(Scale)
}

// String renders the amount with trailing fractional zeros trimmed.
func (a Amount) String() string {
	return strconv.FormatFloat(a.Float64(), 'f', -1, 64)
}
