package provider

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a lenient price value. It decodes JSON numbers, numeric strings,
// and objects carrying one of total, value, amount or raw. Anything else is zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			Total  *Amount `json:"total"`
			Value  *Amount `json:"value"`
			Amount *Amount `json:"amount"`
			Raw    *Amount `json:"raw"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		for _, candidate := range []*Amount{obj.Total, obj.Value, obj.Amount, obj.Raw} {
			if candidate != nil {
				*a = *candidate
				return nil
			}
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*a = Amount(ParseFloat(s))
	default:
		if f, err := strconv.ParseFloat(string(data), 64); err == nil {
			*a = Amount(f)
		}
	}
	return nil
}

func (a Amount) Float64() float64 {
	return float64(a)
}

// ParseFloat coerces a provider price string such as "1,234.50" or "$250" to a number.
// Unparseable input yields zero.
func ParseFloat(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// Names decodes a carrier list given either as strings or as objects with a name field.
type Names []string

func (n *Names) UnmarshalJSON(data []byte) error {
	*n = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			out = append(out, obj.Name)
		}
	}
	*n = out
	return nil
}

// First returns the first name or an empty string.
func (n Names) First() string {
	if len(n) == 0 {
		return ""
	}
	return n[0]
}
