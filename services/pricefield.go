package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// PriceField is one stage of the derived-pricing chain. Value is the only
// number downstream code reads; ManualOverride matters only when Strategy
// is Manual.
type PriceField struct {
	Value          float64    `json:"value"`
	Strategy       StrategyID `json:"strategy"`
	ManualOverride *float64   `json:"manualOverride,omitempty"`
}

// ManualPrice returns a manual field pinned to v.
func ManualPrice(v float64) PriceField {
	return PriceField{Value: v, Strategy: Manual, ManualOverride: &v}
}

// FormulaPrice returns an unresolved field driven by strategy id.
func FormulaPrice(id StrategyID) PriceField {
	return PriceField{Strategy: id}
}

// IsManual reports whether the field bypasses its formula.
func (p PriceField) IsManual() bool {
	return p.Strategy == Manual || p.Strategy == ""
}

// Override returns the manual override, 0 when unset.
func (p PriceField) Override() float64 {
	if p.ManualOverride == nil {
		return 0
	}
	return *p.ManualOverride
}

// Clone returns a copy that shares no memory with p.
func (p PriceField) Clone() PriceField {
	out := p
	if p.ManualOverride != nil {
		v := *p.ManualOverride
		out.ManualOverride = &v
	}
	return out
}

// UnmarshalJSON accepts both the object form and the legacy bare number,
// which is migrated to a manual field.
func (p *PriceField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ManualPrice(0)
		return nil
	}
	if trimmed[0] != '{' {
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			*p = ManualPrice(CoerceNumber(strings.Trim(string(trimmed), `"`), 0))
			return nil
		}
		*p = ManualPrice(CoerceNumber(n, 0))
		return nil
	}
	type raw struct {
		Value          any    `json:"value"`
		Strategy       string `json:"strategy"`
		ManualOverride any    `json:"manualOverride"`
	}
	var r raw
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return err
	}
	*p = coerceFields(r.Value, r.Strategy, r.ManualOverride)
	return nil
}

// CoercePriceField turns an untyped value into a PriceField. Bare numbers
// become manual fields; anything unreadable becomes {0, MANUAL, 0}.
func CoercePriceField(v any) PriceField {
	switch t := v.(type) {
	case nil:
		return ManualPrice(0)
	case PriceField:
		return t.Clone()
	case *PriceField:
		if t == nil {
			return ManualPrice(0)
		}
		return t.Clone()
	case map[string]any:
		return coerceFields(t["value"], cast.ToString(t["strategy"]), t["manualOverride"])
	case json.RawMessage:
		return unmarshalPriceField(t)
	case []byte:
		return unmarshalPriceField(t)
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "{") {
			return unmarshalPriceField([]byte(s))
		}
		return ManualPrice(CoerceNumber(s, 0))
	default:
		return ManualPrice(CoerceNumber(t, 0))
	}
}

func unmarshalPriceField(b []byte) PriceField {
	var p PriceField
	if err := json.Unmarshal(b, &p); err != nil {
		return ManualPrice(0)
	}
	return p
}

func coerceFields(value any, strategy string, override any) PriceField {
	p := PriceField{
		Value:    CoerceNumber(value, 0),
		Strategy: StrategyID(strings.TrimSpace(strategy)),
	}
	if p.Strategy == "" {
		p.Strategy = Manual
	}
	if override != nil {
		o := CoerceNumber(override, 0)
		p.ManualOverride = &o
	}
	return p
}
