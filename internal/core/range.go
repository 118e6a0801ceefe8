package core

import (
	"encoding/json"
	"fmt"
)

const (
	RangeToday     RangeKind = "Today"
	RangeThisMonth RangeKind = "ThisMonth"
	RangeThisYear  RangeKind = "ThisYear"
	RangeLifetime  RangeKind = "Lifetime"
	RangeCustom    RangeKind = "Custom"
)

var ErrInvalidRange = fmt.Errorf("%w: invalid range", ErrInvalidInput)

type RangeKind string

// Range selects a window of ledger entries. Start and End are only set for
// RangeCustom and are both inclusive.
type Range struct {
	Kind  RangeKind
	Start Date
	End   Date
}

type rangeWire struct {
	Type  RangeKind        `json:"type"`
	Value *customRangeWire `json:"value,omitempty"`
}

type customRangeWire struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func Today() Range     { return Range{Kind: RangeToday} }
func ThisMonth() Range { return Range{Kind: RangeThisMonth} }
func ThisYear() Range  { return Range{Kind: RangeThisYear} }
func Lifetime() Range  { return Range{Kind: RangeLifetime} }

func Custom(start, end Date) Range {
	return Range{Kind: RangeCustom, Start: start, End: end}
}

func (r Range) Validate() error {
	switch r.Kind {
	case RangeToday, RangeThisMonth, RangeThisYear, RangeLifetime:
		return nil
	case RangeCustom:
		if r.Start.IsZero() || r.End.IsZero() {
			return fmt.Errorf("%w: custom range needs both start and end", ErrInvalidRange)
		}
		if r.Start.After(r.End.Time) {
			return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, r.Start, r.End)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown range type %q", ErrInvalidRange, r.Kind)
	}
}

func (r Range) String() string {
	if r.Kind == RangeCustom {
		return fmt.Sprintf("%s:%s..%s", r.Kind, r.Start, r.End)
	}
	return string(r.Kind)
}

func (r Range) MarshalJSON() ([]byte, error) {
	w := rangeWire{Type: r.Kind}
	if r.Kind == RangeCustom {
		w.Value = &customRangeWire{Start: r.Start, End: r.End}
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the adjacently tagged form
// {"type":"Custom","value":{"start":"2025-01-01","end":"2025-01-31"}}.
func (r *Range) UnmarshalJSON(data []byte) error {
	var w rangeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	out := Range{Kind: w.Type}
	if w.Type == RangeCustom {
		if w.Value == nil {
			return fmt.Errorf("%w: custom range needs a value", ErrInvalidRange)
		}
		out.Start, out.End = w.Value.Start, w.Value.End
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*r = out
	return nil
}
