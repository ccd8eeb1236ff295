package harvest

import (
	"bytes"
	"encoding/json"
	"time"
)

// Strategy records which extraction tier produced a field value.
type Strategy string

const (
	StrategyStructural Strategy = "structural"
	StrategyHeuristic  Strategy = "heuristic"
)

// FieldValue is one extracted field of a record.
type FieldValue struct {
	Name     string
	Kind     FieldKind
	Value    string
	Raw      string
	Strategy Strategy

	// Amount is set for amount fields whose value parsed as a number.
	Amount *float64

	// Date is set for date fields whose value parsed as a calendar date.
	Date *time.Time
}

// Record is one extracted record. Fields appear in profile order.
type Record struct {
	// Index is the 1-based position of the record's fragment among all
	// fragments located in the document.
	Index  int
	Fields []FieldValue
}

// Field returns the named field.
func (r *Record) Field(name string) (FieldValue, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldValue{}, false
}

// Get returns the value of the named field, or "" if it is absent.
func (r *Record) Get(name string) string {
	f, _ := r.Field(name)
	return f.Value
}

// Amount returns the numeric value of the named amount field.
func (r *Record) Amount(name string) (float64, bool) {
	f, ok := r.Field(name)
	if !ok || f.Amount == nil {
		return 0, false
	}
	return *f.Amount, true
}

// MarshalJSON encodes the record as a flat object: index, then each field
// by name in profile order, with an additional "<name>_numeric" member for
// amount fields.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"index":`)
	idx, _ := json.Marshal(r.Index)
	buf.Write(idx)

	member := func(name string, v any) error {
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	for _, f := range r.Fields {
		if err := member(f.Name, f.Value); err != nil {
			return nil, err
		}
		if f.Kind == FieldAmount {
			if err := member(f.Name+"_numeric", f.Amount); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
