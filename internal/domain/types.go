package domain

import (
	"bytes"
	"encoding/json"
)

// EntryType is the direction of money flow for transactions and categories.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

// ParseEntryType accepts "income" or "expense".
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.Valid() {
		return "", FieldError("type", "must be one of: income expense")
	}
	return t, nil
}

// NullFields reports which top-level keys of a JSON object are an explicit
// null, so partial updates can tell "clear" apart from "leave unchanged".
func NullFields(data []byte) (map[string]bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	nulls := make(map[string]bool)
	for k, v := range raw {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			nulls[k] = true
		}
	}
	return nulls, nil
}
