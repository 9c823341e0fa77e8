package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a jsonb column wrapper for ordered string lists
// (objectives, creative headlines, approval reason codes).
type StringList []string

// Value implements driver.Valuer for jsonb columns
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for jsonb columns
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan StringList value: expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether the list holds the given value
func (l StringList) Contains(v string) bool {
	for _, item := range l {
		if item == v {
			return true
		}
	}
	return false
}
