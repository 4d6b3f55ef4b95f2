package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a JSONB column of free-form key-value pairs, used for
// caller-supplied annotations on clients and invoices.
type Metadata map[string]string

// Scan implements sql.Scanner so sqlx can read the JSONB column
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	result := make(Metadata)
	err := json.Unmarshal(bytes, &result)
	*m = result
	return err
}

// Value implements driver.Valuer; nil maps marshal as an empty object so
// the column is never NULL
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(make(Metadata))
	}
	return json.Marshal(m)
}
