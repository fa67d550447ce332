package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RoleRequirement is a (role, quantity) pair
type RoleRequirement struct {
	RoleID   string `json:"role_id,omitempty"`
	RoleName string `json:"role_name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// RoleList is a list of requirements stored as a JSONB column
type RoleList []RoleRequirement

// Total sums the quantities in the list
func (l RoleList) Total() int {
	total := 0
	for _, r := range l {
		total += r.Quantity
	}
	return total
}

// Value implements driver.Valuer
func (l RoleList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *RoleList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = RoleList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RoleList", src)
	}
	return json.Unmarshal(data, l)
}
