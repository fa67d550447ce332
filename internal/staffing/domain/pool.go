package domain

import "time"

// AuxiliaryStaffingRecord is the day-shift, location-independent pool for a date
type AuxiliaryStaffingRecord struct {
	Date      string    `db:"date" json:"date"`
	Roles     RoleList  `db:"roles" json:"roles"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	UpdatedBy string    `db:"updated_by" json:"updated_by,omitempty"`
}

// NightStaffingRecord is the night-shift pool for a date. Role names usually
// carry a "Night " qualifier that is stripped before aggregation.
type NightStaffingRecord struct {
	Date      string    `db:"date" json:"date"`
	Roles     RoleList  `db:"roles" json:"roles"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	UpdatedBy string    `db:"updated_by" json:"updated_by,omitempty"`
}

// StaffAllocation is the actual assignment count for a session
type StaffAllocation struct {
	SessionID string    `db:"session_id" json:"session_id"`
	Roles     RoleList  `db:"roles" json:"roles"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	UpdatedBy string    `db:"updated_by" json:"updated_by,omitempty"`
}
