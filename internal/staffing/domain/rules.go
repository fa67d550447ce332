package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// ApplicableSession restricts a template to a class of sessions
type ApplicableSession string

const (
	ApplicableAll        ApplicableSession = "all"
	ApplicableDay        ApplicableSession = "day"
	ApplicableNight      ApplicableSession = "night"
	ApplicableEmergency  ApplicableSession = "emergency"
	ApplicableWeekdayDay ApplicableSession = "weekday-day"
	ApplicableWeekendDay ApplicableSession = "weekend-day"
)

// Location scopes a template to theatres or to the location-independent pools
type Location string

const (
	LocationAll              Location = "all"
	LocationOutsideTheatres  Location = "outside-theatres"
	LocationInsideTheatres   Location = "inside-theatres"
	LocationSpecificTheatres Location = "specific-theatres"
)

// Unit is the theatre suite whose templates apply
type Unit struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	TheatreIDs pq.StringArray `db:"theatre_ids" json:"theatre_ids"`
}

// HasTheatre reports whether the unit covers a theatre. A unit without a
// theatre list covers every theatre.
func (u Unit) HasTheatre(theatreID string) bool {
	if len(u.TheatreIDs) == 0 {
		return true
	}
	for _, id := range u.TheatreIDs {
		if id == theatreID {
			return true
		}
	}
	return false
}

// DefaultRoleTemplate is a configured staffing rule for a unit
type DefaultRoleTemplate struct {
	ID                 string            `db:"id" json:"id"`
	UnitID             string            `db:"unit_id" json:"unit_id,omitempty"`
	RoleID             string            `db:"role_id" json:"role_id,omitempty"`
	RoleName           string            `db:"role_name" json:"role_name"`
	Quantity           int               `db:"quantity" json:"quantity"`
	ApplicableSession  ApplicableSession `db:"applicable_session" json:"applicable_session"`
	Location           Location          `db:"location" json:"location"`
	SpecificTheatreIDs pq.StringArray    `db:"specific_theatre_ids" json:"specific_theatre_ids,omitempty"`
	Position           int               `db:"position" json:"position"`
}

// LegacyRequirements is the older fixed-shape mapper payload
type LegacyRequirements struct {
	Anaesthetists int `json:"anaesthetists"`
	ScrubNurses   int `json:"scrub_nurses"`
	HCAs          int `json:"hcas"`
}

// Value implements driver.Valuer
func (r LegacyRequirements) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner
func (r *LegacyRequirements) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into LegacyRequirements", src)
	}
}

// ProcedureRoleMapper adds roles for cases of a specialty, optionally
// narrowed by subspecialty and procedure-name keywords
type ProcedureRoleMapper struct {
	ID            string              `db:"id" json:"id"`
	SpecialtyName string              `db:"specialty_name" json:"specialty_name"`
	Subspecialty  string              `db:"subspecialty" json:"subspecialty,omitempty"`
	Keywords      pq.StringArray      `db:"keywords" json:"keywords,omitempty"`
	Roles         RoleList            `db:"roles" json:"roles,omitempty"`
	Requirements  *LegacyRequirements `db:"requirements" json:"requirements,omitempty"`
	Position      int                 `db:"position" json:"position"`
}

// HasKeywords reports whether the mapper is keyword-gated
func (m ProcedureRoleMapper) HasKeywords() bool {
	for _, k := range m.Keywords {
		if k != "" {
			return true
		}
	}
	return false
}
