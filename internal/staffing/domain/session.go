// Package domain holds the typed records shared by the staffing engine,
// its repositories and its HTTP surface.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used for every date key
const DateLayout = "2006-01-02"

// SessionType is the literal type a theatre session is scheduled as.
// Values outside the known set are carried through unchanged.
type SessionType string

const (
	SessionDay       SessionType = "day"
	SessionLongDay   SessionType = "long-day"
	SessionNight     SessionType = "night"
	SessionEmergency SessionType = "emergency"
	SessionClosed    SessionType = "closed"
)

// Session is one scheduled use of a theatre on one date
type Session struct {
	TheatreID               string      `db:"theatre_id" json:"theatre_id"`
	Date                    string      `db:"date" json:"date"`
	SessionType             SessionType `db:"session_type" json:"session_type"`
	Specialty               string      `db:"specialty" json:"specialty,omitempty"`
	Subspecialty            string      `db:"subspecialty" json:"subspecialty,omitempty"`
	SurgeonID               string      `db:"surgeon_id" json:"surgeon_id,omitempty"`
	SurgeonAssistantID      string      `db:"surgeon_assistant_id" json:"surgeon_assistant_id,omitempty"`
	AnaesthetistID          string      `db:"anaesthetist_id" json:"anaesthetist_id,omitempty"`
	AnaesthetistAssistantID string      `db:"anaesthetist_assistant_id" json:"anaesthetist_assistant_id,omitempty"`
	ClosedReason            string      `db:"closed_reason" json:"closed_reason,omitempty"`
	Notes                   string      `db:"notes" json:"notes,omitempty"`
	UpdatedAt               time.Time   `db:"updated_at" json:"updated_at"`
	UpdatedBy               string      `db:"updated_by" json:"updated_by,omitempty"`
}

// ID returns the composite session key "{theatreId}-{date}"
func (s Session) ID() string {
	return SessionKey(s.TheatreID, s.Date)
}

// IsActive reports whether the session contributes staffing requirements
func (s Session) IsActive() bool {
	return s.SessionType != SessionClosed
}

// Case is a scheduled procedure inside a session
type Case struct {
	SessionID     string `db:"session_id" json:"session_id"`
	ProcedureName string `db:"procedure_name" json:"procedure_name"`
	Specialty     string `db:"specialty" json:"specialty"`
	Subspecialty  string `db:"subspecialty" json:"subspecialty,omitempty"`
	Position      int    `db:"position" json:"position"`
}

// SessionKey builds the composite key for a theatre and ISO date
func SessionKey(theatreID, date string) string {
	return theatreID + "-" + date
}

// ParseSessionKey splits a composite key into theatre and date.
// The date is always the trailing ten characters, so theatre IDs may contain dashes.
func ParseSessionKey(key string) (theatreID, date string, err error) {
	if len(key) < len(DateLayout)+2 || key[len(key)-len(DateLayout)-1] != '-' {
		return "", "", fmt.Errorf("malformed session key %q", key)
	}
	date = key[len(key)-len(DateLayout):]
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", "", fmt.Errorf("malformed session key %q: %w", key, err)
	}
	theatreID = key[:len(key)-len(DateLayout)-1]
	if strings.TrimSpace(theatreID) == "" {
		return "", "", fmt.Errorf("malformed session key %q", key)
	}
	return theatreID, date, nil
}
