package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	s := Session{TheatreID: "theatre-3", Date: "2025-10-27"}
	assert.Equal(t, "theatre-3-2025-10-27", s.ID())

	theatreID, date, err := ParseSessionKey(s.ID())
	require.NoError(t, err)
	assert.Equal(t, "theatre-3", theatreID)
	assert.Equal(t, "2025-10-27", date)
}

func TestParseSessionKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "2025-10-27", "-2025-10-27", "t1-2025-13-40", "t1_2025-10-27"} {
		t.Run(key, func(t *testing.T) {
			_, _, err := ParseSessionKey(key)
			assert.Error(t, err)
		})
	}
}

func TestSession_IsActive(t *testing.T) {
	assert.True(t, Session{SessionType: SessionDay}.IsActive())
	assert.True(t, Session{SessionType: "weird"}.IsActive())
	assert.False(t, Session{SessionType: SessionClosed}.IsActive())
}

func TestRoleList_ScanValue(t *testing.T) {
	list := RoleList{{RoleID: "scrub-np", RoleName: "Scrub N/P", Quantity: 2}}

	v, err := list.Value()
	require.NoError(t, err)

	var scanned RoleList
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, list, scanned)
	assert.Equal(t, 2, scanned.Total())

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestLegacyRequirements_Scan(t *testing.T) {
	var r LegacyRequirements
	require.NoError(t, r.Scan(`{"anaesthetists":1,"scrub_nurses":2,"hcas":1}`))
	assert.Equal(t, LegacyRequirements{Anaesthetists: 1, ScrubNurses: 2, HCAs: 1}, r)
}

func TestUnit_HasTheatre(t *testing.T) {
	assert.True(t, Unit{}.HasTheatre("t1"))
	u := Unit{TheatreIDs: []string{"t1", "t2"}}
	assert.True(t, u.HasTheatre("t2"))
	assert.False(t, u.HasTheatre("t9"))
}

func TestShiftBreakdown_Add(t *testing.T) {
	b := ShiftBreakdown{}.Add(BucketDay, 2).Add(BucketNight, 1).Add(BucketLongDay, 3).Add("unknown", 1)
	assert.Equal(t, ShiftBreakdown{Day: 3, LongDay: 3, Night: 1}, b)
	assert.Equal(t, 7, b.Total())
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange("2025-10-30", "2025-11-02")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, []string{"2025-10-30", "2025-10-31", "2025-11-01", "2025-11-02"}, r.Days())

	_, err = NewDateRange("2025-11-02", "2025-10-30")
	assert.Error(t, err)

	_, err = NewDateRange("yesterday", "2025-10-30")
	assert.Error(t, err)
}
