package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/client"
	"github.com/medflow/theatreops-backend/pkg/errors"
	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorerClient_Disabled(t *testing.T) {
	c := client.NewScorerClient("", 0, logger.New("test", "test"))

	scores, err := c.Rank(context.Background(), "t1-2025-10-27", []string{"a", "b"})

	require.NoError(t, err)
	assert.False(t, c.Enabled())
	assert.Equal(t, []client.CandidateScore{{CandidateID: "a"}, {CandidateID: "b"}}, scores)
}

func TestScorerClient_Rank(t *testing.T) {
	var gotTenant string
	var gotReq client.RankRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/rank", r.URL.Path)
		gotTenant = r.Header.Get("X-Tenant-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"candidate_id":"b","score":0.9},{"candidate_id":"a","score":0.4}]}`))
	}))
	defer srv.Close()

	c := client.NewScorerClient(srv.URL, time.Second, logger.New("test", "test"))
	scores, err := c.Rank(testutil.TestTenantContext(), "t1-2025-10-27", []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, "test-tenant-id", gotTenant)
	assert.Equal(t, "t1-2025-10-27", gotReq.SessionID)
	require.Len(t, scores, 3)
	assert.Equal(t, "b", scores[0].CandidateID)
	assert.Equal(t, "a", scores[1].CandidateID)
	assert.Equal(t, client.CandidateScore{CandidateID: "c"}, scores[2])
}

func TestScorerClient_UnscoredCandidatesLast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"candidate_id":"a","score":-0.5},{"candidate_id":"c","score":-0.1}]}`))
	}))
	defer srv.Close()

	c := client.NewScorerClient(srv.URL, time.Second, logger.New("test", "test"))
	scores, err := c.Rank(testutil.TestTenantContext(), "t1-2025-10-27", []string{"a", "b", "c", "d"})

	require.NoError(t, err)
	assert.Equal(t, []client.CandidateScore{
		{CandidateID: "c", Score: -0.1},
		{CandidateID: "a", Score: -0.5},
		{CandidateID: "b"},
		{CandidateID: "d"},
	}, scores)
}

func TestScorerClient_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := client.NewScorerClient(srv.URL, time.Second, logger.New("test", "test"))
	_, err := c.Rank(context.Background(), "t1-2025-10-27", []string{"a"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstream))
}
