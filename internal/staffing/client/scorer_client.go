package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/medflow/theatreops-backend/pkg/errors"
	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

// ScorerClient calls the external candidate scorer. Scores are opaque: this
// service only orders candidates by them.
type ScorerClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewScorerClient creates a new scorer client. An empty base URL disables
// scoring.
func NewScorerClient(baseURL string, timeout time.Duration, log *logger.Logger) *ScorerClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScorerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// RankRequest is the request structure sent to the scorer
type RankRequest struct {
	SessionID    string   `json:"session_id"`
	CandidateIDs []string `json:"candidate_ids"`
}

// CandidateScore is one scored candidate
type CandidateScore struct {
	CandidateID string  `json:"candidate_id"`
	Score       float64 `json:"score"`
}

// Enabled reports whether a scorer is configured
func (c *ScorerClient) Enabled() bool {
	return c.baseURL != ""
}

// Rank scores candidates for a session and returns them best first. Ties keep
// the given order. Without a configured scorer every candidate scores zero.
func (c *ScorerClient) Rank(ctx context.Context, sessionID string, candidateIDs []string) ([]CandidateScore, error) {
	if !c.Enabled() {
		out := make([]CandidateScore, len(candidateIDs))
		for i, id := range candidateIDs {
			out[i] = CandidateScore{CandidateID: id}
		}
		return out, nil
	}

	payload, err := json.Marshal(RankRequest{SessionID: sessionID, CandidateIDs: candidateIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/rank", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Forward tenant headers so the scorer reads the right tenant's history
	tenantID, _ := tenant.TenantID(ctx)
	tenantSlug, _ := tenant.TenantSlug(ctx)
	tenantSchema, _ := tenant.TenantSchema(ctx)

	if tenantID != "" {
		httpReq.Header.Set("X-Tenant-ID", tenantID)
	}
	if tenantSlug != "" {
		httpReq.Header.Set("X-Tenant-Slug", tenantSlug)
	}
	if tenantSchema != "" {
		httpReq.Header.Set("X-Tenant-Schema", tenantSchema)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("session_id", sessionID).
		Int("candidates", len(candidateIDs)).
		Str("tenant_id", tenantID).
		Msg("ranking candidates via scorer")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to call scorer")
		return nil, errors.Upstream("scorer", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Interface("error", errResp).
			Msg("scorer request failed")
		return nil, errors.Upstream("scorer", fmt.Errorf("status %d", resp.StatusCode))
	}

	// Responses are wrapped in {"success": true, "data": ...}
	var response struct {
		Success bool             `json:"success"`
		Data    []CandidateScore `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, errors.Upstream("scorer", fmt.Errorf("failed to decode response: %w", err))
	}

	return order(candidateIDs, response.Data), nil
}

// order returns every requested candidate by descending score. Candidates the
// scorer left out follow with score zero, in request order.
func order(candidateIDs []string, scores []CandidateScore) []CandidateScore {
	byID := make(map[string]float64, len(scores))
	for _, s := range scores {
		byID[s.CandidateID] = s.Score
	}

	scored := make([]CandidateScore, 0, len(candidateIDs))
	var unscored []CandidateScore
	for _, id := range candidateIDs {
		score, ok := byID[id]
		if !ok {
			unscored = append(unscored, CandidateScore{CandidateID: id})
			continue
		}
		scored = append(scored, CandidateScore{CandidateID: id, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return append(scored, unscored...)
}
