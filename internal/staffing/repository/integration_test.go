//go:build integration

package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/internal/staffing/repository"
	"github.com/medflow/theatreops-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}

	code := m.Run()

	suite.Cleanup(ctx)
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func TestSessionRepository_Integration_SaveAndLoad(t *testing.T) {
	ctx := context.Background()

	tenant := suite.SetupStaffingTenant(t, ctx, "test-save-sessions")
	repo := repository.NewSessionRepository(suite.TenantDB(tenant))
	tenantCtx := suite.TenantContext(tenant)

	now := time.Now().UTC().Truncate(time.Second)
	first := suite.Fixtures.Session(testutil.InTheatre("t1"), testutil.OnDate("2025-10-27"))
	first.UpdatedAt = now
	second := suite.Fixtures.Session(testutil.InTheatre("t2"), testutil.OnDate("2025-10-28"), testutil.Closed("Maintenance"))
	second.UpdatedAt = now

	require.NoError(t, repo.SaveSessions(tenantCtx, []domain.Session{first, second}))

	// Last write wins
	first.Specialty = "Urology"
	require.NoError(t, repo.SaveSessions(tenantCtx, []domain.Session{first}))

	dr, err := domain.NewDateRange("2025-10-27", "2025-10-28")
	require.NoError(t, err)

	sessions, err := repo.LoadSessions(tenantCtx, dr, nil)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "Urology", sessions[0].Specialty)
	assert.Equal(t, "Maintenance", sessions[1].ClosedReason)

	only, err := repo.LoadSessions(tenantCtx, dr, []string{"t2"})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "t2-2025-10-28", only[0].ID())
}

func TestPoolRepository_Integration_Upsert(t *testing.T) {
	ctx := context.Background()

	tenant := suite.SetupStaffingTenant(t, ctx, "test-pool-upsert")
	repo := repository.NewPoolRepository(suite.TenantDB(tenant))
	tenantCtx := suite.TenantContext(tenant)

	rec := domain.NightStaffingRecord{
		Date:      "2025-10-27",
		Roles:     domain.RoleList{{RoleName: "Night Scrub N/P", Quantity: 1}},
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.SaveNight(tenantCtx, rec))

	rec.Roles = domain.RoleList{{RoleName: "Night Scrub N/P", Quantity: 3}}
	require.NoError(t, repo.SaveNight(tenantCtx, rec))

	dr, err := domain.NewDateRange("2025-10-27", "2025-10-27")
	require.NoError(t, err)

	night, err := repo.LoadNight(tenantCtx, dr)
	require.NoError(t, err)
	require.Len(t, night["2025-10-27"], 1)
	assert.Equal(t, 3, night["2025-10-27"][0].Roles.Total())
}
