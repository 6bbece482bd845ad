package entitlements

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScopeChecker struct {
	err      error
	required []string
}

func (f *fakeScopeChecker) EnsureWithReconnect(_ context.Context, required []string, _ bool) error {
	f.required = required
	return f.err
}

func seededDirectory() *fakeDirectory {
	dir := newFakeDirectory()
	dir.users["mallory@contoso.com"] = testPrincipal
	dir.transitiveGroups = []Group{
		{ID: "g1", DisplayName: "Engineering"},
		{ID: "g2", DisplayName: "VPN Users"},
		{ID: "g3", DisplayName: "Oncall"},
	}
	dir.ownedGroups = []Group{{ID: "g4", DisplayName: "Shared Tools"}}
	dir.groupOwners["g4"] = 2
	dir.licenses = []License{
		{SkuID: "c42b9cae-ea4f-4ab7-9717-81576235ccac", SkuPartNumber: "SPE_E3"},
		{SkuID: "f30db892-07e9-47e9-837c-80727f46fd3d", SkuPartNumber: "FLOW_FREE"},
	}
	return dir
}

func TestOrchestratorAggregatesSelectedRemovers(t *testing.T) {
	dir := seededDirectory()
	orch := NewOrchestrator(dir, &fakeScopeChecker{}, nil)

	results, err := orch.Run(context.Background(), []string{"mallory@contoso.com"}, Options{
		GroupMemberships: true,
		GroupOwnerships:  true,
		Licenses:         true,
	})
	require.NoError(t, err)

	// 3 memberships + 1 ownership + 1 license batch row.
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, "mallory@contoso.com", r.UPN)
		assert.Equal(t, testPrincipal.ID, r.UserID)
		assert.False(t, r.Timestamp.IsZero())
	}
}

func TestOrchestratorScopePreconditionAbortsEverything(t *testing.T) {
	dir := seededDirectory()
	gate := &fakeScopeChecker{err: errors.New("missing delegated scopes: Group.ReadWrite.All")}
	orch := NewOrchestrator(dir, gate, nil)

	results, err := orch.Run(context.Background(), []string{"mallory@contoso.com"}, Options{All: true})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, dir.calls["RemoveGroupMember"], "no Graph mutation before the precondition passes")
}

func TestOrchestratorRequiredScopesCoverSelectedRemovers(t *testing.T) {
	dir := seededDirectory()
	gate := &fakeScopeChecker{}
	orch := NewOrchestrator(dir, gate, nil)

	_, err := orch.Run(context.Background(), []string{"mallory@contoso.com"}, Options{All: true})
	require.NoError(t, err)

	assert.Contains(t, gate.required, ScopeUserReadAll)
	assert.Contains(t, gate.required, ScopeGroupMemberReadWriteAll)
	assert.Contains(t, gate.required, ScopeEntitlementManagementReadWriteAll)
	assert.Contains(t, gate.required, ScopeRoleManagementReadWriteDirectory)
}

func TestOrchestratorRejectsMalformedUPNBeforeAnyCall(t *testing.T) {
	dir := seededDirectory()
	orch := NewOrchestrator(dir, &fakeScopeChecker{}, nil)

	_, err := orch.Run(context.Background(), []string{"mallory@contoso.com", "not a upn"}, Options{All: true})
	require.Error(t, err)

	var invalid *InvalidUPNError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "not a upn", invalid.Value)
	assert.Empty(t, dir.calls)
}

func TestOrchestratorNothingSelected(t *testing.T) {
	orch := NewOrchestrator(seededDirectory(), &fakeScopeChecker{}, nil)
	_, err := orch.Run(context.Background(), []string{"mallory@contoso.com"}, Options{})
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestOrchestratorGhostUserSingleRow(t *testing.T) {
	dir := seededDirectory()
	orch := NewOrchestrator(dir, &fakeScopeChecker{}, nil)

	results, err := orch.Run(context.Background(), []string{"ghost@contoso.com"}, Options{All: true})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "ghost@contoso.com", results[0].UPN)
	assert.Equal(t, ResourceUser, results[0].ResourceType)
	assert.Equal(t, ActionUserRetrieval, results[0].Action)
	assert.Equal(t, "Failed: Operation failed. The user could not be processed.", results[0].Status)
}

func TestOrchestratorLookupFailureDoesNotAbortBatch(t *testing.T) {
	dir := seededDirectory()
	orch := NewOrchestrator(dir, &fakeScopeChecker{}, nil)

	results, err := orch.Run(context.Background(), []string{"ghost@contoso.com", "mallory@contoso.com"}, Options{
		GroupMemberships: true,
	})
	require.NoError(t, err)

	// One lookup-failure row, then the second user's three membership rows.
	require.Len(t, results, 4)
	assert.Equal(t, ActionUserRetrieval, results[0].Action)
	for _, r := range results[1:] {
		assert.Equal(t, "mallory@contoso.com", r.UPN)
		assert.Equal(t, StatusSuccess, r.Status)
	}
}

func TestOrchestratorOneKindFailureIsolated(t *testing.T) {
	dir := seededDirectory()
	dir.enumErr["OAuth2PermissionGrants"] = errors.New("403 insufficient privileges")
	dir.appRoles = []AppRoleAssignment{{ID: "ra1", ResourceDisplayName: "Payroll"}}
	orch := NewOrchestrator(dir, &fakeScopeChecker{}, nil)

	results, err := orch.Run(context.Background(), []string{"mallory@contoso.com"}, Options{All: true})
	require.NoError(t, err)

	var grantFailures, appRoleRows int
	for _, r := range results {
		if r.ResourceType == ResourceOAuth2PermissionGrant {
			grantFailures++
			assert.Contains(t, r.Status, "Failed: ")
		}
		if r.ResourceType == ResourceUserAppRoleAssignment {
			appRoleRows++
		}
	}
	assert.Equal(t, 1, grantFailures, "failed kind reduces to one summary row")
	assert.Equal(t, 1, appRoleRows, "other kinds still run for the same user")
}

func TestOrchestratorDispatchOrderFixed(t *testing.T) {
	removers := (Options{All: true}).selected()
	names := make([]string, 0, len(removers))
	for _, r := range removers {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{
		"group-memberships",
		"group-ownerships",
		"licenses",
		"owned-objects",
		"app-role-assignments",
		"directory-roles",
		"administrative-units",
		"access-packages",
		"oauth2-grants",
		"pim-roles",
	}, names)
}

func TestOrchestratorParallelPreservesInputOrder(t *testing.T) {
	dir := seededDirectory()
	dir.users["oscar@contoso.com"] = DirectoryPrincipal{
		ID:                "77f61b07-9ca2-43b1-9e5e-0b3a2c1d4e5f",
		UserPrincipalName: "oscar@contoso.com",
	}
	orch := NewOrchestrator(dir, &fakeScopeChecker{}, nil)

	upns := []string{"mallory@contoso.com", "oscar@contoso.com", "ghost@contoso.com"}
	results, err := orch.Run(context.Background(), upns, Options{GroupMemberships: true, Workers: 3})
	require.NoError(t, err)

	// Each user's rows stay contiguous and in input order after the merge.
	require.Len(t, results, 7)
	for _, r := range results[:3] {
		assert.Equal(t, "mallory@contoso.com", r.UPN)
	}
	for _, r := range results[3:6] {
		assert.Equal(t, "oscar@contoso.com", r.UPN)
	}
	assert.Equal(t, "ghost@contoso.com", results[6].UPN)
}

func TestOrchestratorCancelledContextStopsEarly(t *testing.T) {
	dir := seededDirectory()
	orch := NewOrchestrator(dir, &fakeScopeChecker{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := orch.Run(ctx, []string{"mallory@contoso.com"}, Options{All: true})
	require.NoError(t, err)
	assert.Empty(t, results)
}
