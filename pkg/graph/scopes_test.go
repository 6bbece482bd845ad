package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCredential hands out pre-built tokens in sequence and records every
// scope set requested from it.
type fakeCredential struct {
	tokens    []string
	err       error
	calls     int
	requested [][]string
}

func (f *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.requested = append(f.requested, opts.Scopes)
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	idx := f.calls
	if idx >= len(f.tokens) {
		idx = len(f.tokens) - 1
	}
	f.calls++
	return azcore.AccessToken{Token: f.tokens[idx], ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// signedToken builds a token whose claims the gate can read. ParseUnverified
// ignores the signature, so any key works.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func delegatedToken(t *testing.T, scp string) string {
	return signedToken(t, jwt.MapClaims{"scp": scp, "tid": "d5aec55f-2d12-4442-8d2f-ccca95d4390e"})
}

func appToken(t *testing.T, roles ...any) string {
	return signedToken(t, jwt.MapClaims{"roles": roles, "tid": "d5aec55f-2d12-4442-8d2f-ccca95d4390e"})
}

func TestGateFailsClosedWithoutCredential(t *testing.T) {
	gate := NewGate(nil)
	err := gate.Ensure(context.Background(), []string{"User.Read.All"})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestGateReportsExactMissingScopes(t *testing.T) {
	cred := &fakeCredential{tokens: []string{delegatedToken(t, "user.read.all")}}
	gate := NewGate(cred)

	err := gate.Ensure(context.Background(), []string{"User.Read.All", "Group.ReadWrite.All"})
	require.Error(t, err)

	var missing *MissingScopesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, GrantDelegated, missing.Grant)
	assert.Equal(t, []string{"Group.ReadWrite.All"}, missing.Missing)
}

func TestGateSatisfiedCaseInsensitive(t *testing.T) {
	cred := &fakeCredential{tokens: []string{delegatedToken(t, "USER.READ.ALL group.readwrite.all")}}
	gate := NewGate(cred)

	assert.NoError(t, gate.Ensure(context.Background(), []string{"User.Read.All", "Group.ReadWrite.All"}))
}

func TestGateReconnectGrantsAndRevalidates(t *testing.T) {
	cred := &fakeCredential{tokens: []string{
		delegatedToken(t, "User.Read.All"),
		delegatedToken(t, "User.Read.All Group.ReadWrite.All Directory.Read.All"),
	}}
	gate := NewGate(cred)

	required := []string{"User.Read.All", "Group.ReadWrite.All"}
	require.NoError(t, gate.EnsureWithReconnect(context.Background(), required, true))

	// The reconnect request must carry the union, never drop granted scopes.
	last := cred.requested[len(cred.requested)-1]
	assert.Contains(t, last, graphResource+"/User.Read.All")
	assert.Contains(t, last, graphResource+"/Group.ReadWrite.All")

	// A subsequent plain check against the same set passes on the cached token.
	assert.NoError(t, gate.Ensure(context.Background(), required))
}

func TestGateReconnectThatGrantsNothingStillFails(t *testing.T) {
	// Both tokens carry the same scopes: the reconnect silently failed to
	// add anything and the gate must notice.
	cred := &fakeCredential{tokens: []string{
		delegatedToken(t, "User.Read.All"),
		delegatedToken(t, "User.Read.All"),
	}}
	gate := NewGate(cred)

	err := gate.EnsureWithReconnect(context.Background(), []string{"Group.ReadWrite.All"}, true)
	require.Error(t, err)

	var missing *MissingScopesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"Group.ReadWrite.All"}, missing.Missing)
}

func TestGateApplicationGrantNeverReconnects(t *testing.T) {
	cred := &fakeCredential{tokens: []string{appToken(t, "User.Read.All")}}
	gate := NewGate(cred)

	err := gate.EnsureWithReconnect(context.Background(), []string{"Group.ReadWrite.All"}, true)
	require.Error(t, err)

	var missing *MissingScopesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, GrantApplication, missing.Grant)
	assert.Contains(t, err.Error(), "admin consent")
	// Only the initial introspection token was requested.
	assert.Equal(t, 1, cred.calls)
}

func TestGateApplicationRolesParsed(t *testing.T) {
	cred := &fakeCredential{tokens: []string{appToken(t, "User.Read.All", "Group.ReadWrite.All")}}
	gate := NewGate(cred)

	current, err := gate.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GrantApplication, current.Grant)
	assert.ElementsMatch(t, []string{"User.Read.All", "Group.ReadWrite.All"}, current.Scopes)
	assert.Equal(t, "d5aec55f-2d12-4442-8d2f-ccca95d4390e", current.TenantID)
}

func TestGateRejectsTokenWithoutScopeClaims(t *testing.T) {
	cred := &fakeCredential{tokens: []string{signedToken(t, jwt.MapClaims{"tid": "x"})}}
	gate := NewGate(cred)

	_, err := gate.Current(context.Background())
	assert.Error(t, err)
}

func TestMissingScopesDeduplicated(t *testing.T) {
	missing := missingScopes([]string{"A"}, []string{"B", "b", "A", "C"})
	assert.Equal(t, []string{"B", "C"}, missing)
}
