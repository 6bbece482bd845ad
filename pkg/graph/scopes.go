package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/golang-jwt/jwt/v5"
)

const graphResource = "https://graph.microsoft.com"

// GrantType distinguishes delegated user scopes from application roles.
type GrantType string

const (
	GrantDelegated   GrantType = "Delegated"
	GrantApplication GrantType = "Application"
)

// ErrNotConnected is returned when the gate has no credential to introspect.
// Failing closed here replaces the historical nil-context crash deep inside a
// later Graph call.
var ErrNotConnected = errors.New("graph: no authentication context; connect before calling")

// MissingScopesError lists exactly which required permissions the current
// token does not carry.
type MissingScopesError struct {
	Grant   GrantType
	Missing []string
}

func (e *MissingScopesError) Error() string {
	if e.Grant == GrantApplication {
		return fmt.Sprintf("missing application permissions %s; grant them via admin consent and reconnect manually",
			strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("missing delegated scopes: %s", strings.Join(e.Missing, ", "))
}

// TokenScopes is the introspected permission set of the current access token.
type TokenScopes struct {
	Grant    GrantType
	Scopes   []string
	TenantID string
}

// Gate checks that the caller's granted Graph permissions cover a required
// set before any mutating operation proceeds.
type Gate struct {
	cred azcore.TokenCredential

	mu      sync.Mutex
	current *TokenScopes
}

func NewGate(cred azcore.TokenCredential) *Gate {
	return &Gate{cred: cred}
}

// Current acquires a token for the default Graph resource and parses its
// claims. The cached result is reused until a reconnect replaces it.
func (g *Gate) Current(ctx context.Context) (*TokenScopes, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != nil {
		return g.current, nil
	}
	return g.refreshLocked(ctx, []string{graphResource + "/.default"})
}

func (g *Gate) refreshLocked(ctx context.Context, scopes []string) (*TokenScopes, error) {
	if g.cred == nil {
		return nil, ErrNotConnected
	}

	tok, err := g.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: scopes})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire Graph token: %w", err)
	}

	parsed, err := parseTokenScopes(tok.Token)
	if err != nil {
		return nil, err
	}
	g.current = parsed
	return parsed, nil
}

// Ensure verifies that every scope in required is granted, case-insensitive.
func (g *Gate) Ensure(ctx context.Context, required []string) error {
	return g.EnsureWithReconnect(ctx, required, false)
}

// EnsureWithReconnect verifies the required scopes and, when reconnect is set
// and the grant is delegated, re-acquires a token requesting the union of the
// current and required scopes. Previously granted scopes are never dropped.
// The refreshed token is re-validated: a reconnect that did not actually
// grant everything still fails with the remaining missing set.
func (g *Gate) EnsureWithReconnect(ctx context.Context, required []string, reconnect bool) error {
	current, err := g.Current(ctx)
	if err != nil {
		return err
	}

	missing := missingScopes(current.Scopes, required)
	if len(missing) == 0 {
		return nil
	}

	if !reconnect {
		return &MissingScopesError{Grant: current.Grant, Missing: missing}
	}
	if current.Grant == GrantApplication {
		// App-only tokens carry whatever roles were consented to the service
		// principal; requesting more at runtime cannot change that.
		return &MissingScopesError{Grant: GrantApplication, Missing: missing}
	}

	union := qualifyScopes(unionScopes(current.Scopes, required))

	g.mu.Lock()
	g.current = nil
	refreshed, err := g.refreshLocked(ctx, union)
	g.mu.Unlock()
	if err != nil {
		return fmt.Errorf("reconnect failed: %w", err)
	}

	if still := missingScopes(refreshed.Scopes, required); len(still) > 0 {
		return &MissingScopesError{Grant: refreshed.Grant, Missing: still}
	}
	return nil
}

// parseTokenScopes reads the scp (delegated) or roles (application) claim
// from the raw access token. The token came straight from the credential, so
// signature verification is not needed to trust our own claims read.
func parseTokenScopes(raw string) (*TokenScopes, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	ts := &TokenScopes{}
	if tid, ok := claims["tid"].(string); ok {
		ts.TenantID = tid
	}

	if scp, ok := claims["scp"].(string); ok {
		ts.Grant = GrantDelegated
		ts.Scopes = strings.Fields(scp)
		return ts, nil
	}
	if roles, ok := claims["roles"].([]any); ok {
		ts.Grant = GrantApplication
		for _, r := range roles {
			if s, ok := r.(string); ok {
				ts.Scopes = append(ts.Scopes, s)
			}
		}
		return ts, nil
	}
	return nil, errors.New("access token carries neither scp nor roles claim")
}

func missingScopes(granted, required []string) []string {
	have := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		have[strings.ToLower(s)] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, s := range required {
		key := strings.ToLower(s)
		if _, ok := have[key]; ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		missing = append(missing, s)
	}
	sort.Strings(missing)
	return missing
}

func unionScopes(current, required []string) []string {
	seen := make(map[string]struct{})
	var union []string
	for _, s := range append(append([]string{}, current...), required...) {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		union = append(union, s)
	}
	return union
}

func qualifyScopes(scopes []string) []string {
	qualified := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if strings.HasPrefix(s, "https://") {
			qualified = append(qualified, s)
			continue
		}
		qualified = append(qualified, graphResource+"/"+s)
	}
	return qualified
}
