package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microsoftgraph/msgraph-sdk-go/auditlogs"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

// LegacyAuthRow is one sign-in through a legacy authentication protocol.
type LegacyAuthRow struct {
	UserPrincipalName string `json:"userPrincipalName" yaml:"userPrincipalName"`
	ClientAppUsed     string `json:"clientAppUsed" yaml:"clientAppUsed"`
	AppDisplayName    string `json:"appDisplayName" yaml:"appDisplayName"`
	IPAddress         string `json:"ipAddress" yaml:"ipAddress"`
	CreatedDateTime   string `json:"createdDateTime" yaml:"createdDateTime"`
}

func (r LegacyAuthRow) Header() []string {
	return []string{"UserPrincipalName", "ClientAppUsed", "AppDisplayName", "IPAddress", "CreatedDateTime"}
}

func (r LegacyAuthRow) Record() []string {
	return []string{r.UserPrincipalName, r.ClientAppUsed, r.AppDisplayName, r.IPAddress, r.CreatedDateTime}
}

// LegacyAuthReport surfaces recent sign-ins that used legacy protocols.
// Legacy clients bypass conditional access MFA enforcement, so any hit here
// is an open door.
type LegacyAuthReport struct {
	Days int

	now func() time.Time
}

func (r *LegacyAuthReport) Name() string { return "legacy-auth" }

func (r *LegacyAuthReport) Scopes() []string {
	return []string{ScopeAuditLogReadAll}
}

// IsLegacyClientApp reports whether a sign-in's clientAppUsed value is a
// legacy protocol. "Browser" and "Mobile Apps and Desktop clients" are the
// modern values; everything else Graph emits is basic auth.
func IsLegacyClientApp(clientApp string) bool {
	switch strings.ToLower(strings.TrimSpace(clientApp)) {
	case "", "browser", "mobile apps and desktop clients":
		return false
	}
	return true
}

func (r *LegacyAuthReport) Collect(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	now := time.Now()
	if r.now != nil {
		now = r.now()
	}
	days := r.Days
	if days <= 0 {
		days = 7
	}
	since := now.AddDate(0, 0, -days).UTC().Format(time.RFC3339)

	cfg := &auditlogs.SignInsRequestBuilderGetRequestConfiguration{
		QueryParameters: &auditlogs.SignInsRequestBuilderGetQueryParameters{
			Filter: graph.StrPtr(fmt.Sprintf("createdDateTime ge %s", since)),
			Top:    graph.Int32Ptr(maxPageSize),
		},
	}
	result, err := gc.Graph.AuditLogs().SignIns().Get(callCtx, cfg)
	if err != nil {
		return nil, err
	}

	var rows []outputproviders.TabularRecord
	err = forEachPage(ctx, gc, result, models.CreateSignInCollectionResponseFromDiscriminatorValue,
		func(s models.SignInable) bool {
			clientApp := graph.StringValue(s.GetClientAppUsed())
			if !IsLegacyClientApp(clientApp) {
				return true
			}
			rows = append(rows, LegacyAuthRow{
				UserPrincipalName: graph.StringValue(s.GetUserPrincipalName()),
				ClientAppUsed:     clientApp,
				AppDisplayName:    graph.StringValue(s.GetAppDisplayName()),
				IPAddress:         graph.StringValue(s.GetIpAddress()),
				CreatedDateTime:   formatTime(s.GetCreatedDateTime()),
			})
			return true
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
