package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microsoftgraph/msgraph-sdk-go/applications"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

// SecretRow is one app registration credential approaching expiry.
type SecretRow struct {
	AppID          string `json:"appId" yaml:"appId"`
	DisplayName    string `json:"displayName" yaml:"displayName"`
	CredentialType string `json:"credentialType" yaml:"credentialType"`
	KeyID          string `json:"keyId" yaml:"keyId"`
	EndDateTime    string `json:"endDateTime" yaml:"endDateTime"`
	DaysRemaining  int    `json:"daysRemaining" yaml:"daysRemaining"`
}

func (r SecretRow) Header() []string {
	return []string{"AppId", "DisplayName", "CredentialType", "KeyId", "EndDateTime", "DaysRemaining"}
}

func (r SecretRow) Record() []string {
	return []string{r.AppID, r.DisplayName, r.CredentialType, r.KeyID, r.EndDateTime, fmt.Sprintf("%d", r.DaysRemaining)}
}

// SecretsReport lists app registration password and key credentials expiring
// within the window. Already-expired credentials are included with negative
// days remaining.
type SecretsReport struct {
	WithinDays int

	now func() time.Time
}

func (r *SecretsReport) Name() string { return "secrets" }

func (r *SecretsReport) Scopes() []string {
	return []string{ScopeApplicationReadAll}
}

func (r *SecretsReport) Collect(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	cfg := &applications.ApplicationsRequestBuilderGetRequestConfiguration{
		QueryParameters: &applications.ApplicationsRequestBuilderGetQueryParameters{
			Select: []string{"id", "appId", "displayName", "passwordCredentials", "keyCredentials"},
			Top:    graph.Int32Ptr(maxPageSize),
		},
	}
	result, err := gc.Graph.Applications().Get(callCtx, cfg)
	if err != nil {
		return nil, err
	}

	var rows []outputproviders.TabularRecord
	err = forEachPage(ctx, gc, result, models.CreateApplicationCollectionResponseFromDiscriminatorValue,
		func(app models.Applicationable) bool {
			rows = append(rows, r.expiringCredentials(app)...)
			return true
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SecretsReport) expiringCredentials(app models.Applicationable) []outputproviders.TabularRecord {
	appID := graph.StringValue(app.GetAppId())
	name := graph.StringValue(app.GetDisplayName())

	var rows []outputproviders.TabularRecord
	for _, cred := range app.GetPasswordCredentials() {
		if row, ok := r.rowFor(appID, name, "Password", cred.GetKeyId(), cred.GetEndDateTime()); ok {
			rows = append(rows, row)
		}
	}
	for _, cred := range app.GetKeyCredentials() {
		if row, ok := r.rowFor(appID, name, "Certificate", cred.GetKeyId(), cred.GetEndDateTime()); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func (r *SecretsReport) rowFor(appID, name, credType string, keyID *uuid.UUID, end *time.Time) (SecretRow, bool) {
	if end == nil {
		return SecretRow{}, false
	}

	now := time.Now()
	if r.now != nil {
		now = r.now()
	}
	window := r.WithinDays
	if window <= 0 {
		window = 30
	}

	remaining := int(end.Sub(now).Hours() / 24)
	if remaining > window {
		return SecretRow{}, false
	}

	row := SecretRow{
		AppID:          appID,
		DisplayName:    name,
		CredentialType: credType,
		EndDateTime:    end.UTC().Format(time.RFC3339),
		DaysRemaining:  remaining,
	}
	if keyID != nil {
		row.KeyID = keyID.String()
	}
	return row, true
}
