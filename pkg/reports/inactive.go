package reports

import (
	"context"
	"time"

	"github.com/microsoftgraph/msgraph-sdk-go/devices"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

// InactiveRow is a user or device with no sign-in activity inside the window.
type InactiveRow struct {
	ObjectType     string `json:"objectType" yaml:"objectType"`
	ID             string `json:"id" yaml:"id"`
	DisplayName    string `json:"displayName" yaml:"displayName"`
	AccountEnabled bool   `json:"accountEnabled" yaml:"accountEnabled"`
	LastSignIn     string `json:"lastSignIn" yaml:"lastSignIn"`
}

func (r InactiveRow) Header() []string {
	return []string{"ObjectType", "Id", "DisplayName", "AccountEnabled", "LastSignIn"}
}

func (r InactiveRow) Record() []string {
	enabled := "false"
	if r.AccountEnabled {
		enabled = "true"
	}
	return []string{r.ObjectType, r.ID, r.DisplayName, enabled, r.LastSignIn}
}

// InactiveReport finds users and devices whose last sign-in is older than the
// window. Objects that never signed in are reported with an empty LastSignIn.
type InactiveReport struct {
	Days int

	now func() time.Time
}

func (r *InactiveReport) Name() string { return "inactive" }

func (r *InactiveReport) Scopes() []string {
	// signInActivity on the user object requires audit log access.
	return []string{ScopeUserReadAll, ScopeAuditLogReadAll, ScopeDeviceReadAll}
}

func (r *InactiveReport) cutoff() time.Time {
	now := time.Now()
	if r.now != nil {
		now = r.now()
	}
	days := r.Days
	if days <= 0 {
		days = 90
	}
	return now.AddDate(0, 0, -days)
}

func (r *InactiveReport) Collect(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	cutoff := r.cutoff()

	rows, err := r.inactiveUsers(ctx, gc, cutoff)
	if err != nil {
		return nil, err
	}

	deviceRows, err := r.inactiveDevices(ctx, gc, cutoff)
	if err != nil {
		return nil, err
	}
	return append(rows, deviceRows...), nil
}

func (r *InactiveReport) inactiveUsers(ctx context.Context, gc *graph.Client, cutoff time.Time) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	cfg := &users.UsersRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.UsersRequestBuilderGetQueryParameters{
			Select: []string{"id", "userPrincipalName", "displayName", "accountEnabled", "signInActivity"},
			Top:    graph.Int32Ptr(maxPageSize),
		},
	}
	result, err := gc.Graph.Users().Get(callCtx, cfg)
	if err != nil {
		return nil, err
	}

	var rows []outputproviders.TabularRecord
	err = forEachPage(ctx, gc, result, models.CreateUserCollectionResponseFromDiscriminatorValue,
		func(u models.Userable) bool {
			var last *time.Time
			if activity := u.GetSignInActivity(); activity != nil {
				last = activity.GetLastSignInDateTime()
			}
			if last != nil && last.After(cutoff) {
				return true
			}
			rows = append(rows, InactiveRow{
				ObjectType:     "User",
				ID:             graph.StringValue(u.GetId()),
				DisplayName:    graph.StringValue(u.GetUserPrincipalName()),
				AccountEnabled: graph.BoolValue(u.GetAccountEnabled()),
				LastSignIn:     formatTime(last),
			})
			return true
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *InactiveReport) inactiveDevices(ctx context.Context, gc *graph.Client, cutoff time.Time) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	cfg := &devices.DevicesRequestBuilderGetRequestConfiguration{
		QueryParameters: &devices.DevicesRequestBuilderGetQueryParameters{
			Select: []string{"id", "displayName", "accountEnabled", "approximateLastSignInDateTime"},
			Top:    graph.Int32Ptr(maxPageSize),
		},
	}
	result, err := gc.Graph.Devices().Get(callCtx, cfg)
	if err != nil {
		return nil, err
	}

	var rows []outputproviders.TabularRecord
	err = forEachPage(ctx, gc, result, models.CreateDeviceCollectionResponseFromDiscriminatorValue,
		func(d models.Deviceable) bool {
			last := d.GetApproximateLastSignInDateTime()
			if last != nil && last.After(cutoff) {
				return true
			}
			rows = append(rows, InactiveRow{
				ObjectType:     "Device",
				ID:             graph.StringValue(d.GetId()),
				DisplayName:    graph.StringValue(d.GetDisplayName()),
				AccountEnabled: graph.BoolValue(d.GetAccountEnabled()),
				LastSignIn:     formatTime(last),
			})
			return true
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
