// Package reports implements the read-only Entra ID reporting commands.
// Every report paginates through Graph collections, projects each item into a
// flat tabular row, and routes any Graph fault through the central error
// classifier so raw API errors never reach the console.
package reports

import (
	"context"
	"errors"
	"log/slog"

	absser "github.com/microsoft/kiota-abstractions-go/serialization"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"

	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

// Graph permission scopes the reports require.
const (
	ScopeApplicationReadAll  = "Application.Read.All"
	ScopeGroupReadAll        = "Group.Read.All"
	ScopeUserReadAll         = "User.Read.All"
	ScopeDeviceReadAll       = "Device.Read.All"
	ScopeAuditLogReadAll     = "AuditLog.Read.All"
	ScopeOrganizationReadAll = "Organization.Read.All"
	ScopeRoleManagementRead  = "RoleManagement.Read.Directory"
	ScopePolicyReadAll       = "Policy.Read.All"
)

const maxPageSize = int32(999)

// Report is one read-only projection over the tenant.
type Report interface {
	Name() string
	Scopes() []string
	Collect(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error)
}

// Run gates the report on its required scopes, collects, and converts any
// Graph fault into its classified reason. The raw error text goes to the
// debug log only.
func Run(ctx context.Context, gc *graph.Client, r Report) ([]outputproviders.TabularRecord, error) {
	if err := gc.Gate.Ensure(ctx, r.Scopes()); err != nil {
		return nil, err
	}

	rows, err := r.Collect(ctx, gc)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		d := graph.Classify(err, r.Name()+" report")
		slog.Log(ctx, d.Level, "report failed", "report", r.Name(), "reason", d.Reason)
		slog.Debug("graph error detail", "report", r.Name(), "error", d.ErrorMessage)
		return nil, errors.New(d.Reason)
	}
	return rows, nil
}

// forEachPage walks every page of a Graph collection response, first page
// included.
func forEachPage[T any](
	ctx context.Context,
	gc *graph.Client,
	result interface{},
	factory absser.ParsableFactory,
	fn func(T) bool,
) error {
	it, err := msgraphcore.NewPageIterator[T](result, gc.Graph.GetAdapter(), factory)
	if err != nil {
		return err
	}
	return it.Iterate(ctx, fn)
}
