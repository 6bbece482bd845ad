package reports

import (
	"context"

	"github.com/microsoftgraph/msgraph-sdk-go/applications"
	"github.com/microsoftgraph/msgraph-sdk-go/groups"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

// OrphanRow is an application or group with no owners left.
type OrphanRow struct {
	ObjectType  string `json:"objectType" yaml:"objectType"`
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Detail      string `json:"detail" yaml:"detail"`
}

func (r OrphanRow) Header() []string {
	return []string{"ObjectType", "Id", "DisplayName", "Detail"}
}

func (r OrphanRow) Record() []string {
	return []string{r.ObjectType, r.ID, r.DisplayName, r.Detail}
}

// OrphansReport finds applications and groups whose owners collection is
// empty. Orphaned objects survive offboarding runs and tend to accumulate.
type OrphansReport struct{}

func (r *OrphansReport) Name() string { return "orphans" }

func (r *OrphansReport) Scopes() []string {
	return []string{ScopeApplicationReadAll, ScopeGroupReadAll}
}

func (r *OrphansReport) Collect(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	var rows []outputproviders.TabularRecord

	appRows, err := r.orphanedApplications(ctx, gc)
	if err != nil {
		return nil, err
	}
	rows = append(rows, appRows...)

	groupRows, err := r.orphanedGroups(ctx, gc)
	if err != nil {
		return nil, err
	}
	rows = append(rows, groupRows...)

	return rows, nil
}

func (r *OrphansReport) orphanedApplications(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	cfg := &applications.ApplicationsRequestBuilderGetRequestConfiguration{
		QueryParameters: &applications.ApplicationsRequestBuilderGetQueryParameters{
			Select: []string{"id", "appId", "displayName"},
			Expand: []string{"owners($select=id)"},
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
			if len(app.GetOwners()) == 0 {
				rows = append(rows, OrphanRow{
					ObjectType:  "Application",
					ID:          graph.StringValue(app.GetId()),
					DisplayName: graph.StringValue(app.GetDisplayName()),
					Detail:      "appId " + graph.StringValue(app.GetAppId()),
				})
			}
			return true
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrphansReport) orphanedGroups(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	cfg := &groups.GroupsRequestBuilderGetRequestConfiguration{
		QueryParameters: &groups.GroupsRequestBuilderGetQueryParameters{
			Select: []string{"id", "displayName", "groupTypes"},
			Expand: []string{"owners($select=id)"},
			Top:    graph.Int32Ptr(maxPageSize),
		},
	}
	result, err := gc.Graph.Groups().Get(callCtx, cfg)
	if err != nil {
		return nil, err
	}

	var rows []outputproviders.TabularRecord
	err = forEachPage(ctx, gc, result, models.CreateGroupCollectionResponseFromDiscriminatorValue,
		func(g models.Groupable) bool {
			if len(g.GetOwners()) == 0 {
				detail := "group"
				for _, t := range g.GetGroupTypes() {
					if t == "DynamicMembership" {
						detail = "dynamic group"
					}
				}
				rows = append(rows, OrphanRow{
					ObjectType:  "Group",
					ID:          graph.StringValue(g.GetId()),
					DisplayName: graph.StringValue(g.GetDisplayName()),
					Detail:      detail,
				})
			}
			return true
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
