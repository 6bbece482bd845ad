package reports

import (
	"context"
	"fmt"

	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

// LicenseRow is one subscribed SKU's consumption against its enabled units.
type LicenseRow struct {
	SkuID         string `json:"skuId" yaml:"skuId"`
	SkuPartNumber string `json:"skuPartNumber" yaml:"skuPartNumber"`
	EnabledUnits  int32  `json:"enabledUnits" yaml:"enabledUnits"`
	ConsumedUnits int32  `json:"consumedUnits" yaml:"consumedUnits"`
	UnusedUnits   int32  `json:"unusedUnits" yaml:"unusedUnits"`
}

func (r LicenseRow) Header() []string {
	return []string{"SkuId", "SkuPartNumber", "EnabledUnits", "ConsumedUnits", "UnusedUnits"}
}

func (r LicenseRow) Record() []string {
	return []string{
		r.SkuID, r.SkuPartNumber,
		fmt.Sprintf("%d", r.EnabledUnits),
		fmt.Sprintf("%d", r.ConsumedUnits),
		fmt.Sprintf("%d", r.UnusedUnits),
	}
}

// LicensesReport compares subscribed SKU consumption to purchased units.
// Unused paid seats are the usual follow-up after a round of offboarding.
type LicensesReport struct{}

func (r *LicensesReport) Name() string { return "licenses" }

func (r *LicensesReport) Scopes() []string {
	return []string{ScopeOrganizationReadAll}
}

func (r *LicensesReport) Collect(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	result, err := gc.Graph.SubscribedSkus().Get(callCtx, nil)
	if err != nil {
		return nil, err
	}

	var rows []outputproviders.TabularRecord
	for _, sku := range result.GetValue() {
		row := LicenseRow{
			SkuPartNumber: graph.StringValue(sku.GetSkuPartNumber()),
		}
		if id := sku.GetSkuId(); id != nil {
			row.SkuID = id.String()
		}
		if consumed := sku.GetConsumedUnits(); consumed != nil {
			row.ConsumedUnits = *consumed
		}
		if prepaid := sku.GetPrepaidUnits(); prepaid != nil && prepaid.GetEnabled() != nil {
			row.EnabledUnits = *prepaid.GetEnabled()
		}
		row.UnusedUnits = row.EnabledUnits - row.ConsumedUnits
		rows = append(rows, row)
	}
	return rows, nil
}
