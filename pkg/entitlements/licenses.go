package entitlements

import (
	"context"
	"strings"
)

// LicenseRemover strips every directly assigned SKU in a single batch call
// (assign nothing, remove all current). One row summarizes the whole batch;
// ResourceID carries the joined SKU list.
type LicenseRemover struct{}

func (LicenseRemover) Name() string { return "licenses" }

func (LicenseRemover) Scopes() []string {
	return []string{ScopeUserReadWriteAll}
}

func (LicenseRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	licenses, err := dir.AssignedLicenses(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceLicense, ActionRemoveLicenses, "user", err)
		return
	}
	if len(licenses) == 0 {
		return
	}

	skuIDs := make([]string, 0, len(licenses))
	names := make([]string, 0, len(licenses))
	for _, l := range licenses {
		skuIDs = append(skuIDs, l.SkuID)
		name := l.SkuPartNumber
		if name == "" {
			name = l.SkuID
		}
		names = append(names, name)
	}
	joined := strings.Join(skuIDs, ";")
	display := strings.Join(names, ";")

	if run.DryRun {
		run.Append(RemovalResult{
			ResourceName: display,
			ResourceType: ResourceLicense,
			ResourceID:   joined,
			Action:       ActionRemoveLicenses,
			Status:       StatusDryRun,
		})
		return
	}

	if err := dir.RemoveLicenses(ctx, run.Principal.ID, skuIDs); err != nil {
		run.AppendFailure(ResourceLicense, ActionRemoveLicenses, display, joined, "user", err)
		return
	}
	run.Append(RemovalResult{
		ResourceName: display,
		ResourceType: ResourceLicense,
		ResourceID:   joined,
		Action:       ActionRemoveLicenses,
		Status:       StatusSuccess,
	})
}
