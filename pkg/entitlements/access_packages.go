package entitlements

import "context"

// AccessPackageRemover revokes delivered entitlement-management assignments.
// Revocation goes through an adminRemove assignment request, so success here
// means the request was accepted; the service completes it asynchronously.
type AccessPackageRemover struct{}

func (AccessPackageRemover) Name() string { return "access-packages" }

func (AccessPackageRemover) Scopes() []string {
	return []string{ScopeEntitlementManagementReadWriteAll}
}

func (AccessPackageRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	assignments, err := dir.AccessPackageAssignments(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceAccessPackageAssignment, ActionRemoveAccessPackageAssignment, "access package assignment", err)
		return
	}

	for _, a := range assignments {
		if ctx.Err() != nil {
			return
		}
		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: a.AccessPackageName,
				ResourceType: ResourceAccessPackageAssignment,
				ResourceID:   a.ID,
				Action:       ActionRemoveAccessPackageAssignment,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := dir.RemoveAccessPackageAssignment(ctx, a.ID); err != nil {
			run.AppendFailure(ResourceAccessPackageAssignment, ActionRemoveAccessPackageAssignment, a.AccessPackageName, a.ID, "access package assignment", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: a.AccessPackageName,
			ResourceType: ResourceAccessPackageAssignment,
			ResourceID:   a.ID,
			Action:       ActionRemoveAccessPackageAssignment,
			Status:       StatusSuccess,
		})
	}
}
