package entitlements

import "context"

// AppRoleAssignmentRemover revokes the principal's app role assignments
// (the grants behind "assigned users" on enterprise applications).
type AppRoleAssignmentRemover struct{}

func (AppRoleAssignmentRemover) Name() string { return "app-role-assignments" }

func (AppRoleAssignmentRemover) Scopes() []string {
	return []string{ScopeAppRoleAssignmentReadWriteAll}
}

func (AppRoleAssignmentRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	assignments, err := dir.AppRoleAssignments(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceUserAppRoleAssignment, ActionRemoveAppRoleAssignment, "user", err)
		return
	}

	for _, a := range assignments {
		if ctx.Err() != nil {
			return
		}
		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: a.ResourceDisplayName,
				ResourceType: ResourceUserAppRoleAssignment,
				ResourceID:   a.ID,
				Action:       ActionRemoveAppRoleAssignment,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := dir.RemoveAppRoleAssignment(ctx, run.Principal.ID, a.ID); err != nil {
			run.AppendFailure(ResourceUserAppRoleAssignment, ActionRemoveAppRoleAssignment, a.ResourceDisplayName, a.ID, "resource", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: a.ResourceDisplayName,
			ResourceType: ResourceUserAppRoleAssignment,
			ResourceID:   a.ID,
			Action:       ActionRemoveAppRoleAssignment,
			Status:       StatusSuccess,
		})
	}
}
