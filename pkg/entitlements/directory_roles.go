package entitlements

import "context"

// DirectoryRoleRemover revokes direct (non-PIM) directory role assignments.
// Runs before administrative-unit removal so scoped role assignments are
// gone before their scope is.
type DirectoryRoleRemover struct{}

func (DirectoryRoleRemover) Name() string { return "directory-roles" }

func (DirectoryRoleRemover) Scopes() []string {
	return []string{ScopeRoleManagementReadWriteDirectory}
}

func (DirectoryRoleRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	assignments, err := dir.DirectoryRoleAssignments(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceDirectoryRole, ActionRemoveDirectoryRoleAssignment, "role", err)
		return
	}

	for _, a := range assignments {
		if ctx.Err() != nil {
			return
		}
		name := a.RoleDisplayName
		if name == "" {
			name = a.RoleDefinitionID
		}
		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: name,
				ResourceType: ResourceDirectoryRole,
				ResourceID:   a.ID,
				Action:       ActionRemoveDirectoryRoleAssignment,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := dir.RemoveDirectoryRoleAssignment(ctx, a.ID); err != nil {
			run.AppendFailure(ResourceDirectoryRole, ActionRemoveDirectoryRoleAssignment, name, a.ID, "role", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: name,
			ResourceType: ResourceDirectoryRole,
			ResourceID:   a.ID,
			Action:       ActionRemoveDirectoryRoleAssignment,
			Status:       StatusSuccess,
		})
	}
}
