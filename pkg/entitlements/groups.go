package entitlements

import "context"

// GroupMembershipRemover strips the principal from every group it
// transitively belongs to. Dynamic-membership groups are dropped from the
// candidate set: the directory computes their membership from rules and
// rejects manual edits.
type GroupMembershipRemover struct{}

func (GroupMembershipRemover) Name() string { return "group-memberships" }

func (GroupMembershipRemover) Scopes() []string {
	return []string{ScopeGroupMemberReadWriteAll}
}

func (GroupMembershipRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	groups, err := dir.TransitiveGroups(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceGroup, ActionRemoveGroupMember, "group", err)
		return
	}

	for _, g := range groups {
		if ctx.Err() != nil {
			return
		}
		if g.Dynamic {
			continue
		}
		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: g.DisplayName,
				ResourceType: ResourceGroup,
				ResourceID:   g.ID,
				Action:       ActionRemoveGroupMember,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := dir.RemoveGroupMember(ctx, g.ID, run.Principal.ID); err != nil {
			run.AppendFailure(ResourceGroup, ActionRemoveGroupMember, g.DisplayName, g.ID, "group", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: g.DisplayName,
			ResourceType: ResourceGroup,
			ResourceID:   g.ID,
			Action:       ActionRemoveGroupMember,
			Status:       StatusSuccess,
		})
	}
}

// GroupOwnershipRemover removes the principal from the owners collection of
// each group it owns, unless it is the last owner. Orphaning a group would
// leave nobody able to administer it, so those cases become Skipped rows and
// the removal call is never made.
type GroupOwnershipRemover struct{}

func (GroupOwnershipRemover) Name() string { return "group-ownerships" }

func (GroupOwnershipRemover) Scopes() []string {
	return []string{ScopeGroupReadWriteAll}
}

func (GroupOwnershipRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	groups, err := dir.OwnedGroups(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceGroup, ActionRemoveGroupOwner, "group", err)
		return
	}

	for _, g := range groups {
		if ctx.Err() != nil {
			return
		}

		count, err := dir.GroupOwnerCount(ctx, g.ID)
		if err != nil {
			run.AppendFailure(ResourceGroup, ActionRemoveGroupOwner, g.DisplayName, g.ID, "group", err)
			continue
		}
		if count <= 1 {
			run.Append(RemovalResult{
				ResourceName: g.DisplayName,
				ResourceType: ResourceGroup,
				ResourceID:   g.ID,
				Action:       ActionRemoveGroupOwner,
				Status:       StatusSkipped(SkipReasonLastOwner),
			})
			continue
		}
		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: g.DisplayName,
				ResourceType: ResourceGroup,
				ResourceID:   g.ID,
				Action:       ActionRemoveGroupOwner,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := dir.RemoveGroupOwner(ctx, g.ID, run.Principal.ID); err != nil {
			run.AppendFailure(ResourceGroup, ActionRemoveGroupOwner, g.DisplayName, g.ID, "group", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: g.DisplayName,
			ResourceType: ResourceGroup,
			ResourceID:   g.ID,
			Action:       ActionRemoveGroupOwner,
			Status:       StatusSuccess,
		})
	}
}
