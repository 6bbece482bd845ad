package entitlements

import "context"

const pimJustification = "Security incident response: offboarding entitlement removal"

// PIMRoleRemover revokes both PIM role eligibility schedules and any
// currently active assignment schedules. Removing only one of the two leaves
// residual privilege: an eligible user can re-activate, and an active
// assignment outlives a deleted eligibility.
type PIMRoleRemover struct{}

func (PIMRoleRemover) Name() string { return "pim-roles" }

func (PIMRoleRemover) Scopes() []string {
	return []string{ScopeRoleManagementReadWriteDirectory}
}

func (PIMRoleRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	eligibilities, err := dir.RoleEligibilitySchedules(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourcePIMRoleEligibility, ActionRemoveRoleEligibilitySchedule, "role eligibility", err)
	} else {
		removeSchedules(ctx, dir, run, eligibilities, ActionRemoveRoleEligibilitySchedule, dir.RemoveRoleEligibility)
	}

	// Active assignments are enumerated separately: a failure listing
	// eligibilities must not stop active-assignment cleanup, and vice versa.
	actives, err := dir.RoleAssignmentSchedules(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourcePIMRoleEligibility, ActionRemoveRoleAssignmentSchedule, "role assignment", err)
		return
	}
	removeSchedules(ctx, dir, run, actives, ActionRemoveRoleAssignmentSchedule, dir.RemoveRoleAssignment)
}

func removeSchedules(
	ctx context.Context,
	dir Directory,
	run *Run,
	schedules []RoleSchedule,
	action Action,
	remove func(context.Context, string, RoleSchedule, string) error,
) {
	for _, s := range schedules {
		if ctx.Err() != nil {
			return
		}
		name := s.RoleDisplayName
		if name == "" {
			name = s.RoleDefinitionID
		}
		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: name,
				ResourceType: ResourcePIMRoleEligibility,
				ResourceID:   s.ID,
				Action:       action,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := remove(ctx, run.Principal.ID, s, pimJustification); err != nil {
			run.AppendFailure(ResourcePIMRoleEligibility, action, name, s.ID, "role", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: name,
			ResourceType: ResourcePIMRoleEligibility,
			ResourceID:   s.ID,
			Action:       action,
			Status:       StatusSuccess,
		})
	}
}
