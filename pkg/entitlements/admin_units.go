package entitlements

import "context"

// AdministrativeUnitRemover strips the principal from administrative units
// it is a direct member of.
type AdministrativeUnitRemover struct{}

func (AdministrativeUnitRemover) Name() string { return "administrative-units" }

func (AdministrativeUnitRemover) Scopes() []string {
	return []string{ScopeAdministrativeUnitReadWriteAll}
}

func (AdministrativeUnitRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	units, err := dir.AdministrativeUnits(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceAdministrativeUnit, ActionRemoveAdministrativeUnitMember, "administrative unit", err)
		return
	}

	for _, u := range units {
		if ctx.Err() != nil {
			return
		}
		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: u.DisplayName,
				ResourceType: ResourceAdministrativeUnit,
				ResourceID:   u.ID,
				Action:       ActionRemoveAdministrativeUnitMember,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := dir.RemoveAdministrativeUnitMember(ctx, u.ID, run.Principal.ID); err != nil {
			run.AppendFailure(ResourceAdministrativeUnit, ActionRemoveAdministrativeUnitMember, u.DisplayName, u.ID, "administrative unit", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: u.DisplayName,
			ResourceType: ResourceAdministrativeUnit,
			ResourceID:   u.ID,
			Action:       ActionRemoveAdministrativeUnitMember,
			Status:       StatusSuccess,
		})
	}
}
