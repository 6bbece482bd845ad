package entitlements

import "context"

// OwnedObjectRemover handles service-principal and app-registration
// ownerships together. Both come back from one ownedObjects query and are
// partitioned client-side by object type, saving a second enumeration call.
// The last-owner skip applies to each object independently.
type OwnedObjectRemover struct{}

func (OwnedObjectRemover) Name() string { return "owned-objects" }

func (OwnedObjectRemover) Scopes() []string {
	return []string{ScopeApplicationReadWriteAll}
}

func (OwnedObjectRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	objects, err := dir.OwnedObjects(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceServicePrincipal, ActionRemoveServicePrincipalOwner, "resource", err)
		return
	}

	for _, obj := range objects {
		if ctx.Err() != nil {
			return
		}
		switch obj.Kind {
		case OwnedServicePrincipal:
			removeOwnership(ctx, run, obj, ResourceEnterpriseApplication, ActionRemoveServicePrincipalOwner,
				dir.ServicePrincipalOwnerCount, dir.RemoveServicePrincipalOwner)
		case OwnedApplication:
			removeOwnership(ctx, run, obj, ResourceAppRegistration, ActionRemoveApplicationOwner,
				dir.ApplicationOwnerCount, dir.RemoveApplicationOwner)
		}
	}
}

func removeOwnership(
	ctx context.Context,
	run *Run,
	obj OwnedObject,
	rt ResourceType,
	action Action,
	ownerCount func(context.Context, string) (int, error),
	removeOwner func(context.Context, string, string) error,
) {
	label := "application"

	count, err := ownerCount(ctx, obj.ID)
	if err != nil {
		run.AppendFailure(rt, action, obj.DisplayName, obj.ID, label, err)
		return
	}
	if count <= 1 {
		run.Append(RemovalResult{
			ResourceName: obj.DisplayName,
			ResourceType: rt,
			ResourceID:   obj.ID,
			Action:       action,
			Status:       StatusSkipped(SkipReasonLastOwner),
		})
		return
	}
	if run.DryRun {
		run.Append(RemovalResult{
			ResourceName: obj.DisplayName,
			ResourceType: rt,
			ResourceID:   obj.ID,
			Action:       action,
			Status:       StatusDryRun,
		})
		return
	}
	if err := removeOwner(ctx, obj.ID, run.Principal.ID); err != nil {
		run.AppendFailure(rt, action, obj.DisplayName, obj.ID, label, err)
		return
	}
	run.Append(RemovalResult{
		ResourceName: obj.DisplayName,
		ResourceType: rt,
		ResourceID:   obj.ID,
		Action:       action,
		Status:       StatusSuccess,
	})
}
