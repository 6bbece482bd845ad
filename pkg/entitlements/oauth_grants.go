package entitlements

import (
	"context"
	"fmt"
)

// OAuth2GrantRemover revokes delegated permission grants where the principal
// is the consenting user. The owning client is resolved to a display name so
// the result rows read well; resolution failure falls back to an App-<id>
// placeholder rather than blocking the removal.
type OAuth2GrantRemover struct{}

func (OAuth2GrantRemover) Name() string { return "oauth2-grants" }

func (OAuth2GrantRemover) Scopes() []string {
	return []string{ScopeDelegatedPermissionGrantReadWriteAll}
}

func (OAuth2GrantRemover) Remove(ctx context.Context, dir Directory, run *Run) {
	grants, err := dir.OAuth2PermissionGrants(ctx, run.Principal.ID)
	if err != nil {
		run.AppendEnumerationFailure(ResourceOAuth2PermissionGrant, ActionRemoveOAuth2PermissionGrant, "permission grant", err)
		return
	}

	for _, g := range grants {
		if ctx.Err() != nil {
			return
		}
		name, err := dir.ServicePrincipalDisplayName(ctx, g.ClientID)
		if err != nil || name == "" {
			name = fmt.Sprintf("App-%s", g.ClientID)
		}
		if g.Scope != "" {
			name = fmt.Sprintf("%s (%s)", name, g.Scope)
		}

		if run.DryRun {
			run.Append(RemovalResult{
				ResourceName: name,
				ResourceType: ResourceOAuth2PermissionGrant,
				ResourceID:   g.ID,
				Action:       ActionRemoveOAuth2PermissionGrant,
				Status:       StatusDryRun,
			})
			continue
		}
		if err := dir.RemoveOAuth2PermissionGrant(ctx, g.ID); err != nil {
			run.AppendFailure(ResourceOAuth2PermissionGrant, ActionRemoveOAuth2PermissionGrant, name, g.ID, "permission grant", err)
			continue
		}
		run.Append(RemovalResult{
			ResourceName: name,
			ResourceType: ResourceOAuth2PermissionGrant,
			ResourceID:   g.ID,
			Action:       ActionRemoveOAuth2PermissionGrant,
			Status:       StatusSuccess,
		})
	}
}
