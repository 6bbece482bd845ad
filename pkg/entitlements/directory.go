package entitlements

import "context"

// Graph permission scopes required by the removers. Compared
// case-insensitively by the scope gate.
const (
	ScopeUserReadAll                          = "User.Read.All"
	ScopeUserReadWriteAll                     = "User.ReadWrite.All"
	ScopeGroupReadWriteAll                    = "Group.ReadWrite.All"
	ScopeGroupMemberReadWriteAll              = "GroupMember.ReadWrite.All"
	ScopeApplicationReadWriteAll              = "Application.ReadWrite.All"
	ScopeAppRoleAssignmentReadWriteAll        = "AppRoleAssignment.ReadWrite.All"
	ScopeRoleManagementReadWriteDirectory     = "RoleManagement.ReadWrite.Directory"
	ScopeAdministrativeUnitReadWriteAll       = "AdministrativeUnit.ReadWrite.All"
	ScopeEntitlementManagementReadWriteAll    = "EntitlementManagement.ReadWrite.All"
	ScopeDelegatedPermissionGrantReadWriteAll = "DelegatedPermissionGrant.ReadWrite.All"
)

// Group is a group the principal belongs to or owns. Dynamic-membership
// groups cannot have members removed manually and are excluded from the
// membership candidate set.
type Group struct {
	ID          string
	DisplayName string
	Dynamic     bool
}

// License is one assigned SKU.
type License struct {
	SkuID         string
	SkuPartNumber string
}

// OwnedObjectKind partitions the single ownedObjects query client-side.
type OwnedObjectKind string

const (
	OwnedServicePrincipal OwnedObjectKind = "servicePrincipal"
	OwnedApplication      OwnedObjectKind = "application"
)

// OwnedObject is a service principal or app registration the principal owns.
type OwnedObject struct {
	ID          string
	AppID       string
	DisplayName string
	Kind        OwnedObjectKind
}

// AppRoleAssignment is a role the principal holds on a resource service
// principal.
type AppRoleAssignment struct {
	ID                  string
	ResourceID          string
	ResourceDisplayName string
}

// RoleAssignment is a direct (non-PIM) directory role assignment.
type RoleAssignment struct {
	ID               string
	RoleDefinitionID string
	RoleDisplayName  string
	DirectoryScopeID string
}

// AdministrativeUnit is an administrative unit the principal is a member of.
type AdministrativeUnit struct {
	ID          string
	DisplayName string
}

// AccessPackageAssignment is a delivered entitlement-management assignment.
type AccessPackageAssignment struct {
	ID                string
	AccessPackageName string
}

// PermissionGrant is a delegated OAuth2 permission grant where the principal
// is the consenting user.
type PermissionGrant struct {
	ID       string
	ClientID string
	Scope    string
}

// RoleSchedule is a PIM role eligibility or active assignment schedule.
type RoleSchedule struct {
	ID               string
	RoleDefinitionID string
	RoleDisplayName  string
	DirectoryScopeID string
}

// Directory is the Graph surface the removers consume. The production
// implementation lives in pkg/graph/directory; tests substitute fakes.
type Directory interface {
	// ResolveUser looks up the directory object for an email-style UPN.
	ResolveUser(ctx context.Context, upn string) (*DirectoryPrincipal, error)

	TransitiveGroups(ctx context.Context, userID string) ([]Group, error)
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	OwnedGroups(ctx context.Context, userID string) ([]Group, error)
	GroupOwnerCount(ctx context.Context, groupID string) (int, error)
	RemoveGroupOwner(ctx context.Context, groupID, userID string) error

	AssignedLicenses(ctx context.Context, userID string) ([]License, error)
	// RemoveLicenses strips the listed SKUs in one batch call.
	RemoveLicenses(ctx context.Context, userID string, skuIDs []string) error

	OwnedObjects(ctx context.Context, userID string) ([]OwnedObject, error)
	ServicePrincipalOwnerCount(ctx context.Context, spID string) (int, error)
	RemoveServicePrincipalOwner(ctx context.Context, spID, userID string) error
	ApplicationOwnerCount(ctx context.Context, appID string) (int, error)
	RemoveApplicationOwner(ctx context.Context, appID, userID string) error

	AppRoleAssignments(ctx context.Context, userID string) ([]AppRoleAssignment, error)
	RemoveAppRoleAssignment(ctx context.Context, userID, assignmentID string) error

	DirectoryRoleAssignments(ctx context.Context, userID string) ([]RoleAssignment, error)
	RemoveDirectoryRoleAssignment(ctx context.Context, assignmentID string) error

	AdministrativeUnits(ctx context.Context, userID string) ([]AdministrativeUnit, error)
	RemoveAdministrativeUnitMember(ctx context.Context, unitID, userID string) error

	AccessPackageAssignments(ctx context.Context, userID string) ([]AccessPackageAssignment, error)
	// RemoveAccessPackageAssignment files an adminRemove assignment request;
	// revocation completes asynchronously on the service side.
	RemoveAccessPackageAssignment(ctx context.Context, assignmentID string) error

	OAuth2PermissionGrants(ctx context.Context, userID string) ([]PermissionGrant, error)
	RemoveOAuth2PermissionGrant(ctx context.Context, grantID string) error
	// ServicePrincipalDisplayName resolves a client SP name for logging.
	// Best effort only; callers fall back to a placeholder.
	ServicePrincipalDisplayName(ctx context.Context, spID string) (string, error)

	RoleEligibilitySchedules(ctx context.Context, userID string) ([]RoleSchedule, error)
	RemoveRoleEligibility(ctx context.Context, userID string, schedule RoleSchedule, justification string) error
	RoleAssignmentSchedules(ctx context.Context, userID string) ([]RoleSchedule, error)
	RemoveRoleAssignment(ctx context.Context, userID string, schedule RoleSchedule, justification string) error
}

// Remover is one self-contained entitlement kind: enumerate the principal's
// grants, attempt each revocation, record one row per item.
type Remover interface {
	Name() string
	Scopes() []string
	Remove(ctx context.Context, dir Directory, run *Run)
}
