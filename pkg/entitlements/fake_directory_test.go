package entitlements

import (
	"context"
	"errors"
	"fmt"
)

// fakeDirectory is the in-memory Directory used across the remover and
// orchestrator tests. Enumeration errors are injected per method name;
// every mutating call is counted so tests can assert that skip and dry-run
// paths never touch the directory.
type fakeDirectory struct {
	users map[string]DirectoryPrincipal

	transitiveGroups []Group
	ownedGroups      []Group
	groupOwners      map[string]int
	licenses         []License
	ownedObjects     []OwnedObject
	spOwners         map[string]int
	appOwners        map[string]int
	appRoles         []AppRoleAssignment
	dirRoles         []RoleAssignment
	adminUnits       []AdministrativeUnit
	accessPackages   []AccessPackageAssignment
	grants           []PermissionGrant
	spNames          map[string]string
	eligibilities    []RoleSchedule
	actives          []RoleSchedule

	enumErr map[string]error
	calls   map[string]int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:       map[string]DirectoryPrincipal{},
		groupOwners: map[string]int{},
		spOwners:    map[string]int{},
		appOwners:   map[string]int{},
		spNames:     map[string]string{},
		enumErr:     map[string]error{},
		calls:       map[string]int{},
	}
}

func (f *fakeDirectory) record(method string) {
	f.calls[method]++
}

func (f *fakeDirectory) failure(method string) error {
	return f.enumErr[method]
}

func (f *fakeDirectory) ResolveUser(_ context.Context, upn string) (*DirectoryPrincipal, error) {
	if err := f.failure("ResolveUser"); err != nil {
		return nil, err
	}
	p, ok := f.users[upn]
	if !ok {
		return nil, errors.New("404: resource not found")
	}
	return &p, nil
}

func (f *fakeDirectory) TransitiveGroups(_ context.Context, _ string) ([]Group, error) {
	return f.transitiveGroups, f.failure("TransitiveGroups")
}

func (f *fakeDirectory) RemoveGroupMember(_ context.Context, groupID, _ string) error {
	f.record("RemoveGroupMember")
	return f.enumErr["RemoveGroupMember:"+groupID]
}

func (f *fakeDirectory) OwnedGroups(_ context.Context, _ string) ([]Group, error) {
	return f.ownedGroups, f.failure("OwnedGroups")
}

func (f *fakeDirectory) GroupOwnerCount(_ context.Context, groupID string) (int, error) {
	if err := f.failure("GroupOwnerCount"); err != nil {
		return 0, err
	}
	count, ok := f.groupOwners[groupID]
	if !ok {
		return 0, fmt.Errorf("unknown group %s", groupID)
	}
	return count, nil
}

func (f *fakeDirectory) RemoveGroupOwner(_ context.Context, _, _ string) error {
	f.record("RemoveGroupOwner")
	return nil
}

func (f *fakeDirectory) AssignedLicenses(_ context.Context, _ string) ([]License, error) {
	return f.licenses, f.failure("AssignedLicenses")
}

func (f *fakeDirectory) RemoveLicenses(_ context.Context, _ string, _ []string) error {
	f.record("RemoveLicenses")
	return f.failure("RemoveLicenses")
}

func (f *fakeDirectory) OwnedObjects(_ context.Context, _ string) ([]OwnedObject, error) {
	return f.ownedObjects, f.failure("OwnedObjects")
}

func (f *fakeDirectory) ServicePrincipalOwnerCount(_ context.Context, spID string) (int, error) {
	return f.spOwners[spID], f.failure("ServicePrincipalOwnerCount")
}

func (f *fakeDirectory) RemoveServicePrincipalOwner(_ context.Context, _, _ string) error {
	f.record("RemoveServicePrincipalOwner")
	return nil
}

func (f *fakeDirectory) ApplicationOwnerCount(_ context.Context, appID string) (int, error) {
	return f.appOwners[appID], f.failure("ApplicationOwnerCount")
}

func (f *fakeDirectory) RemoveApplicationOwner(_ context.Context, _, _ string) error {
	f.record("RemoveApplicationOwner")
	return nil
}

func (f *fakeDirectory) AppRoleAssignments(_ context.Context, _ string) ([]AppRoleAssignment, error) {
	return f.appRoles, f.failure("AppRoleAssignments")
}

func (f *fakeDirectory) RemoveAppRoleAssignment(_ context.Context, _, _ string) error {
	f.record("RemoveAppRoleAssignment")
	return nil
}

func (f *fakeDirectory) DirectoryRoleAssignments(_ context.Context, _ string) ([]RoleAssignment, error) {
	return f.dirRoles, f.failure("DirectoryRoleAssignments")
}

func (f *fakeDirectory) RemoveDirectoryRoleAssignment(_ context.Context, _ string) error {
	f.record("RemoveDirectoryRoleAssignment")
	return nil
}

func (f *fakeDirectory) AdministrativeUnits(_ context.Context, _ string) ([]AdministrativeUnit, error) {
	return f.adminUnits, f.failure("AdministrativeUnits")
}

func (f *fakeDirectory) RemoveAdministrativeUnitMember(_ context.Context, _, _ string) error {
	f.record("RemoveAdministrativeUnitMember")
	return nil
}

func (f *fakeDirectory) AccessPackageAssignments(_ context.Context, _ string) ([]AccessPackageAssignment, error) {
	return f.accessPackages, f.failure("AccessPackageAssignments")
}

func (f *fakeDirectory) RemoveAccessPackageAssignment(_ context.Context, _ string) error {
	f.record("RemoveAccessPackageAssignment")
	return nil
}

func (f *fakeDirectory) OAuth2PermissionGrants(_ context.Context, _ string) ([]PermissionGrant, error) {
	return f.grants, f.failure("OAuth2PermissionGrants")
}

func (f *fakeDirectory) RemoveOAuth2PermissionGrant(_ context.Context, _ string) error {
	f.record("RemoveOAuth2PermissionGrant")
	return nil
}

func (f *fakeDirectory) ServicePrincipalDisplayName(_ context.Context, spID string) (string, error) {
	if err := f.failure("ServicePrincipalDisplayName"); err != nil {
		return "", err
	}
	return f.spNames[spID], nil
}

func (f *fakeDirectory) RoleEligibilitySchedules(_ context.Context, _ string) ([]RoleSchedule, error) {
	return f.eligibilities, f.failure("RoleEligibilitySchedules")
}

func (f *fakeDirectory) RemoveRoleEligibility(_ context.Context, _ string, _ RoleSchedule, _ string) error {
	f.record("RemoveRoleEligibility")
	return nil
}

func (f *fakeDirectory) RoleAssignmentSchedules(_ context.Context, _ string) ([]RoleSchedule, error) {
	return f.actives, f.failure("RoleAssignmentSchedules")
}

func (f *fakeDirectory) RemoveRoleAssignment(_ context.Context, _ string, _ RoleSchedule, _ string) error {
	f.record("RemoveRoleAssignment")
	return nil
}
