package entitlements

import (
	"context"
	"log/slog"
	"time"

	"github.com/graphtools/graphtools/pkg/graph"
)

// DirectoryPrincipal identifies the user being offboarded. It is resolved
// once per UPN and never refetched during a run.
type DirectoryPrincipal struct {
	ID                string
	UserPrincipalName string
	DisplayName       string
}

// ResourceType tags a RemovalResult row with the kind of entitlement it
// describes.
type ResourceType string

const (
	ResourceGroup                   ResourceType = "Group"
	ResourceLicense                 ResourceType = "License"
	ResourceServicePrincipal        ResourceType = "ServicePrincipal"
	ResourceEnterpriseApplication   ResourceType = "EnterpriseApplication"
	ResourceAppRegistration         ResourceType = "AppRegistration"
	ResourceUserAppRoleAssignment   ResourceType = "UserAppRoleAssignment"
	ResourceDirectoryRole           ResourceType = "DirectoryRole"
	ResourceAdministrativeUnit      ResourceType = "AdministrativeUnit"
	ResourceAccessPackageAssignment ResourceType = "AccessPackageAssignment"
	ResourceOAuth2PermissionGrant   ResourceType = "OAuth2PermissionGrant"
	ResourcePIMRoleEligibility      ResourceType = "PIMRoleEligibility"
	ResourceUser                    ResourceType = "User"
)

// Action names the specific removal operation attempted for a row.
type Action string

const (
	ActionUserRetrieval                  Action = "UserRetrieval"
	ActionRemoveGroupMember              Action = "RemoveGroupMember"
	ActionRemoveGroupOwner               Action = "RemoveGroupOwner"
	ActionRemoveLicenses                 Action = "RemoveLicenses"
	ActionRemoveServicePrincipalOwner    Action = "RemoveServicePrincipalOwner"
	ActionRemoveApplicationOwner         Action = "RemoveApplicationOwner"
	ActionRemoveAppRoleAssignment        Action = "RemoveAppRoleAssignment"
	ActionRemoveDirectoryRoleAssignment  Action = "RemoveDirectoryRoleAssignment"
	ActionRemoveAdministrativeUnitMember Action = "RemoveAdministrativeUnitMember"
	ActionRemoveAccessPackageAssignment  Action = "RemoveAccessPackageAssignment"
	ActionRemoveOAuth2PermissionGrant    Action = "RemoveOAuth2PermissionGrant"
	ActionRemoveRoleEligibilitySchedule  Action = "RemoveRoleEligibilitySchedule"
	ActionRemoveRoleAssignmentSchedule   Action = "RemoveRoleAssignmentSchedule"
)

// Status values. Failed and Skipped carry a reason suffix so the column is
// self-describing in CSV exports.
const (
	StatusSuccess = "Success"
	StatusDryRun  = "DryRun"
)

const SkipReasonLastOwner = "Last owner"

func StatusFailed(reason string) string {
	return "Failed: " + reason
}

func StatusSkipped(reason string) string {
	return "Skipped: " + reason
}

// RemovalResult is one row of run output: exactly one per attempted removal,
// or one summarizing a failed enumeration of a whole resource kind. Rows are
// append-only and never mutated after creation.
type RemovalResult struct {
	UPN          string       `json:"upn" yaml:"upn"`
	UserID       string       `json:"userId" yaml:"userId"`
	Timestamp    time.Time    `json:"timestamp" yaml:"timestamp"`
	ResourceName string       `json:"resourceName" yaml:"resourceName"`
	ResourceType ResourceType `json:"resourceType" yaml:"resourceType"`
	ResourceID   string       `json:"resourceId" yaml:"resourceId"`
	Action       Action       `json:"action" yaml:"action"`
	Status       string       `json:"status" yaml:"status"`
}

// Header implements the tabular record contract for CSV export.
func (RemovalResult) Header() []string {
	return []string{"UPN", "UserId", "Timestamp", "ResourceName", "ResourceType", "ResourceId", "Action", "Status"}
}

// Record implements the tabular record contract for CSV export.
func (r RemovalResult) Record() []string {
	return []string{
		r.UPN,
		r.UserID,
		r.Timestamp.Format(time.RFC3339),
		r.ResourceName,
		string(r.ResourceType),
		r.ResourceID,
		string(r.Action),
		r.Status,
	}
}

// Run carries the per-principal state shared by every remover: the resolved
// principal, the dry-run switch, and the append-only result buffer. UPN,
// UserID and Timestamp are stamped on every appended row.
type Run struct {
	Principal DirectoryPrincipal
	DryRun    bool
	Log       *slog.Logger

	now     func() time.Time
	results []RemovalResult
}

func NewRun(principal DirectoryPrincipal, dryRun bool, log *slog.Logger) *Run {
	if log == nil {
		log = slog.Default()
	}
	return &Run{
		Principal: principal,
		DryRun:    dryRun,
		Log:       log,
		now:       time.Now,
	}
}

// Append stamps the shared output base onto the row and records it.
func (r *Run) Append(res RemovalResult) {
	res.UPN = r.Principal.UserPrincipalName
	res.UserID = r.Principal.ID
	res.Timestamp = r.now()
	r.results = append(r.results, res)
}

// AppendFailure classifies err, logs the raw message at the classified level,
// and appends a Failed row carrying only the sanitized reason.
func (r *Run) AppendFailure(rt ResourceType, action Action, name, id, label string, err error) {
	d := graph.Classify(err, label)
	r.Log.Log(context.Background(), d.Level, "removal failed",
		"action", string(action),
		"resource_id", id,
		"status", d.HTTPStatus,
		"error", d.ErrorMessage)
	r.Append(RemovalResult{
		ResourceName: name,
		ResourceType: rt,
		ResourceID:   id,
		Action:       action,
		Status:       StatusFailed(d.Reason),
	})
}

// AppendEnumerationFailure records the single summary row emitted when
// listing a whole resource kind fails. ResourceID stays empty: there is no
// individual resource to blame.
func (r *Run) AppendEnumerationFailure(rt ResourceType, action Action, label string, err error) {
	d := graph.Classify(err, label)
	r.Log.Log(context.Background(), d.Level, "enumeration failed",
		"resource_type", string(rt),
		"status", d.HTTPStatus,
		"error", d.ErrorMessage)
	r.Append(RemovalResult{
		ResourceType: rt,
		Action:       action,
		Status:       StatusFailed(d.Reason),
	})
}

// Results returns the accumulated rows in append order.
func (r *Run) Results() []RemovalResult {
	return r.results
}
