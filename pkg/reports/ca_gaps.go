package reports

import (
	"context"
	"fmt"

	"github.com/microsoftgraph/msgraph-sdk-go/models"

	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/graph"
)

// CAGapRow is one conditional access finding.
type CAGapRow struct {
	PolicyName string `json:"policyName" yaml:"policyName"`
	State      string `json:"state" yaml:"state"`
	Finding    string `json:"finding" yaml:"finding"`
	Detail     string `json:"detail" yaml:"detail"`
}

func (r CAGapRow) Header() []string {
	return []string{"PolicyName", "State", "Finding", "Detail"}
}

func (r CAGapRow) Record() []string {
	return []string{r.PolicyName, r.State, r.Finding, r.Detail}
}

// CAGapsReport analyzes conditional access policies for common enforcement
// gaps: disabled and report-only policies, user and application exclusions,
// and the absence of any enabled MFA requirement.
type CAGapsReport struct{}

func (r *CAGapsReport) Name() string { return "ca-gaps" }

func (r *CAGapsReport) Scopes() []string {
	return []string{ScopePolicyReadAll}
}

func (r *CAGapsReport) Collect(ctx context.Context, gc *graph.Client) ([]outputproviders.TabularRecord, error) {
	callCtx, cancel := gc.CallContext(ctx)
	defer cancel()

	result, err := gc.Graph.Identity().ConditionalAccess().Policies().Get(callCtx, nil)
	if err != nil {
		return nil, err
	}
	return EvaluatePolicies(result.GetValue()), nil
}

// EvaluatePolicies produces the gap findings for a set of conditional access
// policies. Pure projection, no Graph calls.
func EvaluatePolicies(policies []models.ConditionalAccessPolicyable) []outputproviders.TabularRecord {
	var rows []outputproviders.TabularRecord
	mfaEnforced := false

	for _, p := range policies {
		name := graph.StringValue(p.GetDisplayName())
		state := policyState(p)

		switch state {
		case "disabled":
			rows = append(rows, CAGapRow{
				PolicyName: name,
				State:      state,
				Finding:    "PolicyDisabled",
				Detail:     "policy exists but is not applied",
			})
			continue
		case "enabledForReportingButNotEnforced":
			rows = append(rows, CAGapRow{
				PolicyName: name,
				State:      state,
				Finding:    "ReportOnly",
				Detail:     "policy logs matches but does not enforce controls",
			})
		}

		if excluded := excludedUsers(p); excluded > 0 {
			rows = append(rows, CAGapRow{
				PolicyName: name,
				State:      state,
				Finding:    "UsersExcluded",
				Detail:     fmt.Sprintf("%d users or groups excluded", excluded),
			})
		}
		if excluded := excludedApplications(p); excluded > 0 {
			rows = append(rows, CAGapRow{
				PolicyName: name,
				State:      state,
				Finding:    "ApplicationsExcluded",
				Detail:     fmt.Sprintf("%d applications excluded", excluded),
			})
		}

		if state == "enabled" && requiresMFA(p) {
			mfaEnforced = true
		}
	}

	if !mfaEnforced {
		rows = append(rows, CAGapRow{
			PolicyName: "(tenant)",
			State:      "",
			Finding:    "NoMFAEnforcement",
			Detail:     "no enabled policy requires multifactor authentication",
		})
	}
	return rows
}

func policyState(p models.ConditionalAccessPolicyable) string {
	if state := p.GetState(); state != nil {
		return state.String()
	}
	return ""
}

func excludedUsers(p models.ConditionalAccessPolicyable) int {
	conditions := p.GetConditions()
	if conditions == nil || conditions.GetUsers() == nil {
		return 0
	}
	users := conditions.GetUsers()
	return len(users.GetExcludeUsers()) + len(users.GetExcludeGroups()) + len(users.GetExcludeRoles())
}

func excludedApplications(p models.ConditionalAccessPolicyable) int {
	conditions := p.GetConditions()
	if conditions == nil || conditions.GetApplications() == nil {
		return 0
	}
	return len(conditions.GetApplications().GetExcludeApplications())
}

func requiresMFA(p models.ConditionalAccessPolicyable) bool {
	grants := p.GetGrantControls()
	if grants == nil {
		return false
	}
	for _, control := range grants.GetBuiltInControls() {
		if control == models.MFA_CONDITIONALACCESSGRANTCONTROL {
			return true
		}
	}
	return false
}
