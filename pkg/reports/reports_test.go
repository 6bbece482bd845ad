package reports

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLegacyClientApp(t *testing.T) {
	tests := []struct {
		clientApp string
		legacy    bool
	}{
		{"Browser", false},
		{"Mobile Apps and Desktop clients", false},
		{"mobile apps and desktop clients", false},
		{"", false},
		{"Exchange ActiveSync", true},
		{"IMAP4", true},
		{"POP3", true},
		{"SMTP", true},
		{"Other clients", true},
		{"Authenticated SMTP", true},
	}
	for _, tc := range tests {
		t.Run(tc.clientApp, func(t *testing.T) {
			assert.Equal(t, tc.legacy, IsLegacyClientApp(tc.clientApp))
		})
	}
}

func caPolicy(name string, state models.ConditionalAccessPolicyState) *models.ConditionalAccessPolicy {
	p := models.NewConditionalAccessPolicy()
	p.SetDisplayName(&name)
	p.SetState(&state)
	return p
}

func withMFAGrant(p *models.ConditionalAccessPolicy) *models.ConditionalAccessPolicy {
	grants := models.NewConditionalAccessGrantControls()
	grants.SetBuiltInControls([]models.ConditionalAccessGrantControl{models.MFA_CONDITIONALACCESSGRANTCONTROL})
	p.SetGrantControls(grants)
	return p
}

func withExcludedUsers(p *models.ConditionalAccessPolicy, userIDs []string) *models.ConditionalAccessPolicy {
	users := models.NewConditionalAccessUsers()
	users.SetExcludeUsers(userIDs)
	conditions := models.NewConditionalAccessConditionSet()
	conditions.SetUsers(users)
	p.SetConditions(conditions)
	return p
}

func TestEvaluatePoliciesFlagsDisabledAndReportOnly(t *testing.T) {
	policies := []models.ConditionalAccessPolicyable{
		caPolicy("Block legacy auth", models.DISABLED_CONDITIONALACCESSPOLICYSTATE),
		caPolicy("Require MFA pilot", models.ENABLEDFORREPORTINGBUTNOTENFORCED_CONDITIONALACCESSPOLICYSTATE),
		withMFAGrant(caPolicy("Require MFA", models.ENABLED_CONDITIONALACCESSPOLICYSTATE)),
	}

	rows := EvaluatePolicies(policies)
	require.Len(t, rows, 2)

	first := rows[0].(CAGapRow)
	assert.Equal(t, "Block legacy auth", first.PolicyName)
	assert.Equal(t, "PolicyDisabled", first.Finding)

	second := rows[1].(CAGapRow)
	assert.Equal(t, "Require MFA pilot", second.PolicyName)
	assert.Equal(t, "ReportOnly", second.Finding)
}

func TestEvaluatePoliciesReportsUserExclusions(t *testing.T) {
	policies := []models.ConditionalAccessPolicyable{
		withExcludedUsers(
			withMFAGrant(caPolicy("Require MFA", models.ENABLED_CONDITIONALACCESSPOLICYSTATE)),
			[]string{uuid.NewString(), uuid.NewString()},
		),
	}

	rows := EvaluatePolicies(policies)
	require.Len(t, rows, 1)

	row := rows[0].(CAGapRow)
	assert.Equal(t, "UsersExcluded", row.Finding)
	assert.Contains(t, row.Detail, "2 users")
}

func TestEvaluatePoliciesDetectsMissingMFAEnforcement(t *testing.T) {
	t.Run("no policies at all", func(t *testing.T) {
		rows := EvaluatePolicies(nil)
		require.Len(t, rows, 1)
		assert.Equal(t, "NoMFAEnforcement", rows[0].(CAGapRow).Finding)
		assert.Equal(t, "(tenant)", rows[0].(CAGapRow).PolicyName)
	})

	t.Run("MFA policy exists but report-only", func(t *testing.T) {
		rows := EvaluatePolicies([]models.ConditionalAccessPolicyable{
			withMFAGrant(caPolicy("Require MFA", models.ENABLEDFORREPORTINGBUTNOTENFORCED_CONDITIONALACCESSPOLICYSTATE)),
		})

		var names []string
		for _, r := range rows {
			names = append(names, r.(CAGapRow).Finding)
		}
		assert.Contains(t, names, "ReportOnly")
		assert.Contains(t, names, "NoMFAEnforcement")
	})

	t.Run("enabled MFA policy silences the tenant finding", func(t *testing.T) {
		rows := EvaluatePolicies([]models.ConditionalAccessPolicyable{
			withMFAGrant(caPolicy("Require MFA", models.ENABLED_CONDITIONALACCESSPOLICYSTATE)),
		})
		assert.Empty(t, rows)
	})
}

func TestSecretsReportWindow(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	r := &SecretsReport{WithinDays: 30, now: func() time.Time { return now }}
	keyID := uuid.New()

	t.Run("credential inside the window is reported", func(t *testing.T) {
		end := now.AddDate(0, 0, 10)
		row, ok := r.rowFor("app-1", "Payroll Sync", "Password", &keyID, &end)
		require.True(t, ok)
		assert.Equal(t, 10, row.DaysRemaining)
		assert.Equal(t, keyID.String(), row.KeyID)
	})

	t.Run("already expired credential is reported with negative days", func(t *testing.T) {
		end := now.AddDate(0, 0, -5)
		row, ok := r.rowFor("app-1", "Payroll Sync", "Certificate", &keyID, &end)
		require.True(t, ok)
		assert.Equal(t, -5, row.DaysRemaining)
	})

	t.Run("credential beyond the window is dropped", func(t *testing.T) {
		end := now.AddDate(0, 0, 90)
		_, ok := r.rowFor("app-1", "Payroll Sync", "Password", &keyID, &end)
		assert.False(t, ok)
	})

	t.Run("credential without an end date is dropped", func(t *testing.T) {
		_, ok := r.rowFor("app-1", "Payroll Sync", "Password", &keyID, nil)
		assert.False(t, ok)
	})
}

func TestInactiveReportCutoff(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	r := &InactiveReport{Days: 90, now: func() time.Time { return now }}
	assert.Equal(t, now.AddDate(0, 0, -90), r.cutoff())

	defaulted := &InactiveReport{now: func() time.Time { return now }}
	assert.Equal(t, now.AddDate(0, 0, -90), defaulted.cutoff())
}

func TestAuditReportClientSideFilters(t *testing.T) {
	r := &AuditReport{Category: "UserManagement", Initiator: "admin@contoso.com"}

	assert.True(t, r.matches(AuditRow{Category: "usermanagement", InitiatedBy: "Admin@contoso.com"}))
	assert.False(t, r.matches(AuditRow{Category: "GroupManagement", InitiatedBy: "admin@contoso.com"}))
	assert.False(t, r.matches(AuditRow{Category: "UserManagement", InitiatedBy: "other@contoso.com"}))

	open := &AuditReport{}
	assert.True(t, open.matches(AuditRow{Category: "anything", InitiatedBy: "anyone"}))
}

func TestRowRecordsMatchHeaders(t *testing.T) {
	rows := []interface {
		Header() []string
		Record() []string
	}{
		OrphanRow{},
		SecretRow{},
		InactiveRow{},
		MFARow{},
		LicenseRow{},
		LegacyAuthRow{},
		PIMRow{},
		CAGapRow{},
		AuditRow{},
	}
	for _, row := range rows {
		assert.Equal(t, len(row.Header()), len(row.Record()))
	}
}
