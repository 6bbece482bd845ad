package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphtools/graphtools/internal/logs"
	"github.com/graphtools/graphtools/internal/message"
	outputproviders "github.com/graphtools/graphtools/internal/output_providers"
	"github.com/graphtools/graphtools/pkg/entitlements"
	graphdir "github.com/graphtools/graphtools/pkg/graph/directory"
)

var offboardOpts entitlements.Options

var offboardUsers []string

var offboardCmd = &cobra.Command{
	Use:   "offboard",
	Short: "Remove a user's entitlements across the tenant",
	Long: `Offboard resolves each target user and strips the selected entitlement
kinds: group memberships and ownerships, licenses, owned applications and
service principals, app role assignments, directory roles, administrative
units, access packages, OAuth2 permission grants, and PIM role schedules.

Every attempted removal produces one result row. Use --dry-run to see what
would be removed without changing anything.`,
	Example: `  graphtools entra offboard --users mallory@contoso.com --all --dry-run
  graphtools entra offboard --users a@contoso.com,b@contoso.com --group-memberships --licenses
  graphtools entra offboard --users mallory@contoso.com --all --workers 4 -o ./out -f csv`,
	RunE: runOffboard,
}

func init() {
	entraCmd.AddCommand(offboardCmd)

	offboardCmd.Flags().StringSliceVar(&offboardUsers, "users", nil, "target user principal names (comma separated or repeated)")
	offboardCmd.MarkFlagRequired("users")

	offboardCmd.Flags().BoolVar(&offboardOpts.GroupMemberships, "group-memberships", false, "remove group memberships (dynamic groups excluded)")
	offboardCmd.Flags().BoolVar(&offboardOpts.GroupOwnerships, "group-ownerships", false, "remove group ownerships (last owner is kept)")
	offboardCmd.Flags().BoolVar(&offboardOpts.Licenses, "licenses", false, "remove assigned licenses")
	offboardCmd.Flags().BoolVar(&offboardOpts.OwnedObjects, "owned-objects", false, "remove application and service principal ownerships")
	offboardCmd.Flags().BoolVar(&offboardOpts.AppRoleAssignments, "app-roles", false, "remove app role assignments")
	offboardCmd.Flags().BoolVar(&offboardOpts.DirectoryRoles, "directory-roles", false, "remove directory role assignments")
	offboardCmd.Flags().BoolVar(&offboardOpts.AdministrativeUnits, "admin-units", false, "remove administrative unit memberships")
	offboardCmd.Flags().BoolVar(&offboardOpts.AccessPackages, "access-packages", false, "remove delivered access package assignments")
	offboardCmd.Flags().BoolVar(&offboardOpts.OAuth2Grants, "oauth2-grants", false, "revoke OAuth2 permission grants")
	offboardCmd.Flags().BoolVar(&offboardOpts.PIMRoles, "pim", false, "remove PIM role eligibility and assignment schedules")
	offboardCmd.Flags().BoolVar(&offboardOpts.All, "all", false, "remove every entitlement kind")

	offboardCmd.Flags().BoolVar(&offboardOpts.DryRun, "dry-run", false, "enumerate and report without removing anything")
	offboardCmd.Flags().BoolVar(&offboardOpts.Reconnect, "reconnect", false, "re-acquire the token with additional delegated scopes when missing")
	offboardCmd.Flags().IntVar(&offboardOpts.Workers, "workers", 1, "number of users processed concurrently")
}

func runOffboard(cmd *cobra.Command, args []string) error {
	gc, err := newGraphClient()
	if err != nil {
		return err
	}
	if err := gc.VerifyConnection(cmd.Context()); err != nil {
		return err
	}

	if offboardOpts.DryRun {
		message.Warning("dry run: no changes will be made")
	}
	message.Info("offboarding %d user(s): %s", len(offboardUsers), strings.Join(offboardUsers, ", "))

	// Raw Graph error text goes to the file log; the console only ever sees
	// classified reasons.
	runLog, closer, logErr := logs.FileLogger()
	if logErr != nil {
		message.Warning("file log unavailable: %v", logErr)
		runLog = nil
	} else {
		defer closer.Close()
	}

	orchestrator := entitlements.NewOrchestrator(graphdir.New(gc), gc.Gate, runLog)
	results, err := orchestrator.Run(cmd.Context(), offboardUsers, offboardOpts)
	if err != nil {
		return err
	}

	rows := make([]outputproviders.TabularRecord, 0, len(results))
	failed := 0
	for _, res := range results {
		if strings.HasPrefix(res.Status, "Failed") {
			failed++
		}
		rows = append(rows, res)
	}

	if err := writeResults("offboard", rows); err != nil {
		return err
	}
	if failed > 0 {
		message.Warning("%d of %d operations failed", failed, len(results))
		return fmt.Errorf("offboarding finished with %d failed operation(s)", failed)
	}
	message.Success("offboarding complete: %d operation(s)", len(results))
	return nil
}
