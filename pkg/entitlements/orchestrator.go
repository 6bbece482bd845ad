package entitlements

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/graphtools/graphtools/pkg/graph"
)

// ErrNothingSelected is returned when no remover flag (and not --all) is set.
var ErrNothingSelected = errors.New("no entitlement kinds selected for removal")

var upnRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// InvalidUPNError reports a user identifier that is not an email-style
// principal name. Client-side validation failure, so the offending value is
// surfaced verbatim.
type InvalidUPNError struct {
	Value string
}

func (e *InvalidUPNError) Error() string {
	return fmt.Sprintf("invalid user principal name: %q", e.Value)
}

// ScopeChecker is the precondition gate; satisfied by *graph.Gate.
type ScopeChecker interface {
	EnsureWithReconnect(ctx context.Context, required []string, reconnect bool) error
}

// Options selects which removers run and how.
type Options struct {
	GroupMemberships    bool
	GroupOwnerships     bool
	Licenses            bool
	OwnedObjects        bool
	AppRoleAssignments  bool
	DirectoryRoles      bool
	AdministrativeUnits bool
	AccessPackages      bool
	OAuth2Grants        bool
	PIMRoles            bool
	All                 bool

	DryRun    bool
	Reconnect bool
	// Workers > 1 enables bounded fan-out across UPNs. Result ordering per
	// UPN is preserved: each UPN gets its own buffer, merged in input order.
	Workers int
}

// selected returns the removers to run, in the fixed dispatch order:
// memberships first, then ownerships, licenses, owned objects, app roles,
// directory roles, administrative units, access packages, OAuth2 grants, and
// PIM last. Role assignments are stripped before administrative-unit scoping
// is removed; no remover depends on another's success.
func (o Options) selected() []Remover {
	var removers []Remover
	add := func(enabled bool, r Remover) {
		if enabled || o.All {
			removers = append(removers, r)
		}
	}
	add(o.GroupMemberships, GroupMembershipRemover{})
	add(o.GroupOwnerships, GroupOwnershipRemover{})
	add(o.Licenses, LicenseRemover{})
	add(o.OwnedObjects, OwnedObjectRemover{})
	add(o.AppRoleAssignments, AppRoleAssignmentRemover{})
	add(o.DirectoryRoles, DirectoryRoleRemover{})
	add(o.AdministrativeUnits, AdministrativeUnitRemover{})
	add(o.AccessPackages, AccessPackageRemover{})
	add(o.OAuth2Grants, OAuth2GrantRemover{})
	add(o.PIMRoles, PIMRoleRemover{})
	return removers
}

// Orchestrator fans a set of UPNs out across the selected removers and
// aggregates every RemovalResult row.
type Orchestrator struct {
	dir    Directory
	scopes ScopeChecker
	log    *slog.Logger
	now    func() time.Time
}

func NewOrchestrator(dir Directory, scopes ScopeChecker, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{dir: dir, scopes: scopes, log: log, now: time.Now}
}

// Run processes each UPN in order. The scope precondition and UPN-format
// checks are the only paths that return an error; past them, every failure
// becomes a result row and the full aggregate is always returned.
func (o *Orchestrator) Run(ctx context.Context, upns []string, opts Options) ([]RemovalResult, error) {
	removers := opts.selected()
	if len(removers) == 0 {
		return nil, ErrNothingSelected
	}

	for _, upn := range upns {
		if !upnRe.MatchString(upn) {
			return nil, &InvalidUPNError{Value: upn}
		}
	}

	required := []string{ScopeUserReadAll}
	for _, r := range removers {
		required = append(required, r.Scopes()...)
	}
	if o.scopes != nil {
		if err := o.scopes.EnsureWithReconnect(ctx, required, opts.Reconnect); err != nil {
			return nil, fmt.Errorf("scope precondition failed: %w", err)
		}
	}

	if opts.Workers > 1 {
		return o.runParallel(ctx, upns, removers, opts)
	}

	var results []RemovalResult
	for _, upn := range upns {
		if ctx.Err() != nil {
			break
		}
		results = append(results, o.processUPN(ctx, upn, removers, opts)...)
	}
	return results, nil
}

func (o *Orchestrator) runParallel(ctx context.Context, upns []string, removers []Remover, opts Options) ([]RemovalResult, error) {
	buffers := make([][]RemovalResult, len(upns))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i, upn := range upns {
		i, upn := i, upn
		eg.Go(func() error {
			buffers[i] = o.processUPN(egCtx, upn, removers, opts)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = eg.Wait()

	var results []RemovalResult
	for _, buf := range buffers {
		results = append(results, buf...)
	}
	return results, nil
}

func (o *Orchestrator) processUPN(ctx context.Context, upn string, removers []Remover, opts Options) []RemovalResult {
	o.log.Info("processing user", "upn", upn, "dry_run", opts.DryRun)

	principal, err := o.dir.ResolveUser(ctx, upn)
	if err != nil {
		d := graph.Classify(err, "user")
		o.log.Log(ctx, d.Level, "user lookup failed", "upn", upn, "status", d.HTTPStatus, "error", d.ErrorMessage)
		return []RemovalResult{{
			UPN:          upn,
			Timestamp:    o.now(),
			ResourceName: upn,
			ResourceType: ResourceUser,
			Action:       ActionUserRetrieval,
			Status:       StatusFailed(d.Reason),
		}}
	}

	run := NewRun(*principal, opts.DryRun, o.log)
	run.now = o.now
	for _, r := range removers {
		if ctx.Err() != nil {
			break
		}
		o.log.Debug("dispatching remover", "remover", r.Name(), "upn", upn)
		r.Remove(ctx, o.dir, run)
	}

	o.log.Info("finished user", "upn", upn, "rows", len(run.Results()))
	return run.Results()
}
