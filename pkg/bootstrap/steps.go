package bootstrap

import (
	"context"
	"fmt"

	"github.com/seefood/mooring/pkg/config"
	"github.com/seefood/mooring/pkg/probe"
	"github.com/seefood/mooring/pkg/staticfiles"
	"github.com/seefood/mooring/pkg/store"
)

// Step names, fixed by the sequence order:
// wait-database -> migrate -> collect-static -> seed-admin -> seed-demo.
// The final launch is not a Step: process replacement never returns, so
// the up command performs it after the sequence completes.
const (
	StepWaitDatabase  = "wait-database"
	StepMigrate       = "migrate"
	StepCollectStatic = "collect-static"
	StepSeedAdmin     = "seed-admin"
	StepSeedDemo      = "seed-demo"
)

// FromConfig builds the bootstrap sequence for the given configuration.
// Optional steps that are disabled in config are omitted entirely.
func FromConfig(cfg *config.Config) []Step {
	steps := []Step{
		NewWaitStep(cfg),
		NewMigrateStep(cfg.Database.DSN()),
	}
	if cfg.Static.Enabled {
		steps = append(steps, NewStaticStep(cfg.Static.SourceDirs, cfg.Static.Root))
	}
	steps = append(steps, NewAdminSeedStep(cfg))
	if cfg.Seed.Demo {
		steps = append(steps, NewDemoSeedStep(cfg))
	}
	return steps
}

// ----------------------------------------------------------------------
// wait-database
// ----------------------------------------------------------------------

type waitStep struct {
	waiter *probe.Waiter
	dsn    string

	// pingDB is swapped out in tests.
	pingDB func(ctx context.Context, dsn string) error
}

// NewWaitStep returns the database readiness step. It waits for the TCP
// endpoint first and then for Postgres to accept queries, both under the
// configured backoff policy.
func NewWaitStep(cfg *config.Config) Step {
	return &waitStep{
		waiter: probe.NewWaiter(cfg.Database.Addr(), probe.Policy{
			InitialInterval: cfg.Probe.InitialInterval,
			MaxInterval:     cfg.Probe.MaxInterval,
			Multiplier:      cfg.Probe.Multiplier,
			MaxElapsedTime:  cfg.Probe.MaxElapsedTime,
			DialTimeout:     cfg.Probe.DialTimeout,
		}),
		dsn:    cfg.Database.DSN(),
		pingDB: probe.Database,
	}
}

func (s *waitStep) Name() string { return StepWaitDatabase }

func (s *waitStep) Satisfied(ctx context.Context) (bool, error) {
	if !s.waiter.Reachable(ctx) {
		return false, nil
	}
	return s.pingDB(ctx, s.dsn) == nil, nil
}

func (s *waitStep) Apply(ctx context.Context) error {
	if err := s.waiter.Wait(ctx); err != nil {
		return err
	}
	return s.waiter.WaitReady(ctx, func(ctx context.Context) error {
		return s.pingDB(ctx, s.dsn)
	})
}

// ----------------------------------------------------------------------
// migrate
// ----------------------------------------------------------------------

type migrateStep struct {
	dsn string

	run    func(ctx context.Context, dsn string) error
	status func(ctx context.Context, dsn string) (*store.MigrationStatus, error)
}

// NewMigrateStep returns the schema migration step.
func NewMigrateStep(dsn string) Step {
	return &migrateStep{
		dsn:    dsn,
		run:    store.RunMigrations,
		status: store.GetMigrationStatus,
	}
}

func (s *migrateStep) Name() string { return StepMigrate }

func (s *migrateStep) Satisfied(ctx context.Context) (bool, error) {
	status, err := s.status(ctx, s.dsn)
	if err != nil {
		return false, err
	}
	return !status.Pending && !status.Dirty, nil
}

func (s *migrateStep) Apply(ctx context.Context) error {
	return s.run(ctx, s.dsn)
}

// ----------------------------------------------------------------------
// collect-static (optional)
// ----------------------------------------------------------------------

type staticStep struct {
	collector *staticfiles.Collector
}

// NewStaticStep returns the static asset collection step.
func NewStaticStep(sources []string, root string) Step {
	return &staticStep{collector: staticfiles.New(sources, root)}
}

func (s *staticStep) Name() string   { return StepCollectStatic }
func (s *staticStep) Optional() bool { return true }

func (s *staticStep) Satisfied(ctx context.Context) (bool, error) {
	return s.collector.Satisfied(ctx)
}

func (s *staticStep) Apply(ctx context.Context) error {
	_, err := s.collector.Collect(ctx)
	return err
}

// ----------------------------------------------------------------------
// seed-admin / seed-demo
// ----------------------------------------------------------------------

// storeOpener opens the user store on demand, returning a cleanup that
// releases the connection. Seed steps connect lazily so no database
// connection is attempted before the readiness step has passed. Tests
// substitute an in-memory store with a no-op cleanup.
type storeOpener func(ctx context.Context) (*store.Store, func(), error)

func openerFromConfig(cfg *config.Config) storeOpener {
	return func(ctx context.Context) (*store.Store, func(), error) {
		s, err := store.Open(store.Options{
			Backend:      store.BackendPostgres,
			DSN:          cfg.Database.DSN(),
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open user store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	}
}

type adminSeedStep struct {
	open storeOpener
	seed store.AdminSeed
}

// NewAdminSeedStep returns the admin seeding step. The credentials come
// from configuration; the step creates at most one admin account ever.
func NewAdminSeedStep(cfg *config.Config) Step {
	return &adminSeedStep{
		open: openerFromConfig(cfg),
		seed: store.AdminSeed{
			Username:     cfg.Admin.Username,
			Email:        cfg.Admin.Email,
			Password:     cfg.Admin.Password,
			PasswordHash: cfg.Admin.PasswordHash,
		},
	}
}

func (s *adminSeedStep) Name() string { return StepSeedAdmin }

func (s *adminSeedStep) Satisfied(ctx context.Context) (bool, error) {
	st, cleanup, err := s.open(ctx)
	if err != nil {
		return false, err
	}
	defer cleanup()
	return st.UserExists(ctx, s.seed.Username)
}

func (s *adminSeedStep) Apply(ctx context.Context) error {
	st, cleanup, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = st.EnsureAdmin(ctx, s.seed)
	return err
}

type demoSeedStep struct {
	open     storeOpener
	password string
}

// NewDemoSeedStep returns the demo data seeding step. Demo users share
// the configured demo password, falling back to the admin password.
func NewDemoSeedStep(cfg *config.Config) Step {
	password := cfg.Seed.DemoPassword
	if password == "" {
		password = cfg.Admin.Password
	}
	return &demoSeedStep{
		open:     openerFromConfig(cfg),
		password: password,
	}
}

func (s *demoSeedStep) Name() string   { return StepSeedDemo }
func (s *demoSeedStep) Optional() bool { return true }

func (s *demoSeedStep) Satisfied(ctx context.Context) (bool, error) {
	st, cleanup, err := s.open(ctx)
	if err != nil {
		return false, err
	}
	defer cleanup()
	return st.DemoUsersExist(ctx)
}

func (s *demoSeedStep) Apply(ctx context.Context) error {
	st, cleanup, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = st.EnsureDemoUsers(ctx, s.password)
	return err
}
