package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/gravitrone/testbuilder/internal/api"
	"github.com/gravitrone/testbuilder/internal/config"
	"github.com/gravitrone/testbuilder/internal/pool"
	"github.com/gravitrone/testbuilder/internal/store"
)

// StoreFlags are the root --driver and --db flags.
type StoreFlags struct {
	Driver string
	DSN    string
}

func (f *StoreFlags) set() bool {
	return f != nil && (f.Driver != "" || f.DSN != "")
}

// Backend is where the item bank and saved tests live: the HTTP API or a
// local database.
type Backend interface {
	pool.DataSource
	pool.SaveSurface
	ItemsInCategory(ctx context.Context, c pool.CategoryID) ([]pool.Item, error)
	ListTests(ctx context.Context) ([]pool.SavedTest, error)
	GetTest(ctx context.Context, id string) (*pool.SavedTest, error)
}

var (
	_ Backend = (*api.Client)(nil)
	_ Backend = (*store.Store)(nil)
)

// ErrNoBackend means neither flags nor config say where the bank lives.
var ErrNoBackend = errors.New("no item bank configured")

// OpenBackend resolves the bank: explicit flags first, then the configured
// store, then the configured API. The returned close func is never nil.
func OpenBackend(ctx context.Context, flags *StoreFlags) (Backend, func(), error) {
	if flags.set() {
		s, err := openStoreFromFlags(ctx, flags)
		if err != nil {
			return nil, func() {}, err
		}
		return s, func() { s.Close() }, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w: %v", ErrNoBackend, err)
	}
	if cfg.UsesStore() {
		s, err := openStoreFromFlags(ctx, &StoreFlags{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN})
		if err != nil {
			return nil, func() {}, err
		}
		return s, func() { s.Close() }, nil
	}
	return api.NewClient(cfg.APIURL, cfg.APIKey), func() {}, nil
}

// OpenStore opens a local database from flags or config, falling back to the
// default sqlite file when nothing is configured.
func OpenStore(ctx context.Context, flags *StoreFlags) (*store.Store, error) {
	if flags.set() {
		return openStoreFromFlags(ctx, flags)
	}
	if cfg, err := config.Load(); err == nil && cfg.UsesStore() {
		return openStoreFromFlags(ctx, &StoreFlags{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN})
	}
	return store.Open(ctx, store.DriverSQLite, "")
}

func openStoreFromFlags(ctx context.Context, flags *StoreFlags) (*store.Store, error) {
	name := flags.Driver
	if name == "" {
		name = string(store.DriverSQLite)
	}
	driver, err := store.ParseDriver(name)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, driver, flags.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}
