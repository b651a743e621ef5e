package app

import (
	"fmt"
	"time"

	"github.com/five82/droidtrace/internal/adb"
	"github.com/five82/droidtrace/internal/categorize"
	"github.com/five82/droidtrace/internal/charts"
	"github.com/five82/droidtrace/internal/config"
	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/filter"
	"github.com/five82/droidtrace/internal/live"
	"github.com/five82/droidtrace/internal/patterns"
	"github.com/five82/droidtrace/internal/report"
	"github.com/five82/droidtrace/internal/state"
)

// Options configure the droidtrace application.
type Options struct {
	Config    config.Config
	PrefsPath string     // empty uses default ~/.config/droidtrace/prefs.toml
	Runner    adb.Runner // nil runs the real adb binary
	Now       func() time.Time
}

// App holds every long-lived component. Build it once per process with New.
type App struct {
	Config      config.Config
	PrefsPath   string
	Evidence    *evidence.Store
	State       *state.Store
	Engine      *filter.Engine
	Categorizer *categorize.Categorizer
	Client      *adb.Client
	Extractor   *adb.Extractor
	Session     *live.Session
	Charts      *charts.Builder
	Reports     *report.Exporter

	now func() time.Time
}

// New wires the components over the configured evidence directory.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := evidence.NewStore(cfg.LogsDir)
	if err := store.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("prepare logs dir: %w", err)
	}

	client := adb.NewClient(cfg.ADBPath, cfg.Serial)
	if opts.Runner != nil {
		client.Runner = opts.Runner
	}

	engine := filter.NewEngine(store)
	engine.Now = now
	categorizer := categorize.New(store)

	session := live.NewSession(client, live.Options{
		QueueCapacity: cfg.Live.QueueCapacity,
		ReadPause:     cfg.Live.ReadPause,
		Categorizer:   categorizer,
	})

	analyzer := &report.Analyzer{Store: store, Types: patterns.LogTypes, Now: now}

	return &App{
		Config:      cfg,
		PrefsPath:   opts.PrefsPath,
		Evidence:    store,
		State:       &state.Store{},
		Engine:      engine,
		Categorizer: categorizer,
		Client:      client,
		Extractor:   &adb.Extractor{Client: client, Store: store, Window: cfg.LogcatWindow, Now: now},
		Session:     session,
		Charts:      &charts.Builder{Store: store, Engine: engine, Types: patterns.LogTypes, Now: now},
		Reports: &report.Exporter{
			Analyzer:   analyzer,
			Store:      store,
			CaseNumber: cfg.Report.CaseNumber,
			Examiner:   cfg.Report.Examiner,
		},
		now: now,
	}, nil
}

// Now returns the application clock.
func (a *App) Now() time.Time {
	return a.now()
}
