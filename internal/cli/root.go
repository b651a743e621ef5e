// Package cli wires droidtrace's command tree. Every subcommand runs one
// action from internal/app; the bare command starts the TUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/droidtrace/internal/adb"
	"github.com/five82/droidtrace/internal/app"
	"github.com/five82/droidtrace/internal/config"
	"github.com/five82/droidtrace/internal/logging"
	"github.com/five82/droidtrace/internal/prefs"
)

// envPrefix namespaces environment overrides, e.g. DROIDTRACE_LIVE_BACKLOG_LINES.
const envPrefix = "DROIDTRACE"

// reportedError marks a failure whose message was already printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// runtime is the state shared by all commands of one invocation.
type runtime struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	cfg       config.Config
	prefsPath string
	closeLog  func() error

	// runner replaces the adb binary in tests.
	runner adb.Runner
}

func newRuntime(stdout, stderr io.Writer) *runtime {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &runtime{v: v, stdout: stdout, stderr: stderr}
}

// Execute runs droidtrace with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rt := newRuntime(stdout, stderr)
	root := newRootCommand(rt)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if rt.closeLog != nil {
		if cerr := rt.closeLog(); cerr != nil {
			fmt.Fprintf(stderr, "droidtrace: close log: %v\n", cerr)
		}
	}
	if err == nil {
		return 0
	}
	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(stderr, "droidtrace: %v\n", err)
	}
	return 1
}

func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "droidtrace",
		Short: "droidtrace: Android log forensics",
		Long: `droidtrace pulls logcat, call and SMS dumps from an Android device over adb,
categorizes and filters them, charts activity and exports a PDF forensic report.

Run without a subcommand to open the terminal interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default ~/.config/droidtrace/config.toml)")
	pf.String("prefs", "", "TUI preferences file (default ~/.config/droidtrace/prefs.toml)")
	pf.String("logs-dir", "", "directory holding the extracted dumps")
	pf.String("adb", "", "path to the adb binary")
	pf.StringP("serial", "s", "", "device serial when several are attached")
	pf.String("log-level", "", "diagnostic log level: debug, info, warn, error")

	rt.bindFlags(root, map[string]string{
		"config":    "config",
		"prefs":     "prefs",
		"logs_dir":  "logs-dir",
		"adb_path":  "adb",
		"serial":    "serial",
		"log.level": "log-level",
	})

	root.AddCommand(
		newExtractCommand(rt),
		newCategorizeCommand(rt),
		newFilterCommand(rt),
		newMonitorCommand(rt),
		newReportCommand(rt),
		newChartCommand(rt),
		newDevicesCommand(rt),
	)
	return root
}

// bindFlags maps setting keys to flag names on cmd. Persistent flags are
// looked up first.
func (rt *runtime) bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = cmd.Flags().Lookup(name)
		}
		if flag == nil {
			panic(fmt.Sprintf("cli: no flag %q for %s", name, key))
		}
		if err := rt.v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("cli: bind %s: %v", key, err))
		}
	}
}

// setup loads .env, the config file and overrides, then installs logging.
// The TUI logs to a file; other commands log to stderr.
func (rt *runtime) setup(cmd *cobra.Command) error {
	envErr := godotenv.Load()

	cfg, err := config.Load(rt.v.GetString("config"))
	if err != nil {
		return err
	}
	if err := applyOverrides(&cfg, rt.v); err != nil {
		return err
	}
	rt.cfg = cfg
	rt.prefsPath = rt.v.GetString("prefs")
	if rt.prefsPath == "" {
		rt.prefsPath = prefs.DefaultPath()
	}

	opts := logging.Options{Level: cfg.Log.Level, Console: rt.stderr}
	if cmd == cmd.Root() {
		opts.File = cfg.Log.File
	}
	closeLog, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	rt.closeLog = closeLog
	if envErr != nil {
		log.Debug().Err(envErr).Msg("No .env file found")
	}
	log.Debug().Str("command", cmd.Name()).Str("logs_dir", cfg.LogsDir).Msg("configuration loaded")
	return nil
}

// applyOverrides layers flags and DROIDTRACE_* variables over cfg. Only keys
// that were explicitly set are applied.
func applyOverrides(cfg *config.Config, v *viper.Viper) error {
	for _, key := range config.Keys() {
		if !v.IsSet(key) {
			continue
		}
		if err := cfg.Set(key, v.GetString(key)); err != nil {
			return fmt.Errorf("override %w", err)
		}
	}
	return nil
}

// newApp wires the application over the loaded configuration.
func (rt *runtime) newApp() (*app.App, error) {
	return app.New(app.Options{Config: rt.cfg, PrefsPath: rt.prefsPath, Runner: rt.runner})
}

// report prints n and converts a failure into an already-reported error.
func (rt *runtime) report(n app.Notice) error {
	if n.Text != "" {
		out := rt.stdout
		if n.Failed() {
			out = rt.stderr
		}
		fmt.Fprintln(out, n.Text)
	}
	if n.Failed() {
		return reportedError{err: n.Err}
	}
	return nil
}
