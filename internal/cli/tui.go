package cli

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/app"
	"github.com/five82/droidtrace/internal/prefs"
	"github.com/five82/droidtrace/internal/ui"
	"github.com/five82/droidtrace/internal/watcher"
)

// runTUI starts device polling and the dump watcher, then blocks in the
// Bubble Tea program until the user quits or ctx is cancelled.
func (rt *runtime) runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := rt.newApp()
	if err != nil {
		return err
	}
	log.Info().Str("logs_dir", a.Evidence.Dir()).Str("session", a.Session.ID).Msg("droidtrace started")

	app.StartPoller(ctx, a.State, a.Client, a.Config.DevicePoll)

	w, err := watcher.New(a.Evidence.Dir(), watcher.DefaultPatterns)
	if err != nil {
		// The views still work; they just won't reload on their own.
		log.Warn().Err(err).Msg("dump watcher unavailable")
	} else {
		go w.Start(ctx)
	}

	return ui.Run(ui.Options{
		Context:      ctx,
		App:          a,
		Watcher:      w,
		Prefs:        prefs.Load(rt.prefsPath),
		PrefsPath:    rt.prefsPath,
		PollTick:     a.Config.Live.PollInterval,
		BacklogLines: a.Config.Live.BacklogLines,
	})
}
