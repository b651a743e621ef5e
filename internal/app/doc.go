// Package app provides the orchestration layer for droidtrace.
//
// # Overview
//
// App is the composition root: New wires the evidence store, adb client,
// extractor, filter engine, categorizer, live session, chart builder and
// report exporter over one Config. The TUI and the command line both drive
// the application through the same action methods, so every action behaves
// identically in both.
//
// # Components
//
//   - app.go: Options, App and New
//   - actions.go: Extract, Categorize, Filter, SaveFiltered, ExportReport,
//     Chart and ExportChart, each returning a Notice
//   - poller.go: background goroutine that refreshes the device list
//
// # Notices
//
// Actions never panic and never print. Each returns a Notice holding the
// user-facing outcome text and, on failure, the underlying error. The TUI
// shows the text in its footer; the CLI prints it and exits non-zero when
// Err is set.
//
// # Data Flow
//
//	┌──────────────┐
//	│   New()      │ Wire components
//	└──────┬───────┘
//	       │
//	       ├─────> evidence.NewStore()  Logs dir layout
//	       ├─────> adb.NewClient()      Device commands
//	       ├─────> live.NewSession()    Live feed queue and relay
//	       └─────> state.Store{}        Shared snapshot for the UI
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> Devices()                          │
//	│  └─> store.UpdateDevices()              │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller lists devices every DevicePoll (default 5 seconds). Failures
// back off exponentially up to 30 seconds and are recorded in the store so
// the header can show NOT FOUND, TIMEOUT or OFFLINE.
package app
