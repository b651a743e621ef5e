// Package ui provides the droidtrace terminal interface.
//
// The interface is a Bubble Tea program. A single Model owns all view state
// and talks to the rest of the application only through *app.App, so every
// action the UI offers is also reachable from the command line.
//
// # Views
//
// Five views are available, switched with 1-5 or tab:
//
//   - Extract: connected devices, the last extraction, category totals and
//     the outcome of the last action. Extraction, categorization and PDF
//     report export start here.
//   - Live: the live logcat feed with vim-style search and follow mode.
//   - Categories: the per-log-type buckets and their lines.
//   - Filter: a form over source, time range, severity, subtype and keyword,
//     with the matching lines below it.
//   - Charts: bar charts of call, SMS and logcat activity with CSV, XLSX and
//     PNG export.
//
// # Data Flow
//
// A tick every 100ms drains the live session queue into a bounded backlog
// and fetches a fresh state snapshot. Device polling runs elsewhere and only
// writes to the state store. Blocking work (adb, file scans, exports) runs
// in tea.Cmd functions whose results come back as messages, so the event
// loop never waits on I/O.
//
// When a watcher is supplied, changes to the dumps in the logs directory
// reload the category and chart views.
//
// # Files
//
//   - app.go: Model, message types, commands and Run
//   - header.go: header, command bar and footer
//   - extract.go, live.go, categories.go, filterview.go, chartview.go: views
//   - keys.go, help.go: key bindings and the help overlay
//   - layout.go, style_helpers.go, strings.go: boxes and rendering helpers
//   - theme.go: color themes
package ui
