// Package state shares the latest device and analysis results between
// background workers and the UI.
//
// The device poller calls UpdateDevices; extraction, categorization and
// filter actions record their outcomes with the Set methods. The UI reads a
// Snapshot on each refresh tick. Snapshots are copies, so the UI never
// observes a half-applied update.
//
// A failed device poll keeps the last known device list and increments
// ConsecutiveFailures; two failures in a row mark the snapshot offline.
// The zero Store is ready to use.
package state
