// Package live streams the device's ongoing log output to an in-process
// consumer.
//
// # Architecture
//
// A Relay runs one reader goroutine per monitoring run. It launches the
// monitoring command through a Launcher, reads stdout line by line, and
// pushes each line onto a bounded Queue as an Update message. A short pause
// between reads keeps the loop from spinning. When the queue is full the
// reader waits for the consumer rather than dropping lines.
//
// The relay moves between two states:
//
//	Idle --Start--> Running --Stop | process exit | stream closed--> Idle
//
// A Session groups the queue and relay for the orchestrating layer and adds
// live categorization and status messages. Consumers call Session.Poll on a
// timer; Poll drains what is queued and returns immediately, even when the
// queue is empty.
//
// # Error Handling
//
// Failures in the per-line hook are reported as Error messages and reading
// continues. A failure to terminate the monitoring process is reported the
// same way and returned from Stop, but leaves the relay Idle.
//
// Backlog is the consumer's display buffer; it is not safe for concurrent use
// and belongs to the UI goroutine.
package live
