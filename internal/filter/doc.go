// Package filter selects log lines by keyword, time range, severity and
// subtype, and writes the survivors to a destination file.
//
// All supplied constraints must hold. The time range only excludes lines
// whose timestamp could be parsed; lines without one always pass it. An
// unregistered severity or subtype name matches nothing.
package filter
