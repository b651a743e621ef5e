// Package adb wraps the Android Debug Bridge command-line tool.
//
// Client builds the adb invocations used by the rest of the program: listing
// devices, dumping the buffered logcat, querying content providers and
// streaming live logcat. Commands run through a Runner so tests can
// substitute canned output.
//
// Extractor writes the logcat, call-log and SMS dumps into the evidence
// store. Content-provider failures never abort an extraction: the dump is
// replaced with a warning line so downstream readers see why data is
// missing.
package adb
