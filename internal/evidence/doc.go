// Package evidence manages the flat-file evidence directory: the raw device
// dumps, the filtered output, per-category dumps and report exports.
//
// # Layout
//
//	logs/
//	  android_logcat.txt
//	  call_logs.txt
//	  sms_logs.txt
//	  filtered_logs.txt
//	  logcat_types/<category>_logs.txt
//	  exports/
//
// # Concurrency
//
// Every write goes through Store.WriteFile, which holds a per-path mutex and
// renames a fully written temp file over the target. At most one writer
// touches a path at a time and readers never observe a half-written dump.
//
// # Reading
//
// ReadLines and EachLine keep line terminators so filtered output is a
// byte-for-byte subset of the source. Tail drops terminators and keeps only
// the last N lines using a ring buffer. Missing files read as empty.
// Invalid UTF-8 is replaced with U+FFFD.
package evidence
