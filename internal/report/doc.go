// Package report assembles the forensic PDF report from the evidence store.
//
// Analyzer derives counts and excerpts: call directions and top callers,
// SMS directions and top senders, device details scraped from logcat, and
// today's entries per log category (falling back to the raw logcat when no
// category dump has entries). Frequency tables keep first-seen order among
// equal counts.
//
// RenderPDF lays the report out as cover, chain of custody, methodology,
// contents, device information, call, SMS and logcat analysis, and
// conclusion. A section whose input cannot be read is rendered as an inline
// error instead of failing the whole document.
package report
