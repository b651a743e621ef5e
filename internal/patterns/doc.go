// Package patterns holds the static, ordered pattern registries used to
// classify Android log lines: log types (categorization buckets), severities,
// and subtypes.
//
// Registries are immutable. Iteration order is registration order, and
// First resolves overlapping rules by that order. Lookups of names that are
// not registered produce a rule that never matches; outer surfaces call
// Validate to reject such names before they reach the filter engine.
package patterns
