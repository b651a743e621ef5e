// Package charts turns the evidence dumps into bar-chart series and exports
// them as CSV, XLSX or PNG.
//
// Series are computed with the filter engine's time-range semantics, so a
// chart over "Past 24 Hours" counts the same lines a filter with that range
// would keep. Activity charts bucket timestamped lines by hour.
package charts
