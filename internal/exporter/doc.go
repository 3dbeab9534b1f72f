// Package exporter renders analysis results to files. Tables can be written
// as individual CSV files (with UTF-8 BOM for Excel) or gathered into a
// single multi-sheet Excel workbook. Forward-fill masks export alongside
// their tables so synthesized values stay distinguishable from observed
// ones.
package exporter
