// Package exporter writes the pipeline's reports to disk.
//
// CSVWriter is the core component: header-aware CSV writing with optional
// UTF-8 BOM for Excel compatibility, plus a streaming variant for the wide
// combined table. On top of it sit the domain exports: WriteTable renders a
// frame table with missing cells as empty fields, WriteCorrelations emits
// the column/r/n report, and WriteCorrelationReport produces the JSON form
// with run metadata.
//
// Relative paths resolve into the reports directory; a "data/" prefix
// resolves into the raw data tree instead.
package exporter
