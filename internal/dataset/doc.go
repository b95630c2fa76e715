// Package dataset locates and loads the raw school data files into frame
// tables. It reads plain CSV, the tab-delimited windows-1252 survey
// exports, and Excel workbooks, and applies per-source column projection.
package dataset
