// Package pipeline orchestrates the school-data run as an ordered series
// of stages. Each stage reads its inputs from the shared State and writes
// its outputs back; the Runner executes them strictly one at a time, so
// states carry no locking. A failed stage skips everything after it.
//
// The canonical order is load, normalize, coerce, coordinates, condense,
// merge, impute, derive, analyze, districts, export; NewDefaultRegistry
// assembles it from a Config.
package pipeline
