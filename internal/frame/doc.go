// Package frame implements the in-memory table engine the pipeline runs
// on: typed columns of tagged cell values, row filters, grouped means,
// key joins and row concatenation.
//
// A cell is a Value holding exactly one of string, int64, float64, or the
// missing marker; the tag is authoritative and nothing inspects cell
// contents at runtime to guess a type. A Column declares a Type and never
// holds a non-missing Value of another kind. Tables are built once from
// raw records (FromRecords decides each column's type from its contents)
// and transformed by the pipeline stages.
//
// The engine is synchronous and copy-on-transform: every operation
// returns a new table or mutates its receiver in place, and no method is
// safe for concurrent use.
package frame
