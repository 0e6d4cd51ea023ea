// Package features derives the store sales feature table.
//
// A run joins daily observations with store metadata and passes the joined
// Table through a fixed sequence of stages, each an operations.Step:
//
//	join → calendar → categorical → promotion → competition →
//	sales → ratios → flags → aggregate → window
//
// Stages only add fields to the records. Values that depend on the whole
// table (sales bin edges, global means) are computed once into Table.Stats
// before any row reads them. The window stage sorts the table by store and
// date, so the output of a run is always in that order.
//
// Degenerate arithmetic never fails a run: divisions by zero and missing
// operands yield 0. Category values without an encoding are left nil and
// reported as warnings on the table.
package features
