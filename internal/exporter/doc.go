// Package exporter writes the feature table.
//
// A Frame fixes the column contract of one run: the observation columns,
// the store columns, then every derived feature column. Null values are
// written as empty cells in CSV and XLSX and as NULL in SQLite.
//
// The format follows the output file extension:
//
//	.csv (and anything unknown)  delimited text
//	.xlsx                        single-sheet workbook via excelize
//	.db, .sqlite, .sqlite3       table "features" in a SQLite database
//
// Example usage:
//
//	frame := exporter.NewFrame(table.Schema, table.Records)
//	err := exporter.New(',', logger).ExportFile(ctx, "features.csv", frame)
package exporter
