// Package dataprocessing reads the observation and store tables and turns
// them into domain values for the feature pipeline.
//
// # Components
//
//  1. Parser: reads delimited text or the first sheet of an .xlsx workbook
//     into a RawTable with normalized column names
//  2. Cleaner: optional null imputation (median for numeric columns, the
//     "None" sentinel otherwise)
//  3. Loader: types the raw cells, checks the required columns and applies
//     the date error policy
//
// # Usage
//
//	obsTable, err := dataprocessing.ReadTable("train.csv", dataprocessing.TableObservations, ',')
//	storeTable, err := dataprocessing.ReadTable("store.csv", dataprocessing.TableStores, ',')
//
//	dataprocessing.NewCleaner(logger).Clean(ctx, obsTable)
//
//	ds, err := dataprocessing.NewLoader(cfg.Input, logger).Load(ctx, obsTable, storeTable)
//
// # Data Flow
//
//	File → RawTable → [Cleaner] → Loader → Dataset → features.Pipeline
//
// # Error Handling
//
// A missing required column returns *errors.InputSchemaError. A malformed
// number or an empty required cell returns *errors.CellParseError. A date
// that does not match the layout returns *errors.DateParseError, unless the
// policy is "reject", in which case the row is dropped and counted in
// Dataset.Rejected.
package dataprocessing
