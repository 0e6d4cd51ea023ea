// Package services implements the business logic layer of the feature
// builder. It sits between the transports (command line and HTTP) and the
// packages that do the work, so both front ends run exactly the same steps.
//
// # Services
//
//	FeatureService  reads or receives the two input tables, optionally
//	                cleans them, types them, runs the feature pipeline and
//	                exports the result
//	HealthService   liveness and build information for the HTTP API
//
// # Run flow
//
//	RawTable ──(Cleaner)──▶ RawTable ──(Loader)──▶ Dataset
//	        ──(features.Pipeline)──▶ Table ──(exporter)──▶ csv | xlsx | sqlite
//
// Every run gets a run id on its context, a RunSummary describing the rows,
// rejected rows and warnings, and one RecordRun call on the pipeline
// metrics whether it succeeds or not.
//
// # Errors
//
// Errors caused by the input data (missing columns, bad dates, bad cells)
// are returned unchanged so transports can match them with errors.As and
// report them as client errors. Pipeline failures are wrapped with the run
// id.
package services
