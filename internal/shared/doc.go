// Package shared holds helpers used by more than one layer of the feature
// builder. The testutil subpackage provides log capture and input fixtures
// for package tests; it must not be imported from production code.
package shared
