// Package aggregates implements the billing write processors.
//
// Each processor composes table repos from internal/data/repos and owns the
// transaction boundary: every read that feeds a decision and every write that
// follows it happen inside one transaction, or nothing is applied.
package aggregates
