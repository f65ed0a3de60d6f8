// Package errors provides the structured error type used across seqkit.
// Every failure carries a machine-readable code, a retryable flag and optional
// details, and matches its code's sentinel through the standard errors.Is.
package errors
