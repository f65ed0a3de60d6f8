// Package resilience retries work that fails with transient errors.
//
// Retry runs a function with exponential backoff. RetryOpen applies the same
// policy to sequence passes: a pass whose source fails before producing its
// first element is reopened, so a flaky database or remote reader does not
// fail the whole pipeline.
//
//	orders := resilience.RetryOpen(sqlseq.Query(db, q, scan), resilience.DefaultRetryConfig())
package resilience
