// Package sqlseq exposes database/sql queries as lazy sequences.
//
// The query runs when a pass first asks for an element, and each pass
// runs it again. Closing the pass closes the rows:
//
//	db, err := sqlseq.Open(cfg)
//	users := sqlseq.Query(db, "SELECT id, name FROM users ORDER BY id", scanUser)
//	adults, minors := splitByAge(users.Save())
//
// Driver errors surface as errors.ErrSourceFailed.
package sqlseq
