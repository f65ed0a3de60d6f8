// Package seq provides lazy, composable, pull-based sequences.
//
// A Sequence is a recipe, not a container: it holds a factory that builds a
// fresh cursor for every pass. Transformations (Filter, Map, Limit, Skip,
// Concat, OrderBy, Save, Split, ...) return a new Sequence without touching
// the data. Terminals (ToSlice, Count, FindFirst, Reduce, GroupBy, ...) each
// drive exactly one new cursor to produce their result.
//
// Cursors follow a lookahead/consume protocol: HasNext may advance upstream
// state and is idempotent until Next consumes the announced element. Once
// HasNext reports false it keeps reporting false. Calling Next without a
// truthful HasNext panics with an error matching errors.ErrCursorContract.
//
// # Operators
//
// Lazy, one upstream pull per element:
//
//   - Map, FlatMap, FilterMap, OfType: transform each element
//   - Filter, FilterIndexed: keep matching elements
//   - Limit, Skip: bound or offset a pass
//   - Concat, Join, Append: chain sequences end to end
//   - Peek: observe elements without changing them
//   - Chunk: group consecutive elements into slices
//
// Eager within one pass, deferred until the first pull:
//
//   - OrderBy, OrderByDescending, OrderByKey, Reverse
//
// Shared state across passes:
//
//   - Save, SaveDistinct: replay a single upstream pass to every later pass
//   - Split, SplitIndexed: partition one upstream pass into independently
//     paced branches, buffering only what each branch has been asked for
//
// # Usage
//
//	nums := seq.Generate(1, func(n int) int { return n + 1 }, func(int) bool { return true })
//	parts := nums.Split(
//	    func(n int) bool { return n%2 == 0 },
//	    func(n int) bool { return n%3 == 0 },
//	)
//	evens, _ := parts[0].Limit(5).ToSlice(ctx) // [2 4 6 8 10]
//	rest, _ := parts[2].Limit(5).ToSlice(ctx)  // [1 5 7 11 13]
//
// Buffer sizing for Save and Split comes from the Config attached to the
// context of the pass that fills the buffer (see WithConfig).
package seq
