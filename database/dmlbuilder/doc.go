// A library for assembling DML statements from incrementally accumulated
// clause fragments.
//
// A QueryBuilder keeps every clause (select list, joins, WHERE / HAVING / ON
// conditions, GROUP BY, ORDER BY, LIMIT, compound selects, UPDATE targets and
// SET assignments, INSERT sources) as a flat string.  Callers add to those
// fragments in any order and then call exactly one of the Get*Query methods,
// which validates the mandatory table reference and joins the non-empty
// fragments, in SQL clause order, with single spaces.
//
// Column names, table names, predicates and values are opaque to the builder.
// Nothing is quoted or escaped here; see database/escaper for that.
//
// Condition grouping is tracked with two transient flags rather than an
// expression tree:
//  - the pending connector (And / Or / Xor) prefixes the next group or
//    predicate and is cleared once used.
//  - the join flag (set by Join) makes the next group or ON predicate land in
//    the join fragment behind an ON keyword.
// Unbalanced GroupStart / GroupEnd calls are not detected; the output is
// whatever the call sequence produced.
//
// For callers that prefer structure, Cond values (Predicate, Compare, And,
// Or, Not, ...) serialize into the same fragments via WhereCond, HavingCond
// and OnCond.
package dmlbuilder
