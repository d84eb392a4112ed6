package dmlbuilder

import (
	"strconv"
	"strings"
)

// Sort directions accepted by OrderBy.
const (
	Ascending  = true
	Descending = false
)

// QueryBuilder accumulates the fragments of a single DML statement.
//
// NOTE: A QueryBuilder is not safe for concurrent use.  Each statement (and
// each request building one) should own its builder.
type QueryBuilder struct {
	with string

	selectMode []string
	selectList string

	update     string
	updateMode []string

	deleteList string
	deleteMode []string

	insertMode      []string
	into            string
	columnNames     string
	values          string
	selectStatement string

	set      string
	from     string
	join     string
	where    string
	having   string
	groupBy  string
	orderBy  string
	limit    string
	lockMode string
	compound string

	// Logical operator for the next group / predicate.  Cleared once used.
	connector string
	// Set by Join until the ON part of the join has been started.
	isJoin bool
}

// New returns an empty builder.
func New() *QueryBuilder {
	return &QueryBuilder{}
}

// Reset drops every accumulated fragment.
func (b *QueryBuilder) Reset() *QueryBuilder {
	*b = QueryBuilder{}
	return b
}

//
// Clause accumulators =========================================================
//

// Select appends column to the select list.
func (b *QueryBuilder) Select(column string) *QueryBuilder {
	if b.selectList != "" {
		b.selectList += ", "
	}
	b.selectList += column
	return b
}

// Compound appends "kind query" to the compound part of the statement.  The
// query is used verbatim; see Union for the parenthesizing variant.
func (b *QueryBuilder) Compound(query string, kind string) *QueryBuilder {
	if b.compound != "" {
		b.compound += " "
	}
	b.compound += kind + " " + query
	return b
}

func (b *QueryBuilder) Union(query string) *QueryBuilder {
	return b.Compound("("+query+")", "UNION")
}

func (b *QueryBuilder) UnionAll(query string) *QueryBuilder {
	return b.Compound("("+query+")", "UNION ALL")
}

func (b *QueryBuilder) Intersect(query string) *QueryBuilder {
	return b.Compound("("+query+")", "INTERSECT")
}

func (b *QueryBuilder) Except(query string) *QueryBuilder {
	return b.Compound("("+query+")", "EXCEPT")
}

// OrderBy adds a sort column.  Use Ascending / Descending for readability.
func (b *QueryBuilder) OrderBy(column string, ascending bool) *QueryBuilder {
	direction := " ASC"
	if !ascending {
		direction = " DESC"
	}

	if b.orderBy == "" {
		b.orderBy = "ORDER BY "
	} else {
		b.orderBy += ", "
	}
	b.orderBy += column + direction
	return b
}

func (b *QueryBuilder) GroupBy(column string) *QueryBuilder {
	if b.groupBy == "" {
		b.groupBy = "GROUP BY "
	} else {
		b.groupBy += ", "
	}
	b.groupBy += column
	return b
}

// Limit replaces the LIMIT clause.
func (b *QueryBuilder) Limit(rowCount int64) *QueryBuilder {
	b.limit = "LIMIT " + strconv.FormatInt(rowCount, 10)
	return b
}

// LimitOffset replaces the LIMIT clause with one that skips offset rows.
func (b *QueryBuilder) LimitOffset(rowCount int64, offset int64) *QueryBuilder {
	b.limit = "LIMIT " + strconv.FormatInt(rowCount, 10) +
		" OFFSET " + strconv.FormatInt(offset, 10)
	return b
}

// With adds a common table expression.
func (b *QueryBuilder) With(alias string, query string) *QueryBuilder {
	if b.with == "" {
		b.with = "WITH "
	} else {
		b.with += ", "
	}
	b.with += alias + " AS (" + query + ")"
	return b
}

func (b *QueryBuilder) From(table string) *QueryBuilder {
	if b.from == "" {
		b.from = "FROM "
	} else {
		b.from += ", "
	}
	b.from += table
	return b
}

// Update adds a table to the UPDATE target list.
func (b *QueryBuilder) Update(table string) *QueryBuilder {
	if b.update != "" {
		b.update += ", "
	}
	b.update += table
	return b
}

// Delete adds a table to the target list of a multi-table DELETE.
func (b *QueryBuilder) Delete(table string) *QueryBuilder {
	if b.deleteList != "" {
		b.deleteList += ", "
	}
	b.deleteList += table
	return b
}

func (b *QueryBuilder) Into(table string) *QueryBuilder {
	b.into = "INTO " + table
	return b
}

// Set adds a "column = value" assignment.  value is used verbatim.
func (b *QueryBuilder) Set(column string, value string) *QueryBuilder {
	if b.set == "" {
		b.set = "SET "
	} else {
		b.set += ", "
	}
	b.set += column + " = " + value
	return b
}

// ColumnNames replaces the INSERT column list.
func (b *QueryBuilder) ColumnNames(columns ...string) *QueryBuilder {
	b.columnNames = "(" + strings.Join(columns, ", ") + ")"
	return b
}

// Values adds one row to the INSERT value list.
func (b *QueryBuilder) Values(values ...string) *QueryBuilder {
	if b.values == "" {
		b.values = "VALUES "
	} else {
		b.values += ", "
	}
	b.values += "(" + strings.Join(values, ", ") + ")"
	return b
}

// SelectStatement sets the SELECT feeding an INSERT / REPLACE.
func (b *QueryBuilder) SelectStatement(query string) *QueryBuilder {
	b.selectStatement = query
	return b
}

// Join appends "kind JOIN table" and arms the ON handling for the next
// group or ON predicate.  CROSS and NATURAL joins take no ON part.
func (b *QueryBuilder) Join(table string, kind string) *QueryBuilder {
	kind = strings.ToUpper(strings.TrimSpace(kind))

	if b.join != "" {
		b.join += " "
	}
	if kind == "" {
		b.join += "JOIN " + table
	} else {
		b.join += kind + " JOIN " + table
	}

	b.isJoin = !strings.HasPrefix(kind, "CROSS") &&
		!strings.HasPrefix(kind, "NATURAL")
	return b
}

func (b *QueryBuilder) SelectMode(mode string) *QueryBuilder {
	b.selectMode = append(b.selectMode, mode)
	return b
}

func (b *QueryBuilder) UpdateMode(mode string) *QueryBuilder {
	b.updateMode = append(b.updateMode, mode)
	return b
}

func (b *QueryBuilder) DeleteMode(mode string) *QueryBuilder {
	b.deleteMode = append(b.deleteMode, mode)
	return b
}

func (b *QueryBuilder) InsertMode(mode string) *QueryBuilder {
	b.insertMode = append(b.insertMode, mode)
	return b
}

// LockMode replaces the locking clause of a SELECT, e.g. "FOR UPDATE".
func (b *QueryBuilder) LockMode(mode string) *QueryBuilder {
	b.lockMode = mode
	return b
}
