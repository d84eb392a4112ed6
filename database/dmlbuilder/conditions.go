package dmlbuilder

import (
	"strings"
)

// ConditionClause names the fragment a condition or group is written to.
type ConditionClause int

const (
	WhereClause ConditionClause = iota
	HavingClause
	// ON conditions live inside the join fragment.
	OnClause
)

func (c ConditionClause) String() string {
	switch c {
	case HavingClause:
		return "HAVING"
	case OnClause:
		return "ON"
	default:
		return "WHERE"
	}
}

func (b *QueryBuilder) fragment(clause ConditionClause) *string {
	switch clause {
	case HavingClause:
		return &b.having
	case OnClause:
		return &b.join
	default:
		return &b.where
	}
}

// Connector sets the logical operator placed in front of the next group or
// predicate.  An empty connector means the default (AND).
func (b *QueryBuilder) Connector(connector string) *QueryBuilder {
	b.connector = strings.ToUpper(strings.TrimSpace(connector))
	return b
}

func (b *QueryBuilder) And() *QueryBuilder {
	return b.Connector("AND")
}

func (b *QueryBuilder) Or() *QueryBuilder {
	return b.Connector("OR")
}

func (b *QueryBuilder) Xor() *QueryBuilder {
	return b.Connector("XOR")
}

// GroupStart opens a parenthesized group on the given clause.
//
// Right after Join the group opens the join's ON part instead, whatever
// clause is passed.  Otherwise the group is prefixed with the pending
// connector, or with AND when the clause already holds a condition.
func (b *QueryBuilder) GroupStart(clause ConditionClause) *QueryBuilder {
	if b.isJoin {
		if b.join != "" {
			b.join += " "
		}
		b.join += "ON ("
		b.isJoin = false
		return b
	}

	fragment := b.fragment(clause)
	switch {
	case b.connector != "":
		*fragment += " " + b.connector + " ("
		b.connector = ""
	case *fragment != "" && !strings.HasSuffix(*fragment, "("):
		*fragment += " AND ("
	default:
		*fragment += "("
	}
	return b
}

// GroupEnd closes the innermost group of the given clause.
func (b *QueryBuilder) GroupEnd(clause ConditionClause) *QueryBuilder {
	*b.fragment(clause) += ")"
	return b
}

// Condition adds the predicate "left operator right" to the given clause.
func (b *QueryBuilder) Condition(
	left string,
	operator string,
	right string,
	clause ConditionClause) *QueryBuilder {

	b.appendCondition(clause, left+" "+operator+" "+right)
	return b
}

// Where adds a pre-formatted predicate to the WHERE clause.
func (b *QueryBuilder) Where(condition string) *QueryBuilder {
	b.appendCondition(WhereClause, condition)
	return b
}

// Having adds a pre-formatted predicate to the HAVING clause.
func (b *QueryBuilder) Having(condition string) *QueryBuilder {
	b.appendCondition(HavingClause, condition)
	return b
}

// On adds a pre-formatted predicate to the ON part of the last join.
func (b *QueryBuilder) On(condition string) *QueryBuilder {
	b.appendCondition(OnClause, condition)
	return b
}

func (b *QueryBuilder) appendCondition(
	clause ConditionClause,
	condition string) {

	if clause == OnClause {
		if b.isJoin {
			b.join += " ON " + condition
			b.isJoin = false
			b.connector = ""
			return
		}
		b.join = b.connect(b.join, condition)
		return
	}

	fragment := b.fragment(clause)

	// Groups may have been opened before the first predicate arrived, so the
	// keyword goes in front of whatever is already there.
	keyword := clause.String() + " "
	if !strings.HasPrefix(*fragment, keyword) {
		*fragment = keyword + *fragment
	}

	*fragment = b.connect(*fragment, condition)
}

// connect appends condition to fragment, consuming the pending connector.
func (b *QueryBuilder) connect(fragment string, condition string) string {
	connector := b.connector
	b.connector = ""

	if fragment == "" ||
		strings.HasSuffix(fragment, "(") ||
		strings.HasSuffix(fragment, " ") {

		return fragment + condition
	}

	if connector == "" {
		connector = "AND"
	}
	return fragment + " " + connector + " " + condition
}
