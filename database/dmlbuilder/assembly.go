package dmlbuilder

import (
	"strings"
)

//
// Statement assembly ==========================================================
//

// GetSelectQuery assembles a SELECT.  An empty select list selects "*".
// With compound parts the plain select is parenthesized in front of them.
func (b *QueryBuilder) GetSelectQuery() (string, error) {
	if b.from == "" {
		return "", newMissingTableReference("No from() in select query!")
	}

	selectList := b.selectList
	if selectList == "" {
		selectList = "*"
	}

	standard := implode(
		"SELECT",
		implodeModes(b.selectMode),
		selectList,
		b.from,
		b.join,
		b.where,
		b.groupBy,
		b.having,
		b.orderBy,
		b.limit,
		b.lockMode)

	if b.compound == "" {
		return implode(b.with, standard), nil
	}
	return implode(b.with, "("+standard+")", b.compound), nil
}

// GetUpdateQuery assembles an UPDATE.  ORDER BY and LIMIT are only emitted
// for single table updates without joins.
func (b *QueryBuilder) GetUpdateQuery() (string, error) {
	if b.update == "" {
		return "", newMissingTableReference("No update() in update query!")
	}

	components := []string{
		"UPDATE",
		implodeModes(b.updateMode),
		b.update,
		b.join,
		b.set,
		b.where,
	}

	if !isTableList(b.update) && b.join == "" {
		components = append(components, b.orderBy, b.limit)
	}

	return implode(components...), nil
}

// GetDeleteQuery assembles a DELETE.  ORDER BY and LIMIT are only emitted
// for single table deletes.
func (b *QueryBuilder) GetDeleteQuery() (string, error) {
	if b.from == "" {
		return "", newMissingTableReference("No from() in delete query!")
	}

	components := []string{
		"DELETE",
		implodeModes(b.deleteMode),
		b.deleteList,
		b.from,
		b.join,
		b.where,
	}

	if b.deleteList == "" && b.join == "" && !isTableList(b.from) {
		components = append(components, b.orderBy, b.limit)
	}

	return implode(components...), nil
}

// GetInsertQuery assembles an INSERT from either SET assignments, a SELECT
// statement, or a VALUES list, in that order of preference.
func (b *QueryBuilder) GetInsertQuery() (string, error) {
	if b.into == "" {
		return "", newMissingTableReference("No into() in insert query!")
	}
	return b.insertLike("INSERT", b.insertMode), nil
}

// GetReplaceQuery is GetInsertQuery for REPLACE.  IGNORE has no meaning for
// REPLACE and is left out of the modes.
func (b *QueryBuilder) GetReplaceQuery() (string, error) {
	if b.into == "" {
		return "", newMissingTableReference("No into() in replace query!")
	}

	modes := make([]string, 0, len(b.insertMode))
	for _, mode := range b.insertMode {
		if strings.ToUpper(mode) != "IGNORE" {
			modes = append(modes, mode)
		}
	}
	return b.insertLike("REPLACE", modes), nil
}

func (b *QueryBuilder) insertLike(verb string, modes []string) string {
	components := []string{verb, implodeModes(modes), b.into}

	switch {
	case b.set != "":
		components = append(components, b.set)
	case b.selectStatement != "":
		components = append(components, b.columnNames, b.selectStatement)
	default:
		components = append(components, b.columnNames, b.values)
	}

	return implode(components...)
}

//
// Util functions =============================================================
//

// implode joins the non-empty components with single spaces.
func implode(components ...string) string {
	nonEmpty := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// implodeModes joins modifier keywords, keeping the first occurrence of
// duplicates.
func implodeModes(modes []string) string {
	seen := make(map[string]struct{}, len(modes))
	unique := make([]string, 0, len(modes))
	for _, mode := range modes {
		if mode == "" {
			continue
		}
		if _, ok := seen[mode]; ok {
			continue
		}
		seen[mode] = struct{}{}
		unique = append(unique, mode)
	}
	return strings.Join(unique, " ")
}

// isTableList reports whether a table reference names more than one table.
func isTableList(tables string) bool {
	return strings.Contains(tables, ",")
}
