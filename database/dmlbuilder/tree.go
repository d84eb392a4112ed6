// Structured conditions that serialize into the flat clause fragments

package dmlbuilder

import (
	"bytes"
	"strings"

	"github.com/gravitydb/gravity/database/sqltypes"
	"github.com/gravitydb/gravity/errors"
)

// Cond is a condition tree node.
type Cond interface {
	SerializeSql(out *bytes.Buffer) error
}

// Representation of caller formatted predicate text
type predicateCond struct {
	text string
}

func (p *predicateCond) SerializeSql(out *bytes.Buffer) error {
	if strings.TrimSpace(p.text) == "" {
		return errors.Newf("Empty predicate.  Generated sql: %s", out.String())
	}
	_, _ = out.WriteString(p.text)
	return nil
}

// Predicate wraps already formatted predicate text.
func Predicate(text string) Cond {
	return &predicateCond{text: text}
}

// Representation of "lhs op rhs"
type compareCond struct {
	lhs      string
	operator string
	rhs      string

	err error
}

func (c *compareCond) SerializeSql(out *bytes.Buffer) error {
	if c.err != nil {
		return errors.Wrap(c.err, "Invalid comparison")
	}
	if c.lhs == "" {
		return errors.Newf("Empty lhs.  Generated sql: %s", out.String())
	}
	if c.operator == "" {
		return errors.Newf("Empty operator.  Generated sql: %s", out.String())
	}

	_, _ = out.WriteString(c.lhs)
	_ = out.WriteByte(' ')
	_, _ = out.WriteString(c.operator)
	_ = out.WriteByte(' ')
	_, _ = out.WriteString(c.rhs)
	return nil
}

// Compare returns a representation of "lhs operator rhs".  Both sides are
// used verbatim.
func Compare(lhs, operator, rhs string) Cond {
	return &compareCond{lhs: lhs, operator: operator, rhs: rhs}
}

// CompareL is Compare with a literal right hand side.  Comparing against nil
// with "=" / "!=" / "<>" yields IS NULL / IS NOT NULL.
func CompareL(lhs, operator string, value interface{}) Cond {
	literal, err := sqltypes.BuildValue(value)
	if err != nil {
		return &compareCond{err: err}
	}

	if literal.IsNull() {
		switch operator {
		case "=":
			operator = "IS"
		case "!=", "<>":
			operator = "IS NOT"
		}
	}

	buf := &bytes.Buffer{}
	literal.EncodeSql(buf)
	return &compareCond{lhs: lhs, operator: operator, rhs: buf.String()}
}

// Representation of "lhs IN (v0, ..., vn)"
type inCond struct {
	lhs    string
	values []sqltypes.Value

	err error
}

func (c *inCond) SerializeSql(out *bytes.Buffer) error {
	if c.err != nil {
		return errors.Wrap(c.err, "Invalid IN condition")
	}
	if c.lhs == "" {
		return errors.Newf(
			"lhs of in condition is empty.  Generated sql: %s",
			out.String())
	}

	if len(c.values) == 0 {
		_, _ = out.WriteString("FALSE")
		return nil
	}

	_, _ = out.WriteString(c.lhs)
	_, _ = out.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			_, _ = out.WriteString(", ")
		}
		v.EncodeSql(out)
	}
	_ = out.WriteByte(')')
	return nil
}

// In returns a representation of "lhs IN (values...)".  An empty value list
// serializes to FALSE.
func In(lhs string, values ...interface{}) Cond {
	literals := make([]sqltypes.Value, 0, len(values))
	for _, v := range values {
		literal, err := sqltypes.BuildValue(v)
		if err != nil {
			return &inCond{err: err}
		}
		literals = append(literals, literal)
	}
	return &inCond{lhs: lhs, values: literals}
}

// Representation of n-ary conjunctions (AND/OR)
type conjunctCond struct {
	conds       []Cond
	conjunction []byte
}

func (conj *conjunctCond) SerializeSql(out *bytes.Buffer) (err error) {
	if len(conj.conds) == 0 {
		return errors.Newf(
			"Empty conjunction.  Generated sql: %s",
			out.String())
	}

	useParentheses := len(conj.conds) > 1
	if useParentheses {
		_ = out.WriteByte('(')
	}

	for i, c := range conj.conds {
		if i > 0 {
			_, _ = out.Write(conj.conjunction)
		}
		if c == nil {
			return errors.Newf("nil condition.  Generated sql: %s", out.String())
		}
		if err = c.SerializeSql(out); err != nil {
			return
		}
	}

	if useParentheses {
		_ = out.WriteByte(')')
	}
	return nil
}

// Returns a representation of "c[0] AND ... AND c[n-1]"
func And(conds ...Cond) Cond {
	return &conjunctCond{conds: conds, conjunction: []byte(" AND ")}
}

// Returns a representation of "c[0] OR ... OR c[n-1]"
func Or(conds ...Cond) Cond {
	return &conjunctCond{conds: conds, conjunction: []byte(" OR ")}
}

// Representation of a wrapped condition, e.g. "NOT (c)" or "(c)"
type wrapCond struct {
	prefix string
	nested Cond
}

func (w *wrapCond) SerializeSql(out *bytes.Buffer) (err error) {
	_, _ = out.WriteString(w.prefix)
	_ = out.WriteByte('(')

	if w.nested == nil {
		return errors.Newf("nil nested.  Generated sql: %s", out.String())
	}
	if err = w.nested.SerializeSql(out); err != nil {
		return
	}

	_ = out.WriteByte(')')
	return nil
}

// Returns a representation of "NOT (c)"
func Not(c Cond) Cond {
	return &wrapCond{prefix: "NOT ", nested: c}
}

// Returns a representation of "(c)".  And / Or of several conditions are
// already parenthesized; Group forces it for a single one.
func Group(c Cond) Cond {
	return &wrapCond{nested: c}
}

// SerializeCond renders a condition tree to a string.
func SerializeCond(c Cond) (string, error) {
	if c == nil {
		return "", errors.New("nil condition")
	}
	buf := &bytes.Buffer{}
	if err := c.SerializeSql(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WhereCond serializes c and adds it to the WHERE clause with the same
// connector rules as Where.  Nothing is added on error.
func (b *QueryBuilder) WhereCond(c Cond) error {
	return b.appendCond(WhereClause, c)
}

// HavingCond is WhereCond for the HAVING clause.
func (b *QueryBuilder) HavingCond(c Cond) error {
	return b.appendCond(HavingClause, c)
}

// OnCond is WhereCond for the ON part of the last join.
func (b *QueryBuilder) OnCond(c Cond) error {
	return b.appendCond(OnClause, c)
}

func (b *QueryBuilder) appendCond(clause ConditionClause, c Cond) error {
	sql, err := SerializeCond(c)
	if err != nil {
		return errors.Wrapf(err, "Invalid %s condition", clause)
	}
	b.appendCondition(clause, sql)
	return nil
}
