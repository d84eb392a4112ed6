package dmlbuilder

import (
	"bytes"
	"time"

	gc "gopkg.in/check.v1"

	"github.com/gravitydb/gravity/gocheck2"
)

type CondSuite struct {
}

var _ = gc.Suite(&CondSuite{})

func serialize(c *gc.C, cond Cond) string {
	sql, err := SerializeCond(cond)
	c.Assert(err, gc.IsNil)
	return sql
}

func (s *CondSuite) TestPredicate(c *gc.C) {
	c.Assert(serialize(c, Predicate("a = b")), gc.Equals, "a = b")

	_, err := SerializeCond(Predicate("  "))
	c.Assert(err, gc.NotNil)
}

func (s *CondSuite) TestCompare(c *gc.C) {
	c.Assert(serialize(c, Compare("t.a", "<=", "t.b")), gc.Equals, "t.a <= t.b")

	_, err := SerializeCond(Compare("", "=", "1"))
	c.Assert(err, gc.NotNil)

	_, err = SerializeCond(Compare("a", "", "1"))
	c.Assert(err, gc.NotNil)
}

func (s *CondSuite) TestCompareLiteral(c *gc.C) {
	c.Assert(serialize(c, CompareL("a", "=", 123)), gc.Equals, "a = 123")
	c.Assert(serialize(c, CompareL("a", "LIKE", "it's%")), gc.Equals, "a LIKE 'it\\'s%'")
	c.Assert(serialize(c, CompareL("a", "=", nil)), gc.Equals, "a IS NULL")
	c.Assert(serialize(c, CompareL("a", "<>", nil)), gc.Equals, "a IS NOT NULL")

	date := time.Date(1999, 1, 2, 3, 4, 5, 0, time.UTC)
	c.Assert(
		serialize(c, CompareL("t.ts", ">", date)),
		gc.Equals,
		"t.ts > '1999-01-02 03:04:05'")

	_, err := SerializeCond(CompareL("a", "=", struct{}{}))
	c.Assert(err, gc.NotNil)
}

func (s *CondSuite) TestIn(c *gc.C) {
	c.Assert(serialize(c, In("a", 1, 2, 3)), gc.Equals, "a IN (1, 2, 3)")
	c.Assert(serialize(c, In("a", "x", "y")), gc.Equals, "a IN ('x', 'y')")
	c.Assert(serialize(c, In("a")), gc.Equals, "FALSE")

	_, err := SerializeCond(In("a", 1, []int{2}))
	c.Assert(err, gc.NotNil)
}

func (s *CondSuite) TestConjunctions(c *gc.C) {
	cond := Or(
		And(Predicate("a = 1"), Predicate("b = 2")),
		Predicate("c = 3"))

	sql := serialize(c, cond)
	c.Assert(sql, gc.Equals, "((a = 1 AND b = 2) OR c = 3)")
	c.Assert(sql, gocheck2.BalancedParens)

	// A single child is not parenthesized.
	c.Assert(serialize(c, And(Predicate("a = 1"))), gc.Equals, "a = 1")

	_, err := SerializeCond(And())
	c.Assert(err, gc.NotNil)

	_, err = SerializeCond(Or(Predicate("a = 1"), nil))
	c.Assert(err, gc.NotNil)
}

func (s *CondSuite) TestNotAndGroup(c *gc.C) {
	c.Assert(serialize(c, Not(Predicate("a = 1"))), gc.Equals, "NOT (a = 1)")
	c.Assert(serialize(c, Group(Predicate("a = 1"))), gc.Equals, "(a = 1)")

	_, err := SerializeCond(Not(nil))
	c.Assert(err, gc.NotNil)

	_, err = SerializeCond(nil)
	c.Assert(err, gc.NotNil)
}

func (s *CondSuite) TestSerializeSqlAppendsToBuffer(c *gc.C) {
	buf := bytes.NewBufferString("WHERE ")

	err := Predicate("a = 1").SerializeSql(buf)

	c.Assert(err, gc.IsNil)
	c.Assert(buf.String(), gc.Equals, "WHERE a = 1")
}

func (s *CondSuite) TestWhereCond(c *gc.C) {
	b := New().Select("a").From("t")

	err := b.WhereCond(Or(CompareL("a", "=", 1), CompareL("b", "=", "x")))
	c.Assert(err, gc.IsNil)
	err = b.WhereCond(Not(In("c", 1, 2)))
	c.Assert(err, gc.IsNil)

	sql, err := b.GetSelectQuery()
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT a FROM t WHERE (a = 1 OR b = 'x') AND NOT (c IN (1, 2))")
}

func (s *CondSuite) TestHavingAndOnCond(c *gc.C) {
	b := New().Select("a").From("t1").Join("t2", "INNER")

	c.Assert(b.OnCond(Compare("t1.id", "=", "t2.id")), gc.IsNil)
	c.Assert(b.HavingCond(CompareL("COUNT(*)", ">", 1)), gc.IsNil)
	b.GroupBy("a")

	sql, err := b.GetSelectQuery()
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT a FROM t1 INNER JOIN t2 ON t1.id = t2.id GROUP BY a HAVING COUNT(*) > 1")
}

func (s *CondSuite) TestInvalidCondLeavesStateUntouched(c *gc.C) {
	b := New()

	err := b.WhereCond(And())

	c.Assert(err, gc.NotNil)
	c.Assert(b.where, gc.Equals, "")
}
