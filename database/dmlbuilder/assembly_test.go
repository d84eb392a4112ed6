package dmlbuilder

import (
	gc "gopkg.in/check.v1"

	"github.com/gravitydb/gravity/errors"
	"github.com/gravitydb/gravity/gocheck2"
)

type AssemblySuite struct {
	b *QueryBuilder
}

var _ = gc.Suite(&AssemblySuite{})

func (s *AssemblySuite) SetUpTest(c *gc.C) {
	s.b = New()
}

// setUpdateParts fills the fragments shared by the UPDATE tests.
func (s *AssemblySuite) setUpdateParts() {
	s.b.updateMode = []string{"LOW_PRIORITY", "IGNORE"}
	s.b.set = "SET col1 = val1, col2 = val2"
	s.b.where = "WHERE 1 = 1"
	s.b.orderBy = "ORDER BY col1"
	s.b.limit = "LIMIT 10"
}

func assertMissingTable(c *gc.C, sql string, err error, msg string) {
	c.Assert(sql, gc.Equals, "")
	c.Assert(err, gc.NotNil)
	c.Assert(IsMissingTableReference(err), gocheck2.IsTrue)
	c.Assert(errors.GetMessage(err), gc.Equals, msg)
}

//
// UPDATE
//

func (s *AssemblySuite) TestGetUpdateQueryWithNoTable(c *gc.C) {
	s.setUpdateParts()

	sql, err := s.b.GetUpdateQuery()

	assertMissingTable(c, sql, err, "No update() in update query!")
}

func (s *AssemblySuite) TestGetUpdateQueryForSingleTable(c *gc.C) {
	s.setUpdateParts()
	s.b.update = "table1"

	sql, err := s.b.GetUpdateQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"UPDATE LOW_PRIORITY IGNORE table1 SET col1 = val1, col2 = val2 "+
			"WHERE 1 = 1 ORDER BY col1 LIMIT 10")
}

func (s *AssemblySuite) TestGetUpdateQueryForMultipleTables(c *gc.C) {
	s.setUpdateParts()
	s.b.update = "table1, table2"

	sql, err := s.b.GetUpdateQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"UPDATE LOW_PRIORITY IGNORE table1, table2 "+
			"SET col1 = val1, col2 = val2 WHERE 1 = 1")
}

func (s *AssemblySuite) TestGetUpdateQueryForMultipleTablesWithJoin(c *gc.C) {
	s.setUpdateParts()
	s.b.update = "table1"
	s.b.join = "INNER JOIN table2"

	sql, err := s.b.GetUpdateQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"UPDATE LOW_PRIORITY IGNORE table1 INNER JOIN table2 "+
			"SET col1 = val1, col2 = val2 WHERE 1 = 1")
}

func (s *AssemblySuite) TestGetUpdateQueryWithDuplicateUpdateModes(c *gc.C) {
	s.b.Update("table1").Set("a", "1")
	s.b.UpdateMode("IGNORE").UpdateMode("LOW_PRIORITY").UpdateMode("IGNORE")

	sql, err := s.b.GetUpdateQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "UPDATE IGNORE LOW_PRIORITY table1 SET a = 1")
}

func (s *AssemblySuite) TestGetUpdateQueryThroughPublicCalls(c *gc.C) {
	s.b.Update("table1").
		Set("col1", "val1").
		Condition("id", "=", "5", WhereClause).
		OrderBy("col1", Ascending).
		Limit(1)

	sql, err := s.b.GetUpdateQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"UPDATE table1 SET col1 = val1 WHERE id = 5 ORDER BY col1 ASC LIMIT 1")
	c.Assert(sql, gocheck2.NormalizedSQL)
}

//
// SELECT
//

func (s *AssemblySuite) TestGetSelectQueryWithNoTable(c *gc.C) {
	s.b.Select("a")

	sql, err := s.b.GetSelectQuery()

	assertMissingTable(c, sql, err, "No from() in select query!")
}

func (s *AssemblySuite) TestGetSelectQueryDefaultsToStar(c *gc.C) {
	s.b.From("table1")

	sql, err := s.b.GetSelectQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "SELECT * FROM table1")
}

func (s *AssemblySuite) TestGetSelectQueryAllClauses(c *gc.C) {
	s.b.SelectMode("DISTINCT").SelectMode("SQL_NO_CACHE").SelectMode("DISTINCT")
	s.b.Select("t1.a").Select("COUNT(*) AS n")
	s.b.From("table1 t1")
	s.b.Join("table2 t2", "LEFT").On("t1.id = t2.id")
	s.b.Where("t1.a > 1").Or().Where("t2.b IS NULL")
	s.b.GroupBy("t1.a")
	s.b.Having("n > 2")
	s.b.OrderBy("n", Descending)
	s.b.LimitOffset(10, 5)
	s.b.LockMode("FOR UPDATE")

	sql, err := s.b.GetSelectQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT DISTINCT SQL_NO_CACHE t1.a, COUNT(*) AS n FROM table1 t1 "+
			"LEFT JOIN table2 t2 ON t1.id = t2.id "+
			"WHERE t1.a > 1 OR t2.b IS NULL GROUP BY t1.a HAVING n > 2 "+
			"ORDER BY n DESC LIMIT 10 OFFSET 5 FOR UPDATE")
	c.Assert(sql, gocheck2.NormalizedSQL)
}

func (s *AssemblySuite) TestGetSelectQueryWithGroupedConditions(c *gc.C) {
	s.b.Select("a").From("t")
	s.b.Where("a = 1")
	s.b.GroupStart(WhereClause)
	s.b.Where("b = 2").Or().Where("c = 3")
	s.b.GroupEnd(WhereClause)

	sql, err := s.b.GetSelectQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "SELECT a FROM t WHERE a = 1 AND (b = 2 OR c = 3)")
	c.Assert(sql, gocheck2.BalancedParens)
}

func (s *AssemblySuite) TestGetSelectQueryWithCompound(c *gc.C) {
	s.b.Select("a").From("t1").Union("SELECT a FROM t2")

	sql, err := s.b.GetSelectQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "(SELECT a FROM t1) UNION (SELECT a FROM t2)")
}

func (s *AssemblySuite) TestGetSelectQueryWithCommonTableExpression(c *gc.C) {
	s.b.With("recent", "SELECT id FROM t WHERE ts > 1")
	s.b.Select("id").From("recent")

	sql, err := s.b.GetSelectQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"WITH recent AS (SELECT id FROM t WHERE ts > 1) SELECT id FROM recent")
}

//
// DELETE
//

func (s *AssemblySuite) TestGetDeleteQueryWithNoTable(c *gc.C) {
	s.b.Where("a = 1")

	sql, err := s.b.GetDeleteQuery()

	assertMissingTable(c, sql, err, "No from() in delete query!")
}

func (s *AssemblySuite) TestGetDeleteQueryForSingleTable(c *gc.C) {
	s.b.DeleteMode("LOW_PRIORITY").DeleteMode("QUICK")
	s.b.From("table1").Where("a = 1").OrderBy("a", Ascending).Limit(10)

	sql, err := s.b.GetDeleteQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"DELETE LOW_PRIORITY QUICK FROM table1 WHERE a = 1 ORDER BY a ASC LIMIT 10")
}

func (s *AssemblySuite) TestGetDeleteQueryForMultipleTables(c *gc.C) {
	s.b.Delete("t1").From("t1").Join("t2", "INNER").On("t1.id = t2.id")
	s.b.Where("t2.x = 1").OrderBy("t1.id", Ascending).Limit(10)

	sql, err := s.b.GetDeleteQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"DELETE t1 FROM t1 INNER JOIN t2 ON t1.id = t2.id WHERE t2.x = 1")
}

func (s *AssemblySuite) TestGetDeleteQueryFromTableList(c *gc.C) {
	s.b.From("t1").From("t2").Limit(10)

	sql, err := s.b.GetDeleteQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "DELETE FROM t1, t2")
}

//
// INSERT / REPLACE
//

func (s *AssemblySuite) TestGetInsertQueryWithNoTable(c *gc.C) {
	s.b.Values("1")

	sql, err := s.b.GetInsertQuery()

	assertMissingTable(c, sql, err, "No into() in insert query!")
}

func (s *AssemblySuite) TestGetInsertQueryWithValues(c *gc.C) {
	s.b.InsertMode("IGNORE").Into("table1")
	s.b.ColumnNames("a", "b").Values("1", "2").Values("3", "4")

	sql, err := s.b.GetInsertQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "INSERT IGNORE INTO table1 (a, b) VALUES (1, 2), (3, 4)")
}

func (s *AssemblySuite) TestGetInsertQueryWithSet(c *gc.C) {
	s.b.Into("table1").Set("a", "1").Values("ignored")

	sql, err := s.b.GetInsertQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "INSERT INTO table1 SET a = 1")
}

func (s *AssemblySuite) TestGetInsertQueryWithSelectStatement(c *gc.C) {
	s.b.Into("table1").ColumnNames("a").SelectStatement("SELECT a FROM t2")

	sql, err := s.b.GetInsertQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "INSERT INTO table1 (a) SELECT a FROM t2")
}

func (s *AssemblySuite) TestGetReplaceQueryWithNoTable(c *gc.C) {
	sql, err := s.b.GetReplaceQuery()

	assertMissingTable(c, sql, err, "No into() in replace query!")
}

func (s *AssemblySuite) TestGetReplaceQueryDropsIgnore(c *gc.C) {
	s.b.InsertMode("LOW_PRIORITY").InsertMode("IGNORE").Into("table1")
	s.b.ColumnNames("a").Values("1")

	sql, err := s.b.GetReplaceQuery()

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "REPLACE LOW_PRIORITY INTO table1 (a) VALUES (1)")
}

//
// helpers
//

func (s *AssemblySuite) TestImplodeSkipsEmptyComponents(c *gc.C) {
	c.Assert(implode("", "A", "", "B", ""), gc.Equals, "A B")
	c.Assert(implode(), gc.Equals, "")
}

func (s *AssemblySuite) TestImplodeModes(c *gc.C) {
	c.Assert(implodeModes(nil), gc.Equals, "")
	c.Assert(implodeModes([]string{"A", "", "B", "A"}), gc.Equals, "A B")
}
