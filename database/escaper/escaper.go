// Package escaper quotes identifiers and renders literal values for a SQL
// dialect before they are handed to a dmlbuilder.QueryBuilder, which treats
// every fragment as opaque text.
package escaper

import (
	"bytes"
	"strings"

	"github.com/lib/pq"

	"github.com/gravitydb/gravity/database/sqltypes"
	"github.com/gravitydb/gravity/errors"
)

// Supported dialect names.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
)

// Escaper turns raw names and Go values into SQL text.
type Escaper interface {
	// Column quotes a (possibly dotted) column reference, with an optional
	// alias.
	Column(name string, alias string) string

	// Table quotes a (possibly schema qualified) table reference, with an
	// optional alias.
	Table(name string, alias string) string

	// Value renders v as a SQL literal.
	Value(v interface{}) (string, error)
}

// ForDialect returns the escaper for the named dialect.
func ForDialect(dialect string) (Escaper, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case MySQL, "":
		return mysqlEscaper{}, nil
	case Postgres, "postgresql":
		return postgresEscaper{}, nil
	}
	return nil, errors.Newf("Unsupported dialect: %s", dialect)
}

type mysqlEscaper struct{}

func (mysqlEscaper) Column(name string, alias string) string {
	return withAlias(quoteDotted(name, backtick), backtick(alias))
}

func (mysqlEscaper) Table(name string, alias string) string {
	return withAlias(quoteDotted(name, backtick), backtick(alias))
}

func (mysqlEscaper) Value(v interface{}) (string, error) {
	literal, err := sqltypes.BuildValue(v)
	if err != nil {
		return "", errors.Wrap(err, "Cannot escape value")
	}
	buf := &bytes.Buffer{}
	literal.EncodeSql(buf)
	return buf.String(), nil
}

type postgresEscaper struct{}

func (postgresEscaper) Column(name string, alias string) string {
	return withAlias(quoteDotted(name, doubleQuote), doubleQuote(alias))
}

func (postgresEscaper) Table(name string, alias string) string {
	return withAlias(quoteDotted(name, doubleQuote), doubleQuote(alias))
}

func (postgresEscaper) Value(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return pq.QuoteLiteral(val), nil
	case []byte:
		return pq.QuoteLiteral(string(val)), nil
	case bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	}

	// Numbers, times and NULL render the same in both dialects.
	literal, err := sqltypes.BuildValue(v)
	if err != nil {
		return "", errors.Wrap(err, "Cannot escape value")
	}
	if literal.IsString() {
		return pq.QuoteLiteral(literal.String()), nil
	}
	buf := &bytes.Buffer{}
	literal.EncodeSql(buf)
	return buf.String(), nil
}

func backtick(name string) string {
	if name == "" {
		return ""
	}
	return "`" + strings.Replace(name, "`", "``", -1) + "`"
}

func doubleQuote(name string) string {
	if name == "" {
		return ""
	}
	return pq.QuoteIdentifier(name)
}

// quoteDotted quotes each part of a dotted reference.  "*" is left as is so
// "t.*" stays a wildcard.
func quoteDotted(name string, quote func(string) string) string {
	parts := strings.Split(strings.TrimSpace(name), ".")
	for i, part := range parts {
		if part == "*" {
			continue
		}
		parts[i] = quote(part)
	}
	return strings.Join(parts, ".")
}

func withAlias(quoted string, alias string) string {
	if alias == "" {
		return quoted
	}
	return quoted + " AS " + alias
}
