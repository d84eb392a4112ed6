package querydoc

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gravitydb/gravity/database/dmlbuilder"
	"github.com/gravitydb/gravity/database/escaper"
	"github.com/gravitydb/gravity/errors"
)

// Fragment is SQL text taken verbatim.  Numbers and booleans in the
// document are accepted and kept as written.
type Fragment string

func (f *Fragment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Fragment(s)
		return nil
	}
	if len(data) == 0 || data[0] == '{' || data[0] == '[' {
		return errors.Newf("Expected a scalar SQL fragment, got %s", data)
	}
	if string(data) == "null" {
		*f = "NULL"
		return nil
	}
	*f = Fragment(data)
	return nil
}

// Condition is one node of a WHERE / HAVING / ON condition list.  It is
// written either as a predicate string, as {and: [...]} / {or: [...]}, or
// as {column: c, op: "=", value: v} where v is quoted for the dialect.
type Condition struct {
	Text string

	And []Condition
	Or  []Condition

	Column string
	Op     string
	Value  interface{}
}

type conditionObject struct {
	And    []Condition `json:"and"`
	Or     []Condition `json:"or"`
	Column string      `json:"column"`
	Op     string      `json:"op"`
	Value  interface{} `json:"value"`
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("Empty condition")
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("Empty predicate")
		}
		*c = Condition{Text: text}
		return nil
	case '{':
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()

		obj := conditionObject{}
		if err := decoder.Decode(&obj); err != nil {
			return err
		}

		forms := 0
		if obj.And != nil {
			forms++
		}
		if obj.Or != nil {
			forms++
		}
		if obj.Column != "" {
			forms++
		}
		if forms != 1 {
			return errors.New(
				"A condition object needs exactly one of and, or, column")
		}
		if obj.Column == "" && (obj.Op != "" || obj.Value != nil) {
			return errors.New("op and value require a column")
		}
		if obj.And != nil && len(obj.And) == 0 ||
			obj.Or != nil && len(obj.Or) == 0 {

			return errors.New("Empty condition group")
		}

		*c = Condition{
			And:    obj.And,
			Or:     obj.Or,
			Column: obj.Column,
			Op:     obj.Op,
			Value:  obj.Value,
		}
		return nil
	}
	return errors.Newf("Unexpected condition: %s", data)
}

// applyConditions adds conds to clause, AND-connected.
func applyConditions(
	b *dmlbuilder.QueryBuilder,
	esc escaper.Escaper,
	clause dmlbuilder.ConditionClause,
	conds []Condition) error {

	for _, cond := range conds {
		if err := applyCondition(b, esc, clause, cond, ""); err != nil {
			return err
		}
	}
	return nil
}

func applyCondition(
	b *dmlbuilder.QueryBuilder,
	esc escaper.Escaper,
	clause dmlbuilder.ConditionClause,
	cond Condition,
	connector string) error {

	if connector != "" {
		b.Connector(connector)
	}

	switch {
	case cond.Text != "":
		addPredicate(b, clause, cond.Text)
	case cond.Column != "":
		value, err := esc.Value(cond.Value)
		if err != nil {
			return errors.Wrapf(err, "Invalid value for %s", cond.Column)
		}
		op := strings.ToUpper(strings.TrimSpace(cond.Op))
		if op == "" {
			op = "="
		}
		if cond.Value == nil {
			switch op {
			case "=":
				op = "IS"
			case "!=", "<>":
				op = "IS NOT"
			}
		}
		b.Condition(esc.Column(cond.Column, ""), op, value, clause)
	case len(cond.And) > 0:
		return applyGroup(b, esc, clause, cond.And, "AND")
	case len(cond.Or) > 0:
		return applyGroup(b, esc, clause, cond.Or, "OR")
	default:
		return errors.New("Empty condition")
	}
	return nil
}

func applyGroup(
	b *dmlbuilder.QueryBuilder,
	esc escaper.Escaper,
	clause dmlbuilder.ConditionClause,
	members []Condition,
	connector string) error {

	b.GroupStart(clause)
	for i, member := range members {
		memberConnector := connector
		if i == 0 {
			memberConnector = ""
		}
		if err := applyCondition(b, esc, clause, member, memberConnector); err != nil {
			return err
		}
	}
	b.GroupEnd(clause)
	return nil
}

func addPredicate(
	b *dmlbuilder.QueryBuilder,
	clause dmlbuilder.ConditionClause,
	text string) {

	switch clause {
	case dmlbuilder.HavingClause:
		b.Having(text)
	case dmlbuilder.OnClause:
		b.On(text)
	default:
		b.Where(text)
	}
}
