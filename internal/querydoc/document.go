// Package querydoc reads YAML query documents and replays them through a
// dmlbuilder.QueryBuilder.
//
// A document describes exactly one statement:
//
//	kind: update
//	update: [table1]
//	modes: [LOW_PRIORITY]
//	set: {col1: val1}
//	joins: [{table: table2, kind: INNER, conditions: ["table1.id = table2.id"]}]
//	where: ["a = 1", {or: ["b = 2", {column: c, op: "<", value: 3}]}]
//	order_by: [{column: col1, desc: true}]
//	limit: {rows: 10}
package querydoc

import (
	"os"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/gravitydb/gravity/database/dmlbuilder"
	"github.com/gravitydb/gravity/database/escaper"
	"github.com/gravitydb/gravity/errors"
)

// Statement kinds.
const (
	KindSelect  = "select"
	KindUpdate  = "update"
	KindDelete  = "delete"
	KindInsert  = "insert"
	KindReplace = "replace"
)

// Document is a parsed query document.
type Document struct {
	Kind  string   `json:"kind"`
	Modes []string `json:"modes,omitempty"`

	With    []CommonTable `json:"with,omitempty"`
	Select  []string      `json:"select,omitempty"`
	From    []string      `json:"from,omitempty"`
	Update  []string      `json:"update,omitempty"`
	Delete  []string      `json:"delete,omitempty"`
	Into    string        `json:"into,omitempty"`
	Columns []string      `json:"columns,omitempty"`
	Values  [][]Fragment  `json:"values,omitempty"`
	Source  string        `json:"select_statement,omitempty"`

	// Set holds SQL expressions; SetValue holds literals that are quoted
	// for the target dialect.
	Set      map[string]Fragment    `json:"set,omitempty"`
	SetValue map[string]interface{} `json:"set_values,omitempty"`

	Joins    []Join      `json:"joins,omitempty"`
	Where    []Condition `json:"where,omitempty"`
	GroupBy  []string    `json:"group_by,omitempty"`
	Having   []Condition `json:"having,omitempty"`
	OrderBy  []Order     `json:"order_by,omitempty"`
	Limit    *Limit      `json:"limit,omitempty"`
	Lock     string      `json:"lock,omitempty"`
	Compound []Compound  `json:"compound,omitempty"`
}

// CommonTable is one "alias AS (query)" entry of a WITH clause.
type CommonTable struct {
	Alias string `json:"alias"`
	Query string `json:"query"`
}

// Join is one JOIN with its ON conditions.  The YAML key is "conditions"
// since a bare "on" key decodes as the boolean true.
type Join struct {
	Table      string      `json:"table"`
	Kind       string      `json:"kind,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`
}

// takesConditions reports whether the join kind carries an ON part.
func (j Join) takesConditions() bool {
	kind := strings.ToUpper(strings.TrimSpace(j.Kind))
	return !strings.HasPrefix(kind, "CROSS") && !strings.HasPrefix(kind, "NATURAL")
}

// Order is one ORDER BY term.
type Order struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc,omitempty"`
}

// Limit is the LIMIT clause.  A zero offset is omitted.
type Limit struct {
	Rows   int64 `json:"rows"`
	Offset int64 `json:"offset,omitempty"`
}

// Compound is a select combined with the main one.
type Compound struct {
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

// Parse decodes a YAML document.  Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.UnmarshalStrict(data, doc); err != nil {
		return nil, errors.Wrap(err, "Malformed query document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read query document %s", path)
	}
	return Parse(data)
}

// Validate checks what the builder itself does not.  Missing table
// references are left to statement assembly.
func (d *Document) Validate() error {
	switch d.kind() {
	case KindSelect, KindUpdate, KindDelete, KindInsert, KindReplace:
	case "":
		return errors.New("Query document has no kind")
	default:
		return errors.Newf("Unknown statement kind: %s", d.Kind)
	}

	for i, order := range d.OrderBy {
		if order.Column == "" {
			return errors.Newf("order_by[%d] has no column", i)
		}
	}
	for i, join := range d.Joins {
		if join.Table == "" {
			return errors.Newf("joins[%d] has no table", i)
		}
		if join.takesConditions() && len(join.Conditions) == 0 {
			return errors.Newf("joins[%d] (%s) has no conditions", i, join.Table)
		}
		if !join.takesConditions() && len(join.Conditions) > 0 {
			return errors.Newf(
				"joins[%d] (%s) is a %s join and takes no conditions",
				i, join.Table, strings.ToUpper(strings.TrimSpace(join.Kind)))
		}
	}
	if d.Limit != nil && (d.Limit.Rows < 0 || d.Limit.Offset < 0) {
		return errors.New("Negative limit")
	}
	return nil
}

func (d *Document) kind() string {
	return strings.ToLower(strings.TrimSpace(d.Kind))
}

// Apply replays the document into b through the public builder API.  esc
// renders structured conditions and set_values.
func (d *Document) Apply(b *dmlbuilder.QueryBuilder, esc escaper.Escaper) error {
	if err := d.Validate(); err != nil {
		return err
	}

	kind := d.kind()
	for _, mode := range d.Modes {
		switch kind {
		case KindSelect:
			b.SelectMode(mode)
		case KindUpdate:
			b.UpdateMode(mode)
		case KindDelete:
			b.DeleteMode(mode)
		default:
			b.InsertMode(mode)
		}
	}

	for _, cte := range d.With {
		b.With(cte.Alias, cte.Query)
	}
	for _, column := range d.Select {
		b.Select(column)
	}
	for _, table := range d.Update {
		b.Update(table)
	}
	for _, table := range d.Delete {
		b.Delete(table)
	}
	for _, table := range d.From {
		b.From(table)
	}
	if d.Into != "" {
		b.Into(d.Into)
	}

	for _, join := range d.Joins {
		b.Join(join.Table, join.Kind)
		if err := applyConditions(b, esc, dmlbuilder.OnClause, join.Conditions); err != nil {
			return errors.Wrapf(err, "Invalid ON condition of join %s", join.Table)
		}
	}

	if err := d.applySet(b, esc); err != nil {
		return err
	}

	if len(d.Columns) > 0 {
		b.ColumnNames(d.Columns...)
	}
	for _, row := range d.Values {
		b.Values(fragments(row)...)
	}
	if d.Source != "" {
		b.SelectStatement(d.Source)
	}

	if err := applyConditions(b, esc, dmlbuilder.WhereClause, d.Where); err != nil {
		return errors.Wrap(err, "Invalid WHERE condition")
	}
	for _, column := range d.GroupBy {
		b.GroupBy(column)
	}
	if err := applyConditions(b, esc, dmlbuilder.HavingClause, d.Having); err != nil {
		return errors.Wrap(err, "Invalid HAVING condition")
	}

	for _, order := range d.OrderBy {
		b.OrderBy(order.Column, !order.Desc)
	}
	if d.Limit != nil {
		if d.Limit.Offset > 0 {
			b.LimitOffset(d.Limit.Rows, d.Limit.Offset)
		} else {
			b.Limit(d.Limit.Rows)
		}
	}
	if d.Lock != "" {
		b.LockMode(d.Lock)
	}

	for _, compound := range d.Compound {
		b.Compound("("+compound.Query+")", strings.ToUpper(compound.Kind))
	}
	return nil
}

// Set entries are applied in sorted column order so output is stable.
func (d *Document) applySet(b *dmlbuilder.QueryBuilder, esc escaper.Escaper) error {
	for _, column := range sortedKeys(d.Set) {
		b.Set(column, string(d.Set[column]))
	}

	columns := make([]string, 0, len(d.SetValue))
	for column := range d.SetValue {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		value, err := esc.Value(d.SetValue[column])
		if err != nil {
			return errors.Wrapf(err, "Invalid value for column %s", column)
		}
		b.Set(esc.Column(column, ""), value)
	}
	return nil
}

// Render assembles the statement the document describes.
func (d *Document) Render(esc escaper.Escaper) (string, error) {
	b := dmlbuilder.New()
	if err := d.Apply(b, esc); err != nil {
		return "", err
	}

	switch d.kind() {
	case KindSelect:
		return b.GetSelectQuery()
	case KindUpdate:
		return b.GetUpdateQuery()
	case KindDelete:
		return b.GetDeleteQuery()
	case KindInsert:
		return b.GetInsertQuery()
	default:
		return b.GetReplaceQuery()
	}
}

func sortedKeys(m map[string]Fragment) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fragments(row []Fragment) []string {
	out := make([]string, len(row))
	for i, f := range row {
		out[i] = string(f)
	}
	return out
}
