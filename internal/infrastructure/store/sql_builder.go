package store

import (
	"strconv"
	"strings"
)

// selectQuery describes a single read-only SELECT statement. It renders
// PostgreSQL syntax with positional ($n) placeholders; arguments are numbered
// in rendering order, so a subquery's arguments come before the outer
// query's WHERE and LIMIT arguments.
type selectQuery struct {
	columns  []string
	from     string
	fromSub  *selectQuery
	subAlias string
	joins    []joinClause
	where    []whereClause
	groupBy  []string
	orderBy  []string
	limit    *int
}

type joinClause struct {
	table string
	on    string
}

type whereClause struct {
	column string
	op     string
	arg    any
}

func newSelect(columns ...string) *selectQuery {
	return &selectQuery{columns: columns}
}

func (q *selectQuery) From(table string) *selectQuery {
	q.from = table
	q.fromSub = nil
	return q
}

// FromSubquery selects from a derived table named alias.
func (q *selectQuery) FromSubquery(sub *selectQuery, alias string) *selectQuery {
	q.from = ""
	q.fromSub = sub
	q.subAlias = alias
	return q
}

func (q *selectQuery) Join(table, on string) *selectQuery {
	q.joins = append(q.joins, joinClause{table: table, on: on})
	return q
}

// Where adds "column op $n" with arg bound to $n. Multiple calls are ANDed.
func (q *selectQuery) Where(column, op string, arg any) *selectQuery {
	q.where = append(q.where, whereClause{column: column, op: op, arg: arg})
	return q
}

func (q *selectQuery) GroupBy(columns ...string) *selectQuery {
	q.groupBy = append(q.groupBy, columns...)
	return q
}

func (q *selectQuery) OrderBy(terms ...string) *selectQuery {
	q.orderBy = append(q.orderBy, terms...)
	return q
}

func (q *selectQuery) Limit(n int) *selectQuery {
	q.limit = &n
	return q
}

// SQL renders the statement and its bind arguments.
func (q *selectQuery) SQL() (string, []any) {
	var b strings.Builder
	var args []any
	q.render(&b, &args)
	return b.String(), args
}

func (q *selectQuery) render(b *strings.Builder, args *[]any) {
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.columns, ", "))

	b.WriteString(" FROM ")
	if q.fromSub != nil {
		b.WriteString("(")
		q.fromSub.render(b, args)
		b.WriteString(") AS ")
		b.WriteString(q.subAlias)
	} else {
		b.WriteString(q.from)
	}

	for _, j := range q.joins {
		b.WriteString(" JOIN ")
		b.WriteString(j.table)
		b.WriteString(" ON ")
		b.WriteString(j.on)
	}

	for i, w := range q.where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(w.column)
		b.WriteString(" ")
		b.WriteString(w.op)
		b.WriteString(" ")
		b.WriteString(bind(args, w.arg))
	}

	if len(q.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(q.groupBy, ", "))
	}
	if len(q.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orderBy, ", "))
	}
	if q.limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(bind(args, *q.limit))
	}
}

// bind appends arg and returns its placeholder.
func bind(args *[]any, arg any) string {
	*args = append(*args, arg)
	return "$" + strconv.Itoa(len(*args))
}

func desc(expr string) string {
	return expr + " DESC"
}

func as(expr, alias string) string {
	return expr + " AS " + alias
}
