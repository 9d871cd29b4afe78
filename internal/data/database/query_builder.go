package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThanOrEqual ConditionType = ">="
	LessThan           ConditionType = "<"
	ILike              ConditionType = "ILIKE"
	Any                ConditionType = "ANY"
	Custom             ConditionType = "CUSTOM"
	defaultLimit                     = -1
	defaultOffset                    = -1
)

// Condition is a single predicate in a WHERE clause. All predicates are ANDed.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery string
	rawArgs  []any
}

// WhereCond builds a column predicate. Field may be qualified ("j.title").
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // panic prevents misuse; custom conditions must provide raw SQL via WhereRawCond.
		panic("Use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond embeds a raw SQL fragment. Placeholders are written as ?
// and renumbered into $n when the query is built.
func WhereRawCond(rawQuery string, params ...any) Condition {
	return Condition{Type: Custom, rawQuery: rawQuery, rawArgs: params}
}

// ContainsPattern wraps s for a substring ILIKE match, escaping LIKE metacharacters.
func ContainsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions starts a query against table. Table may include a join
// expression supplied by the repository (never user input).
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly sets the query to count only.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

// sanitizeQualifiedIdentifier quotes identifiers like "column" or "table.column".
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// processColumnSpec quotes a column and its optional alias ("j.title AS job_title").
func processColumnSpec(spec string) string {
	upper := strings.ToUpper(spec)
	if i := strings.Index(upper, " AS "); i > 0 {
		expr := strings.TrimSpace(spec[:i])
		alias := strings.TrimSpace(spec[i+4:])
		return sanitizeQualifiedIdentifier(expr) + " AS " + pgx.Identifier{alias}.Sanitize()
	}
	return sanitizeQualifiedIdentifier(strings.TrimSpace(spec))
}

func buildSelectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	cols := make([]string, len(options.Columns))
	for i, c := range options.Columns {
		cols[i] = processColumnSpec(c)
	}
	return "SELECT " + strings.Join(cols, ", ") + " "
}

func buildWhereClause(conds []Condition, startParam int) (string, []any, int) {
	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	param := startParam

	for _, cond := range conds {
		switch cond.Type {
		case Custom:
			frag := cond.rawQuery
			for _, a := range cond.rawArgs {
				frag = strings.Replace(frag, "?", "$"+strconv.Itoa(param), 1)
				args = append(args, a)
				param++
			}
			parts = append(parts, "("+frag+")")
		case Any:
			parts = append(parts, fmt.Sprintf("%s = ANY($%d)", sanitizeQualifiedIdentifier(cond.Field), param))
			args = append(args, cond.Value)
			param++
		case ILike:
			parts = append(parts, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, sanitizeQualifiedIdentifier(cond.Field), param))
			args = append(args, cond.Value)
			param++
		case Equal, NotEqual, GreaterThanOrEqual, LessThan:
			parts = append(parts, fmt.Sprintf("%s %s $%d", sanitizeQualifiedIdentifier(cond.Field), cond.Type, param))
			args = append(args, cond.Value)
			param++
		}
	}

	if len(parts) == 0 {
		return "", args, param
	}
	return "WHERE " + strings.Join(parts, " AND "), args, param
}

func buildPaginationAndOrderClause(options *ListQueryOptions, startParam int, args []any) (string, []any) {
	var clause strings.Builder
	param := startParam

	if options.OrderBy != "" {
		clause.WriteString(" ORDER BY ")
		clause.WriteString(sanitizeQualifiedIdentifier(options.OrderBy))
		if dir := strings.ToUpper(options.OrderDir); dir == "ASC" || dir == "DESC" {
			clause.WriteString(" " + dir)
		}
	}
	if options.Limit != defaultLimit {
		clause.WriteString(fmt.Sprintf(" LIMIT $%d", param))
		args = append(args, options.Limit)
		param++
	}
	if options.Offset != defaultOffset {
		clause.WriteString(fmt.Sprintf(" OFFSET $%d", param))
		args = append(args, options.Offset)
	}
	return clause.String(), args
}

// BuildListQuery constructs a SQL query string and arguments from options, sanitizing identifiers.
//
// Example usage:
//
//	options := NewListQueryOptions("jobs",
//		WithColumns("id", "title"),
//		WithCondition(WhereCond("title", ILike, ContainsPattern("go"))),
//		WithCondition(WhereCond("posted_at", GreaterThanOrEqual, since)),
//		WithOrderBy("posted_at", "DESC"),
//		WithLimit(10),
//		WithOffset(0),
//	)
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString("FROM ")
	query.WriteString(options.Table)

	whereClause, args, next := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}
	if options.CountOnly {
		return query.String(), args
	}

	tail, args := buildPaginationAndOrderClause(options, next, args)
	query.WriteString(tail)
	return query.String(), args
}
