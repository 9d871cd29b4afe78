package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_Basic(t *testing.T) {
	q, args := BuildListQuery(NewListQueryOptions("jobs",
		WithColumns("id", "title"),
		WithOrderBy("posted_at", "desc"),
		WithLimit(10),
		WithOffset(20),
	))
	assert.Equal(t, `SELECT "id", "title" FROM jobs ORDER BY "posted_at" DESC LIMIT $1 OFFSET $2`, q)
	assert.Equal(t, []any{10, 20}, args)
}

func TestBuildListQuery_Conditions(t *testing.T) {
	since := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	q, args := BuildListQuery(NewListQueryOptions("jobs j",
		WithColumns("j.id", "j.title AS job_title"),
		WithCondition(WhereCond("j.title", ILike, ContainsPattern("go"))),
		WithCondition(WhereCond("j.posted_at", GreaterThanOrEqual, since)),
		WithCondition(WhereRawCond("j.user_id = ? OR j.user_id = ?", "a", "b")),
		WithCondition(WhereCond("j.id", Any, []string{"x", "y"})),
		WithLimit(5),
	))
	assert.Equal(t,
		`SELECT "j"."id", "j"."title" AS "job_title" FROM jobs j `+
			`WHERE "j"."title" ILIKE $1 ESCAPE '\' AND "j"."posted_at" >= $2 `+
			`AND (j.user_id = $3 OR j.user_id = $4) AND "j"."id" = ANY($5) LIMIT $6`,
		q)
	assert.Equal(t, []any{"%go%", since, "a", "b", []string{"x", "y"}, 5}, args)
}

func TestBuildListQuery_CountOnly(t *testing.T) {
	q, args := BuildListQuery(NewListQueryOptions("notifications",
		WithCountOnly(),
		WithCondition(WhereCond("user_id", Equal, "u1")),
		WithCondition(WhereCond("is_read", Equal, false)),
		WithLimit(10),
	))
	assert.Equal(t, `SELECT COUNT(*) FROM notifications WHERE "user_id" = $1 AND "is_read" = $2`, q)
	assert.Equal(t, []any{"u1", false}, args)
}

func TestBuildListQuery_SanitizesIdentifiers(t *testing.T) {
	q, _ := BuildListQuery(NewListQueryOptions("jobs",
		WithColumns(`id"; DROP TABLE jobs; --`),
		WithOrderBy(`posted_at; DROP`, "sideways"),
	))
	assert.Equal(t, `SELECT "id""; DROP TABLE jobs; --" FROM jobs ORDER BY "posted_at; DROP"`, q)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%dev%", ContainsPattern(" dev "))
	assert.Equal(t, `%100\%\_off%`, ContainsPattern("100%_off"))
}

func TestWhereCond_CustomPanics(t *testing.T) {
	assert.Panics(t, func() { WhereCond("x", Custom, nil) })
}

func TestBuildListQuery_Nil(t *testing.T) {
	q, args := BuildListQuery(nil)
	assert.Empty(t, q)
	assert.Nil(t, args)
}
