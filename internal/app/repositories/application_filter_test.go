package repositories

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestBuildApplicationQueryWithoutFilters(t *testing.T) {
	sql, args, err := buildApplicationQuery(testBuilder, ApplicationQuery{}).ToSql()
	require.NoError(t, err)

	assert.Empty(t, args)
	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "FROM applications a JOIN users u ON u.id = a.user_id")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY a.submitted_at DESC, a.id DESC"), sql)
}

func TestBuildApplicationQueryCombinesCategories(t *testing.T) {
	sql, args, err := buildApplicationQuery(testBuilder, ApplicationQuery{
		NameFragments:  []string{"sam", "lee"},
		SessionTypes:   []string{"tutor"},
		Availabilities: []string{"part-time", "full-time"},
		Skills:         []string{"go", "react"},
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "(u.first_name ILIKE $1 OR u.last_name ILIKE $2 OR (u.first_name || ' ' || u.last_name) ILIKE $3)")
	assert.Contains(t, sql, " OR (u.first_name ILIKE $4")
	assert.Contains(t, sql, "LOWER(a.session_type) IN ($7)")
	assert.Contains(t, sql, "LOWER(a.availability) IN ($8,$9)")
	assert.Contains(t, sql, "sk.skill_name = ANY($10)")
	assert.Contains(t, sql, "IN ($7) AND LOWER(a.availability) IN ($8,$9) AND EXISTS")

	require.Len(t, args, 10)
	assert.Equal(t, "%sam%", args[0])
	assert.Equal(t, "%lee%", args[3])
	assert.Equal(t, []string{"go", "react"}, args[9])
}

func TestBuildApplicationQueryGeneralSearch(t *testing.T) {
	sql, args, err := buildApplicationQuery(testBuilder, ApplicationQuery{GeneralSearch: "COSC2758 Full"}).ToSql()
	require.NoError(t, err)

	for _, fragment := range []string{
		"a.availability ILIKE",
		"sk.skill_name ILIKE",
		"c.course_code ILIKE",
		"c.name ILIKE",
		"(c.course_code || ' ' || c.name) ILIKE",
		"(c.course_code || c.name) ILIKE",
	} {
		assert.Contains(t, sql, fragment)
	}
	require.Len(t, args, 9)
	for _, arg := range args {
		assert.Equal(t, "%COSC2758 Full%", arg)
	}
}

func TestBuildApplicationQueryEscapesNameFragments(t *testing.T) {
	_, args, err := buildApplicationQuery(testBuilder, ApplicationQuery{NameFragments: []string{"50%_off"}}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, `%50\%\_off%`, args[0])
}

func TestBuildApplicationQueryByIDAndUser(t *testing.T) {
	sql, args, err := buildApplicationQuery(testBuilder, ApplicationQuery{IDs: []int64{4}, UserID: 9}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "a.id IN ($1)")
	assert.Contains(t, sql, "a.user_id = $2")
	assert.Equal(t, []interface{}{int64(4), int64(9)}, args)
}
