package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/tutorhub/selection/internal/pkg/helpers"
)

// ApplicationQuery is a parsed application filter. Empty fields do not constrain the result;
// categories are combined with AND and values inside one category with OR.
type ApplicationQuery struct {
	IDs    []int64
	UserID int64

	GeneralSearch  string
	NameFragments  []string
	SessionTypes   []string // lower-case
	Availabilities []string // lower-case
	Skills         []string // normalized
}

const fullNameExpr = "(u.first_name || ' ' || u.last_name)"

var applicationColumns = []string{
	"a.id", "a.user_id", "a.session_type", "a.availability", "a.status",
	"a.is_selected", "a.rank", "a.comments", "a.submitted_at", "a.previous_roles",
}

func buildApplicationQuery(sb squirrel.StatementBuilderType, q ApplicationQuery) squirrel.SelectBuilder {
	sel := sb.Select(applicationColumns...).
		From("applications a").
		Join("users u ON u.id = a.user_id").
		OrderBy("a.submitted_at DESC", "a.id DESC")

	if len(q.IDs) > 0 {
		sel = sel.Where(squirrel.Eq{"a.id": q.IDs})
	}
	if q.UserID > 0 {
		sel = sel.Where(squirrel.Eq{"a.user_id": q.UserID})
	}
	if q.GeneralSearch != "" {
		sel = sel.Where(generalSearchPredicate(q.GeneralSearch))
	}
	if len(q.NameFragments) > 0 {
		names := squirrel.Or{}
		for _, fragment := range q.NameFragments {
			p := helpers.ContainsPattern(fragment)
			names = append(names, squirrel.Expr(
				"(u.first_name ILIKE ? OR u.last_name ILIKE ? OR "+fullNameExpr+" ILIKE ?)", p, p, p))
		}
		sel = sel.Where(names)
	}
	if len(q.SessionTypes) > 0 {
		sel = sel.Where(squirrel.Eq{"LOWER(a.session_type)": q.SessionTypes})
	}
	if len(q.Availabilities) > 0 {
		sel = sel.Where(squirrel.Eq{"LOWER(a.availability)": q.Availabilities})
	}
	if len(q.Skills) > 0 {
		sel = sel.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM application_skills aps JOIN skills sk ON sk.id = aps.skill_id "+
				"WHERE aps.application_id = a.id AND sk.skill_name = ANY(?))", q.Skills))
	}
	return sel
}

// generalSearchPredicate matches names, availability, attached skills and applied courses
func generalSearchPredicate(term string) squirrel.Sqlizer {
	p := helpers.ContainsPattern(term)
	return squirrel.Or{
		squirrel.Expr("u.first_name ILIKE ?", p),
		squirrel.Expr("u.last_name ILIKE ?", p),
		squirrel.Expr(fullNameExpr+" ILIKE ?", p),
		squirrel.Expr("a.availability ILIKE ?", p),
		squirrel.Expr("EXISTS (SELECT 1 FROM application_skills aps JOIN skills sk ON sk.id = aps.skill_id "+
			"WHERE aps.application_id = a.id AND sk.skill_name ILIKE ?)", p),
		squirrel.Expr("EXISTS (SELECT 1 FROM application_applied_courses ac JOIN courses c ON c.id = ac.course_id "+
			"WHERE ac.application_id = a.id AND (c.course_code ILIKE ? OR c.name ILIKE ? "+
			"OR (c.course_code || ' ' || c.name) ILIKE ? OR (c.course_code || c.name) ILIKE ?))", p, p, p, p),
	}
}
