package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/repositories"
)

var errInjected = errors.New("injected failure")

type idSet map[int64]map[int64]bool

func (s idSet) add(owner, id int64) {
	if s[owner] == nil {
		s[owner] = map[int64]bool{}
	}
	s[owner][id] = true
}

func (s idSet) ids(owner int64) []int64 {
	out := make([]int64, 0, len(s[owner]))
	for id := range s[owner] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s idSet) clone() idSet {
	out := idSet{}
	for owner, ids := range s {
		for id := range ids {
			out.add(owner, id)
		}
	}
	return out
}

type credKey struct {
	qualification, institution string
	year                       int
}

type fakeData struct {
	nextID      int64
	users       map[int64]models.User
	courses     map[int64]models.Course
	skills      map[string]int64
	credentials map[credKey]int64
	apps        map[int64]models.Application

	applied, selected, appSkills, appCreds idSet
	userSkills, userCreds, lecturerCourses idSet
}

func (d *fakeData) clone() *fakeData {
	out := &fakeData{
		nextID:          d.nextID,
		users:           map[int64]models.User{},
		courses:         map[int64]models.Course{},
		skills:          map[string]int64{},
		credentials:     map[credKey]int64{},
		apps:            map[int64]models.Application{},
		applied:         d.applied.clone(),
		selected:        d.selected.clone(),
		appSkills:       d.appSkills.clone(),
		appCreds:        d.appCreds.clone(),
		userSkills:      d.userSkills.clone(),
		userCreds:       d.userCreds.clone(),
		lecturerCourses: d.lecturerCourses.clone(),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.courses {
		out.courses[k] = v
	}
	for k, v := range d.skills {
		out.skills[k] = v
	}
	for k, v := range d.credentials {
		out.credentials[k] = v
	}
	for k, v := range d.apps {
		v.PreviousRoles = append([]string(nil), v.PreviousRoles...)
		out.apps[k] = v
	}
	return out
}

// fakeStore is an in-memory repositories.Store enforcing the schema's unique constraints.
// InTx works on a copy and only keeps it when fn succeeds.
type fakeStore struct {
	data *fakeData

	failOn    string
	lastQuery repositories.ApplicationQuery
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: &fakeData{
		users:           map[int64]models.User{},
		courses:         map[int64]models.Course{},
		skills:          map[string]int64{},
		credentials:     map[credKey]int64{},
		apps:            map[int64]models.Application{},
		applied:         idSet{},
		selected:        idSet{},
		appSkills:       idSet{},
		appCreds:        idSet{},
		userSkills:      idSet{},
		userCreds:       idSet{},
		lecturerCourses: idSet{},
	}}
}

func (f *fakeStore) id() int64 {
	f.data.nextID++
	return f.data.nextID
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == op {
		return errInjected
	}
	return nil
}

func (f *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	snapshot := f.data.clone()
	if err := fn(ctx, f); err != nil {
		f.data = snapshot
		return err
	}
	return nil
}

// seed helpers

func (f *fakeStore) addUser(first, last, email string) models.User {
	u := models.User{ID: f.id(), FirstName: first, LastName: last, Username: strings.Split(email, "@")[0], Email: email}
	f.data.users[u.ID] = u
	return u
}

func (f *fakeStore) addCourse(code, name string) models.Course {
	c := models.Course{ID: f.id(), CourseCode: code, Name: name, Semester: "1"}
	f.data.courses[c.ID] = c
	return c
}

func (f *fakeStore) count(kind string) int {
	switch kind {
	case "apps":
		return len(f.data.apps)
	case "skills":
		return len(f.data.skills)
	case "credentials":
		return len(f.data.credentials)
	}
	return -1
}

// UserRepository

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) (int64, error) {
	for _, u := range f.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return 0, repositories.ErrEmailTaken
		}
		if u.Username == user.Username {
			return 0, repositories.ErrUsernameTaken
		}
	}
	stored := *user
	stored.ID = f.id()
	f.data.users[stored.ID] = stored
	return stored.ID, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.data.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.data.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStore) SetUsersBlocked(_ context.Context, userIDs []int64, blocked bool) (int64, error) {
	var n int64
	for _, id := range userIDs {
		if u, ok := f.data.users[id]; ok && u.IsBlocked != blocked {
			u.IsBlocked = blocked
			f.data.users[id] = u
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ReplaceLecturerCourses(_ context.Context, userID int64, courseIDs []int64) error {
	delete(f.data.lecturerCourses, userID)
	for _, id := range courseIDs {
		f.data.lecturerCourses.add(userID, id)
	}
	return nil
}

func (f *fakeStore) LinkUserSkills(_ context.Context, userID int64, skillIDs []int64) error {
	for _, id := range skillIDs {
		f.data.userSkills.add(userID, id)
	}
	return nil
}

func (f *fakeStore) LinkUserCredentials(_ context.Context, userID int64, credentialIDs []int64) error {
	for _, id := range credentialIDs {
		f.data.userCreds.add(userID, id)
	}
	return nil
}

// CourseRepository

func (f *fakeStore) CreateCourse(_ context.Context, course *models.Course) (int64, error) {
	for _, c := range f.data.courses {
		if c.CourseCode == course.CourseCode {
			return 0, repositories.ErrCourseCodeTaken
		}
	}
	stored := *course
	stored.ID = f.id()
	f.data.courses[stored.ID] = stored
	return stored.ID, nil
}

func (f *fakeStore) UpdateCourse(_ context.Context, course *models.Course) error {
	if _, ok := f.data.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, c := range f.data.courses {
		if c.ID != course.ID && c.CourseCode == course.CourseCode {
			return repositories.ErrCourseCodeTaken
		}
	}
	f.data.courses[course.ID] = *course
	return nil
}

func (f *fakeStore) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := f.data.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.data.courses, id)
	return nil
}

func (f *fakeStore) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.data.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) GetAllCourses(_ context.Context) ([]models.Course, error) {
	return f.sortedCourses(func(models.Course) bool { return true }), nil
}

func (f *fakeStore) GetCoursesByCodes(_ context.Context, codes []string) ([]models.Course, error) {
	want := map[string]bool{}
	for _, c := range codes {
		want[c] = true
	}
	return f.sortedCourses(func(c models.Course) bool { return want[c.CourseCode] }), nil
}

func (f *fakeStore) GetCoursesByIDs(_ context.Context, ids []int64) ([]models.Course, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return f.sortedCourses(func(c models.Course) bool { return want[c.ID] }), nil
}

func (f *fakeStore) sortedCourses(keep func(models.Course) bool) []models.Course {
	out := []models.Course{}
	for _, c := range f.data.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseCode < out[j].CourseCode })
	return out
}

// SkillRepository and CredentialRepository

func (f *fakeStore) UpsertSkills(_ context.Context, names []string) ([]models.Skill, error) {
	out := []models.Skill{}
	for _, name := range names {
		id, ok := f.data.skills[name]
		if !ok {
			id = f.id()
			f.data.skills[name] = id
		}
		out = append(out, models.Skill{ID: id, SkillName: name})
	}
	return out, nil
}

func (f *fakeStore) UpsertCredential(_ context.Context, cred models.AcademicCredential) (models.AcademicCredential, bool, error) {
	if err := f.fail("UpsertCredential"); err != nil {
		return cred, false, err
	}
	key := credKey{cred.Qualification, cred.Institution, cred.Year}
	if id, ok := f.data.credentials[key]; ok {
		cred.ID = id
		return cred, false, nil
	}
	cred.ID = f.id()
	f.data.credentials[key] = cred.ID
	return cred, true, nil
}

// ApplicationRepository

func (f *fakeStore) CreateApplication(_ context.Context, app *models.Application) (int64, error) {
	stored := *app
	stored.ID = f.id()
	f.data.apps[stored.ID] = stored
	return stored.ID, nil
}

func (f *fakeStore) LinkAppliedCourses(_ context.Context, applicationID int64, courseIDs []int64) error {
	for _, id := range courseIDs {
		f.data.applied.add(applicationID, id)
	}
	return nil
}

func (f *fakeStore) LinkApplicationSkills(_ context.Context, applicationID int64, skillIDs []int64) error {
	for _, id := range skillIDs {
		f.data.appSkills.add(applicationID, id)
	}
	return nil
}

func (f *fakeStore) LinkApplicationCredentials(_ context.Context, applicationID int64, credentialIDs []int64) error {
	if err := f.fail("LinkApplicationCredentials"); err != nil {
		return err
	}
	for _, id := range credentialIDs {
		f.data.appCreds.add(applicationID, id)
	}
	return nil
}

func (f *fakeStore) FindApplications(_ context.Context, q repositories.ApplicationQuery) ([]*models.Application, error) {
	f.lastQuery = q
	ids := map[int64]bool{}
	for _, id := range q.IDs {
		ids[id] = true
	}

	out := []*models.Application{}
	for _, app := range f.data.apps {
		if len(q.IDs) > 0 && !ids[app.ID] {
			continue
		}
		if q.UserID > 0 && app.UserID != q.UserID {
			continue
		}
		out = append(out, f.load(app))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeStore) load(app models.Application) *models.Application {
	full := app
	if u, ok := f.data.users[app.UserID]; ok {
		full.User = &u
	}
	full.AppliedCourses = f.coursesFor(f.data.applied.ids(app.ID))
	full.SelectedCourses = f.coursesFor(f.data.selected.ids(app.ID))
	full.Skills = []models.Skill{}
	for name, id := range f.data.skills {
		if f.data.appSkills[app.ID][id] {
			full.Skills = append(full.Skills, models.Skill{ID: id, SkillName: name})
		}
	}
	sort.Slice(full.Skills, func(i, j int) bool { return full.Skills[i].SkillName < full.Skills[j].SkillName })
	full.AcademicCredentials = []models.AcademicCredential{}
	for key, id := range f.data.credentials {
		if f.data.appCreds[app.ID][id] {
			full.AcademicCredentials = append(full.AcademicCredentials, models.AcademicCredential{
				ID: id, Qualification: key.qualification, Institution: key.institution, Year: key.year,
			})
		}
	}
	return &full
}

func (f *fakeStore) coursesFor(ids []int64) []models.Course {
	out := []models.Course{}
	for _, id := range ids {
		if c, ok := f.data.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) GetApplicationByID(_ context.Context, id int64) (*models.Application, error) {
	app, ok := f.data.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return f.load(app), nil
}

func (f *fakeStore) RankHolder(_ context.Context, rank int, excludeID int64) (int64, error) {
	for _, app := range f.data.apps {
		if app.ID != excludeID && app.Rank != nil && *app.Rank == rank {
			return app.ID, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) ClearRanks(_ context.Context, applicationIDs []int64) error {
	for _, id := range applicationIDs {
		if app, ok := f.data.apps[id]; ok {
			app.Rank = nil
			f.data.apps[id] = app
		}
	}
	return nil
}

func (f *fakeStore) UpdateApplicationDecision(_ context.Context, app *models.Application) error {
	stored, ok := f.data.apps[app.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if app.Rank != nil {
		for _, other := range f.data.apps {
			if other.ID != app.ID && other.Rank != nil && *other.Rank == *app.Rank {
				return repositories.ErrRankTaken
			}
		}
	}
	stored.Status, stored.IsSelected, stored.Rank, stored.Comments = app.Status, app.IsSelected, app.Rank, app.Comments
	f.data.apps[app.ID] = stored
	return nil
}

func (f *fakeStore) ReplaceSelectedCourses(_ context.Context, applicationID int64, courseIDs []int64) error {
	delete(f.data.selected, applicationID)
	for _, id := range courseIDs {
		f.data.selected.add(applicationID, id)
	}
	return nil
}

// ReportRepository

func (f *fakeStore) ChosenPerCourse(_ context.Context) ([]repositories.CourseSelection, error) {
	out := []repositories.CourseSelection{}
	for _, c := range f.sortedCourses(func(models.Course) bool { return true }) {
		sel := repositories.CourseSelection{Course: c, Users: []models.User{}}
		seen := map[int64]bool{}
		for _, app := range f.sortedApps() {
			if f.data.selected[app.ID][c.ID] && !seen[app.UserID] {
				seen[app.UserID] = true
				sel.Users = append(sel.Users, f.data.users[app.UserID])
			}
		}
		out = append(out, sel)
	}
	return out, nil
}

func (f *fakeStore) UsersChosenForMoreThan(_ context.Context, n int) ([]models.User, error) {
	return f.usersWhere(func(apps []models.Application) bool {
		for _, app := range apps {
			if len(f.data.selected[app.ID]) > n {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeStore) UsersNotChosen(_ context.Context) ([]models.User, error) {
	return f.usersWhere(func(apps []models.Application) bool {
		for _, app := range apps {
			if len(f.data.selected[app.ID]) > 0 {
				return false
			}
		}
		return len(apps) > 0
	}), nil
}

func (f *fakeStore) sortedApps() []models.Application {
	out := make([]models.Application, 0, len(f.data.apps))
	for _, app := range f.data.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) usersWhere(keep func([]models.Application) bool) []models.User {
	byUser := map[int64][]models.Application{}
	for _, app := range f.sortedApps() {
		byUser[app.UserID] = append(byUser[app.UserID], app)
	}
	out := []models.User{}
	for id, u := range f.data.users {
		if keep(byUser[id]) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var _ repositories.Store = (*fakeStore)(nil)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
