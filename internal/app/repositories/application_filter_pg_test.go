package repositories

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/selection/internal/app/migrations"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/db"
)

// testDSNEnv names a disposable PostgreSQL database; the tests below are skipped without it
const testDSNEnv = "TUTORHUB_TEST_DATABASE_URL"

// newPostgresTestStore migrates a fresh schema and returns a store bound to it
func newPostgresTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}
	ctx := context.Background()

	schema := "filter_" + uuid.NewString()[:8]
	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.New(io.Discard)).Up(ctx))
	return NewPostgresStore(&db.PostgresDB{Pool: pool})
}

type filterSeed struct {
	store *PostgresStore
	ids   map[string]int64
}

func (s *filterSeed) apply(t *testing.T, key, first, last string, availability models.Availability, skills []string, minute int, courseIDs ...int64) {
	t.Helper()
	ctx := context.Background()

	userID, err := s.store.CreateUser(ctx, &models.User{
		FirstName:     first,
		LastName:      last,
		Username:      key,
		Email:         fmt.Sprintf("%s@student.rmit.edu.au", key),
		Password:      "x",
		DateOfJoining: time.Now(),
	})
	require.NoError(t, err)

	appID, err := s.store.CreateApplication(ctx, &models.Application{
		UserID:       userID,
		SessionType:  models.SessionTutor,
		Availability: availability,
		Status:       models.StatusPending,
		Timestamp:    time.Date(2025, 3, 1, 9, minute, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, s.store.LinkAppliedCourses(ctx, appID, courseIDs))

	rows, err := s.store.UpsertSkills(ctx, skills)
	require.NoError(t, err)
	skillIDs := make([]int64, 0, len(rows))
	for _, sk := range rows {
		skillIDs = append(skillIDs, sk.ID)
	}
	require.NoError(t, s.store.LinkApplicationSkills(ctx, appID, skillIDs))
	s.ids[key] = appID
}

func (s *filterSeed) find(t *testing.T, q ApplicationQuery) []string {
	t.Helper()
	apps, err := s.store.FindApplications(context.Background(), q)
	require.NoError(t, err)

	byID := map[int64]string{}
	for key, id := range s.ids {
		byID[id] = key
	}
	keys := make([]string, 0, len(apps))
	for _, app := range apps {
		keys = append(keys, byID[app.ID])
	}
	return keys
}

func TestFindApplicationsFilterSemantics(t *testing.T) {
	store := newPostgresTestStore(t)
	ctx := context.Background()

	courseID, err := store.CreateCourse(ctx, &models.Course{CourseCode: "COSC2758", Name: "Full Stack Development", Semester: "1"})
	require.NoError(t, err)

	seed := &filterSeed{store: store, ids: map[string]int64{}}
	seed.apply(t, "a", "Alex", "Nguyen", models.AvailabilityPartTime, []string{"js"}, 1, courseID)
	seed.apply(t, "b", "Bea", "Smith", models.AvailabilityFullTime, []string{"python"}, 2, courseID)
	seed.apply(t, "c", "Cam", "Lo", models.AvailabilityFullTime, []string{"js", "python"}, 3)

	cases := map[string]struct {
		q    ApplicationQuery
		want []string
	}{
		"no filter returns everything newest first": {ApplicationQuery{}, []string{"c", "b", "a"}},
		"skills match any listed skill once per application": {
			ApplicationQuery{Skills: []string{"js", "python"}}, []string{"c", "b", "a"},
		},
		"skills and availability are both required": {
			ApplicationQuery{Skills: []string{"js"}, Availabilities: []string{"full-time"}}, []string{"c"},
		},
		"skill held only by a part-time applicant": {
			ApplicationQuery{Skills: []string{"js"}, Availabilities: []string{"full-time"}, NameFragments: []string{"alex"}},
			[]string{},
		},
		"name fragments are alternatives": {
			ApplicationQuery{NameFragments: []string{"alex", "smith"}}, []string{"b", "a"},
		},
		"full name matches": {ApplicationQuery{NameFragments: []string{"bea smith"}}, []string{"b"}},
		"name and skill must both match": {
			ApplicationQuery{NameFragments: []string{"alex"}, Skills: []string{"python"}}, []string{},
		},
		"general search covers applied courses": {
			ApplicationQuery{GeneralSearch: "COSC2758 Full"}, []string{"b", "a"},
		},
		"general search covers skills": {ApplicationQuery{GeneralSearch: "pyth"}, []string{"c", "b"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, seed.find(t, tc.q))
		})
	}
}

// A: js, Part-Time; B: python, Full-Time
func TestFindApplicationsSkillAndAvailability(t *testing.T) {
	store := newPostgresTestStore(t)
	seed := &filterSeed{store: store, ids: map[string]int64{}}
	seed.apply(t, "a", "Alex", "Nguyen", models.AvailabilityPartTime, []string{"js"}, 1)
	seed.apply(t, "b", "Bea", "Smith", models.AvailabilityFullTime, []string{"python"}, 2)

	assert.ElementsMatch(t, []string{"a", "b"}, seed.find(t, ApplicationQuery{Skills: []string{"js", "python"}}))
	assert.Empty(t, seed.find(t, ApplicationQuery{Skills: []string{"js"}, Availabilities: []string{"full-time"}}))
}
