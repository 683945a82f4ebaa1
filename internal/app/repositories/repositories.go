package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tutorhub/selection/internal/db"
)

// Shared repository errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrRankTaken       = errors.New("rank already taken")
	ErrCourseCodeTaken = errors.New("course code already exists")
	ErrEmailTaken      = errors.New("email already in use")
	ErrUsernameTaken   = errors.New("username already in use")
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the full data access surface used by the services.
// InTx runs fn against a Store bound to a single transaction; nested calls join the outer transaction.
type Store interface {
	UserRepository
	CourseRepository
	SkillRepository
	CredentialRepository
	ApplicationRepository
	ReportRepository

	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// PostgresStore implements Store on top of a pgx connection pool
type PostgresStore struct {
	db   *db.PostgresDB
	q    Querier
	inTx bool
	sb   squirrel.StatementBuilderType
}

// NewPostgresStore creates a store backed by the given database
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{
		db: database,
		q:  database.Pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// InTx implements Store
func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &PostgresStore{db: s.db, q: tx, inTx: true, sb: s.sb})
	})
}

// queryRow builds and runs a single-row statement
func (s *PostgresStore) queryRow(ctx context.Context, b squirrel.Sqlizer) (pgx.Row, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return s.q.QueryRow(ctx, sql, args...), nil
}

func (s *PostgresStore) query(ctx context.Context, b squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return s.q.Query(ctx, sql, args...)
}

func (s *PostgresStore) exec(ctx context.Context, b squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return s.q.Exec(ctx, sql, args...)
}

// linkPairs inserts (owner, id) rows into a join table, ignoring existing pairs
func (s *PostgresStore) linkPairs(ctx context.Context, table, ownerCol, idCol string, ownerID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	insert := s.sb.Insert(table).Columns(ownerCol, idCol)
	for _, id := range ids {
		insert = insert.Values(ownerID, id)
	}
	_, err := s.exec(ctx, insert.Suffix("ON CONFLICT DO NOTHING"))
	return err
}
