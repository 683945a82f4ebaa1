package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tutorhub/selection/internal/app/models"
)

// SkillRepository resolves normalized skill names to shared rows
type SkillRepository interface {
	// UpsertSkills creates any missing skills and returns the rows for every name.
	UpsertSkills(ctx context.Context, names []string) ([]models.Skill, error)
}

// CredentialRepository resolves credential triples to shared rows
type CredentialRepository interface {
	// UpsertCredential returns the row for the triple and whether this call created it.
	UpsertCredential(ctx context.Context, cred models.AcademicCredential) (models.AcademicCredential, bool, error)
}

// UpsertSkills implements SkillRepository. Names are expected to be normalized already.
func (s *PostgresStore) UpsertSkills(ctx context.Context, names []string) ([]models.Skill, error) {
	if len(names) == 0 {
		return []models.Skill{}, nil
	}

	insert := s.sb.Insert("skills").Columns("skill_name")
	for _, name := range names {
		insert = insert.Values(name)
	}
	if _, err := s.exec(ctx, insert.Suffix("ON CONFLICT (skill_name) DO NOTHING")); err != nil {
		return nil, fmt.Errorf("error inserting skills: %w", err)
	}

	rows, err := s.query(ctx, s.sb.Select("id", "skill_name").
		From("skills").
		Where("skill_name = ANY(?)", names).
		OrderBy("skill_name ASC"))
	if err != nil {
		return nil, fmt.Errorf("error reading skills: %w", err)
	}
	defer rows.Close()

	skills := make([]models.Skill, 0, len(names))
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.SkillName); err != nil {
			return nil, fmt.Errorf("error scanning skill row: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// UpsertCredential implements CredentialRepository
func (s *PostgresStore) UpsertCredential(ctx context.Context, cred models.AcademicCredential) (models.AcademicCredential, bool, error) {
	row, err := s.queryRow(ctx, s.sb.Insert("academic_credentials").
		Columns("qualification", "institution", "year").
		Values(cred.Qualification, cred.Institution, cred.Year).
		Suffix("ON CONFLICT (qualification, institution, year) DO NOTHING RETURNING id"))
	if err != nil {
		return cred, false, fmt.Errorf("failed to build credential insert: %w", err)
	}

	err = row.Scan(&cred.ID)
	if err == nil {
		return cred, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return cred, false, fmt.Errorf("error inserting credential: %w", err)
	}

	// Row already existed
	row, err = s.queryRow(ctx, s.sb.Select("id").
		From("academic_credentials").
		Where(squirrel.Eq{
			"qualification": cred.Qualification,
			"institution":   cred.Institution,
			"year":          cred.Year,
		}))
	if err != nil {
		return cred, false, fmt.Errorf("failed to build credential lookup: %w", err)
	}
	if err := row.Scan(&cred.ID); err != nil {
		return cred, false, fmt.Errorf("error reading credential: %w", err)
	}
	return cred, false, nil
}
