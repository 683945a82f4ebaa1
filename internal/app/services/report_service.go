package services

import (
	"context"
	"fmt"

	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/repositories"
)

// chosenThreshold is the course count above which a candidate counts as chosen for many courses
const chosenThreshold = 3

// ReportService serves the admin selection reports
type ReportService interface {
	CandidatesChosenPerCourse(ctx context.Context) ([]dto.CourseCandidates, error)
	CandidatesChosenForMoreThanThree(ctx context.Context) ([]dto.CandidateSummary, error)
	CandidatesNotChosen(ctx context.Context) ([]dto.CandidateSummary, error)
}

type reportServiceImpl struct {
	store repositories.Store
}

// NewReportService creates a new report service instance
func NewReportService(store repositories.Store) ReportService {
	return &reportServiceImpl{store: store}
}

func (s *reportServiceImpl) CandidatesChosenPerCourse(ctx context.Context) ([]dto.CourseCandidates, error) {
	rows, err := s.store.ChosenPerCourse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build chosen-per-course report: %w", err)
	}
	out := make([]dto.CourseCandidates, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CourseCandidates{Course: r.Course, Candidates: summarize(r.Users)})
	}
	return out, nil
}

func (s *reportServiceImpl) CandidatesChosenForMoreThanThree(ctx context.Context) ([]dto.CandidateSummary, error) {
	users, err := s.store.UsersChosenForMoreThan(ctx, chosenThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to build chosen-more-than-three report: %w", err)
	}
	return summarize(users), nil
}

func (s *reportServiceImpl) CandidatesNotChosen(ctx context.Context) ([]dto.CandidateSummary, error) {
	users, err := s.store.UsersNotChosen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build not-chosen report: %w", err)
	}
	return summarize(users), nil
}

func summarize(users []models.User) []dto.CandidateSummary {
	out := make([]dto.CandidateSummary, 0, len(users))
	for _, u := range users {
		out = append(out, dto.CandidateSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, FullName: u.FullName(), Email: u.Email})
	}
	return out
}
