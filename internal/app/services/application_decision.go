package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/validation"
)

// decisionPatch is a type-checked UpdateDecisionRequest. The *Set flags distinguish absent from null.
type decisionPatch struct {
	rank    *int
	rankSet bool

	comments    *string
	commentsSet bool

	courseIDs  []int64
	coursesSet bool

	status     *models.ApplicationStatus
	isSelected *bool
}

var jsonNull = []byte("null")

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func parseDecisionPatch(req *dto.UpdateDecisionRequest) (*decisionPatch, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}
	p := &decisionPatch{isSelected: req.IsSelected}

	if len(req.Rank) > 0 {
		p.rankSet = true
		if !isJSONNull(req.Rank) {
			var n float64
			if err := json.Unmarshal(req.Rank, &n); err != nil || n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
				return nil, apperrors.NewValidationError("rank must be a non-negative integer or null")
			}
			r := int(n)
			p.rank = &r
		}
	}

	if len(req.Comments) > 0 {
		p.commentsSet = true
		if !isJSONNull(req.Comments) {
			var c string
			if err := json.Unmarshal(req.Comments, &c); err != nil {
				return nil, apperrors.NewValidationError("comments must be a string or null")
			}
			p.comments = &c
		}
	}

	// null leaves the selection untouched like an absent field; only [] clears it.
	if len(req.SelectedCourseIDs) > 0 && !isJSONNull(req.SelectedCourseIDs) {
		p.coursesSet = true
		p.courseIDs = []int64{}
		if err := json.Unmarshal(req.SelectedCourseIDs, &p.courseIDs); err != nil {
			return nil, apperrors.NewValidationError("selectedCourseIds must be an array of course ids")
		}
	}

	if req.Status != nil {
		status, ok := models.ParseStatus(*req.Status)
		if !ok {
			return nil, apperrors.NewValidationError("status must be one of pending, approved, rejected")
		}
		p.status = &status
	}

	return p, nil
}

// resolveStatus applies the requested status and selection to the current state, keeping
// isSelected=true paired with approved and checking the transition is allowed.
func resolveStatus(current models.ApplicationStatus, selected bool, status *models.ApplicationStatus, isSelected *bool) (models.ApplicationStatus, bool, error) {
	next := current
	if status != nil {
		next = *status
	}

	switch {
	case isSelected != nil && *isSelected:
		if status != nil && next != models.StatusApproved {
			return "", false, apperrors.Validation(apperrors.ErrInconsistentSelection)
		}
		next = models.StatusApproved
		selected = true
	case isSelected != nil:
		if status != nil && next == models.StatusApproved {
			return "", false, apperrors.Validation(apperrors.ErrInconsistentSelection)
		}
		if status == nil && current == models.StatusApproved {
			next = models.StatusRejected
		}
		selected = false
	case status != nil:
		selected = next == models.StatusApproved
	}

	if !models.CanTransition(current, next) {
		return "", false, apperrors.NewCustomError(
			errors.Join(apperrors.ErrValidationFailed, apperrors.ErrInvalidStatusChange),
			fmt.Sprintf("cannot change status from %s to %s", current, next))
	}
	return next, selected, nil
}

// UpdateApplicationDecision applies a partial lecturer decision in one transaction and returns the reloaded application
func (s *applicationServiceImpl) UpdateApplicationDecision(ctx context.Context, id int64, req *dto.UpdateDecisionRequest) (*models.Application, error) {
	patch, err := parseDecisionPatch(req)
	if err != nil {
		return nil, err
	}

	var updated *models.Application
	err = s.store.InTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		app, err := tx.GetApplicationByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NotFound(apperrors.ErrApplicationNotFound)
			}
			return fmt.Errorf("failed to load application: %w", err)
		}

		status, selected, err := resolveStatus(app.Status, app.IsSelected, patch.status, patch.isSelected)
		if err != nil {
			return err
		}

		courseIDs := app.SelectedCourseIDs()
		if patch.coursesSet {
			if courseIDs, err = existingCourseIDs(ctx, tx, patch.courseIDs); err != nil {
				return err
			}
		}
		if selected && len(courseIDs) == 0 {
			return apperrors.Validation(apperrors.ErrNoCourseSelected)
		}

		if patch.rankSet && patch.rank != nil {
			holder, err := tx.RankHolder(ctx, *patch.rank, app.ID)
			if err != nil {
				return fmt.Errorf("failed to check rank: %w", err)
			}
			if holder != 0 {
				return apperrors.Conflict(apperrors.ErrRankTaken)
			}
		}

		app.Status = status
		app.IsSelected = selected
		if patch.rankSet {
			app.Rank = patch.rank
		}
		if patch.commentsSet {
			app.Comments = patch.comments
		}

		if err := tx.UpdateApplicationDecision(ctx, app); err != nil {
			if errors.Is(err, repositories.ErrRankTaken) {
				return apperrors.Conflict(apperrors.ErrRankTaken)
			}
			return err
		}
		if patch.coursesSet {
			if err := tx.ReplaceSelectedCourses(ctx, app.ID, courseIDs); err != nil {
				return err
			}
		}

		updated, err = tx.GetApplicationByID(ctx, app.ID)
		return err
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error().Err(err).Int64("applicationID", id).Msg("Failed to update application decision")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("applicationID", id).
		Str("status", string(updated.Status)).
		Bool("isSelected", updated.IsSelected).
		Msg("Application decision updated")
	return updated, nil
}

// SubmitDecisions applies the dashboard's bulk submission. Every entry is checked before anything is written.
func (s *applicationServiceImpl) SubmitDecisions(ctx context.Context, req *dto.SubmitDecisionsRequest) ([]*models.Application, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}
	if err := validation.Struct(req); err != nil {
		return nil, validationFailure(err)
	}
	if err := checkBatch(req.Decisions); err != nil {
		return nil, err
	}

	ids := make([]int64, len(req.Decisions))
	for i, d := range req.Decisions {
		ids[i] = d.ApplicationID
	}

	var updated []*models.Application
	err := s.store.InTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		apps, err := tx.FindApplications(ctx, repositories.ApplicationQuery{IDs: ids})
		if err != nil {
			return fmt.Errorf("failed to load applications: %w", err)
		}
		byID := make(map[int64]*models.Application, len(apps))
		for _, app := range apps {
			byID[app.ID] = app
		}

		plans := make([]decisionPlan, 0, len(req.Decisions))
		for _, d := range req.Decisions {
			app, ok := byID[d.ApplicationID]
			if !ok {
				return apperrors.NewCustomError(
					errors.Join(apperrors.ErrResourceNotFound, apperrors.ErrApplicationNotFound),
					fmt.Sprintf("application %d not found", d.ApplicationID))
			}
			plan, err := planDecision(ctx, tx, app, d)
			if err != nil {
				return err
			}
			if d.Rank != nil {
				holder, err := tx.RankHolder(ctx, *d.Rank, app.ID)
				if err != nil {
					return fmt.Errorf("failed to check rank: %w", err)
				}
				if _, inBatch := byID[holder]; holder != 0 && !inBatch {
					return apperrors.Conflict(apperrors.ErrRankTaken)
				}
			}
			if plan.changed() {
				plans = append(plans, plan)
			}
		}

		// Free the ranks being reassigned first so swaps inside the batch do not collide.
		var reranked []int64
		for _, p := range plans {
			if !equalRank(p.app.Rank, p.rank) {
				reranked = append(reranked, p.app.ID)
			}
		}
		if err := tx.ClearRanks(ctx, reranked); err != nil {
			return err
		}

		changedIDs := make([]int64, 0, len(plans))
		for _, p := range plans {
			next := *p.app
			next.Status, next.IsSelected, next.Rank, next.Comments = p.status, p.selected, p.rank, p.comments
			if err := tx.UpdateApplicationDecision(ctx, &next); err != nil {
				if errors.Is(err, repositories.ErrRankTaken) {
					return apperrors.Conflict(apperrors.ErrRankTaken)
				}
				return err
			}
			if p.coursesChanged {
				if err := tx.ReplaceSelectedCourses(ctx, p.app.ID, p.courseIDs); err != nil {
					return err
				}
			}
			changedIDs = append(changedIDs, p.app.ID)
		}

		updated = []*models.Application{}
		if len(changedIDs) == 0 {
			return nil
		}
		updated, err = tx.FindApplications(ctx, repositories.ApplicationQuery{IDs: changedIDs})
		return err
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error().Err(err).Int("entries", len(req.Decisions)).Msg("Failed to submit decisions")
		}
		return nil, err
	}

	s.logger.Info().Int("entries", len(req.Decisions)).Int("updated", len(updated)).Msg("Decisions submitted")
	return updated, nil
}

// checkBatch rejects repeated applications, repeated ranks and checked entries that clear their courses
func checkBatch(entries []dto.DecisionEntry) error {
	seenApps := map[int64]bool{}
	seenRanks := map[int]int64{}
	for _, d := range entries {
		if seenApps[d.ApplicationID] {
			return apperrors.NewValidationError(fmt.Sprintf("application %d appears more than once", d.ApplicationID))
		}
		seenApps[d.ApplicationID] = true

		if d.Rank != nil {
			if other, ok := seenRanks[*d.Rank]; ok {
				return apperrors.NewCustomError(
					errors.Join(apperrors.ErrValidationFailed, apperrors.ErrRankTaken),
					fmt.Sprintf("rank %d is given to applications %d and %d", *d.Rank, other, d.ApplicationID))
			}
			seenRanks[*d.Rank] = d.ApplicationID
		}

		if d.Checked && d.SelectedCourseIDs != nil && len(d.SelectedCourseIDs) == 0 {
			return apperrors.NewCustomError(
				errors.Join(apperrors.ErrValidationFailed, apperrors.ErrNoCourseSelected),
				fmt.Sprintf("application %d: %s", d.ApplicationID, apperrors.ErrNoCourseSelected))
		}
	}
	return nil
}

type decisionPlan struct {
	app            *models.Application
	status         models.ApplicationStatus
	selected       bool
	rank           *int
	comments       *string
	courseIDs      []int64
	coursesChanged bool
}

func (p decisionPlan) changed() bool {
	return p.status != p.app.Status ||
		p.selected != p.app.IsSelected ||
		!equalRank(p.rank, p.app.Rank) ||
		!equalComments(p.comments, p.app.Comments) ||
		p.coursesChanged
}

// planDecision computes the target state for one dashboard entry:
// checked means approved, unchecking an approved application rejects it, otherwise the status stays.
// A rejected application stays rejected when unchecked; it never falls back to pending.
// A nil course list keeps the stored selection, an empty one clears it.
func planDecision(ctx context.Context, tx repositories.Store, app *models.Application, d dto.DecisionEntry) (decisionPlan, error) {
	target := app.Status
	switch {
	case d.Checked:
		target = models.StatusApproved
	case app.Status == models.StatusApproved:
		target = models.StatusRejected
	}
	if !models.CanTransitionFromDashboard(app.Status, target) {
		return decisionPlan{}, apperrors.NewCustomError(
			errors.Join(apperrors.ErrValidationFailed, apperrors.ErrInvalidStatusChange),
			fmt.Sprintf("application %d: cannot change status from %s to %s", app.ID, app.Status, target))
	}

	courseIDs := app.SelectedCourseIDs()
	if d.SelectedCourseIDs != nil {
		var err error
		if courseIDs, err = existingCourseIDs(ctx, tx, d.SelectedCourseIDs); err != nil {
			return decisionPlan{}, err
		}
	}
	if d.Checked && len(courseIDs) == 0 {
		return decisionPlan{}, apperrors.NewCustomError(
			errors.Join(apperrors.ErrValidationFailed, apperrors.ErrNoCourseSelected),
			fmt.Sprintf("application %d: %s", app.ID, apperrors.ErrNoCourseSelected))
	}

	return decisionPlan{
		app:            app,
		status:         target,
		selected:       target == models.StatusApproved,
		rank:           d.Rank,
		comments:       d.Comments,
		courseIDs:      courseIDs,
		coursesChanged: !sameIDs(courseIDs, app.SelectedCourseIDs()),
	}, nil
}

// existingCourseIDs drops unknown and repeated ids, returning the rest in ascending order
func existingCourseIDs(ctx context.Context, tx repositories.Store, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	courses, err := tx.GetCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve selected courses: %w", err)
	}
	out := make([]int64, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int64]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

func equalRank(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalComments(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
