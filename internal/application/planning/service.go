// Package planning orchestrates base plan storage: validation, CRUD, and
// running the daily I/O calculation against a saved plan.
package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/planning"
)

// SaveResult is a saved plan plus any non-blocking validation warnings.
type SaveResult struct {
	Plan     *planning.BasePlan `json:"plan"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Service manages base plan CRUD and plan-level calculations.
type Service struct {
	repo    planning.Repository
	economy *appeconomy.Service
}

func NewService(repo planning.Repository, economy *appeconomy.Service) *Service {
	return &Service{repo: repo, economy: economy}
}

// Save validates and persists a plan. Blocking validation failures return a
// PlanValidationError; warnings ride along with the saved plan. Updating an
// existing plan requires overwrite and preserves its id and creation time.
func (s *Service) Save(ctx context.Context, plan *planning.BasePlan, overwrite bool) (*SaveResult, error) {
	errors, warnings := planning.ValidatePlan(plan)
	if len(errors) > 0 {
		return nil, planning.NewPlanValidationError(errors)
	}

	existing, err := s.repo.FindByName(ctx, plan.Name)
	if err != nil {
		return nil, fmt.Errorf("looking up plan %q: %w", plan.Name, err)
	}

	now := time.Now().UTC()
	if existing != nil {
		if !overwrite {
			return nil, planning.NewPlanExistsError(plan.Name)
		}
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
	} else {
		plan.ID = uuid.New().String()
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	if err := s.repo.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("saving plan %q: %w", plan.Name, err)
	}

	return &SaveResult{Plan: plan, Warnings: warnings}, nil
}

// Get retrieves a plan by name.
func (s *Service) Get(ctx context.Context, name string) (*planning.BasePlan, error) {
	plan, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up plan %q: %w", name, err)
	}
	if plan == nil {
		return nil, planning.NewPlanNotFoundError(name)
	}
	return plan, nil
}

// List returns plan summaries, optionally filtered by active status.
func (s *Service) List(ctx context.Context, active *bool) ([]planning.PlanSummary, error) {
	summaries, err := s.repo.List(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return summaries, nil
}

// Delete removes a plan by name.
func (s *Service) Delete(ctx context.Context, name string) error {
	deleted, err := s.repo.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("deleting plan %q: %w", name, err)
	}
	if !deleted {
		return planning.NewPlanNotFoundError(name)
	}
	return nil
}

// Count returns the number of stored plans.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// PlanIO runs the base I/O calculation for a saved plan on one exchange.
// Plans carry no permit count yet, so a single permit is assumed; the
// planet is passed through only when the plan extracts resources.
func (s *Service) PlanIO(ctx context.Context, name string, exchange string) (*appeconomy.BaseIOResult, error) {
	plan, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	req := appeconomy.BaseIORequest{
		Exchange: exchange,
		Permits:  1,
	}
	for _, line := range plan.Production {
		efficiency := line.Efficiency
		if efficiency == 0 {
			efficiency = 1.0
		}
		req.Production = append(req.Production, appeconomy.ProductionEntry{
			Recipe:     line.Recipe,
			Count:      line.Count,
			Efficiency: efficiency,
		})
	}
	for _, line := range plan.Habitation {
		req.Habitation = append(req.Habitation, appeconomy.HabitationEntry{
			Building: line.Building,
			Count:    line.Count,
		})
	}
	if len(plan.Extraction) > 0 {
		req.Planet = plan.Planet
		for _, line := range plan.Extraction {
			req.Extraction = append(req.Extraction, appeconomy.ExtractionEntry{
				Building:   line.Building,
				Resource:   line.Resource,
				Count:      line.Count,
				Efficiency: line.Efficiency,
			})
		}
	}

	return s.economy.BaseIO(ctx, req)
}
