// Package planning holds the base plan entity, its repository port, and the
// lenient validation applied before plans are persisted.
package planning

import (
	"context"
	"fmt"
	"time"
)

// HabitationLine is count copies of one habitation building in a plan.
type HabitationLine struct {
	Building string `json:"building"`
	Count    int    `json:"count"`
}

// ProductionLine is one recipe assignment in a plan.
type ProductionLine struct {
	Recipe     string  `json:"recipe"`
	Count      int     `json:"count"`
	Efficiency float64 `json:"efficiency"`
}

// StorageLine is one storage building entry in a plan.
type StorageLine struct {
	Building string `json:"building"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity,omitempty"`
}

// ExtractionLine is one extraction operation in a plan. Efficiency defaults
// to 1.0 when nil.
type ExtractionLine struct {
	Building   string   `json:"building"`
	Resource   string   `json:"resource"`
	Count      int      `json:"count"`
	Efficiency *float64 `json:"efficiency,omitempty"`
}

// BasePlan is a saved base configuration. Names are unique; active marks a
// plan backing a real in-game base rather than a draft.
type BasePlan struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Planet      string           `json:"planet"`
	PlanetName  string           `json:"planet_name,omitempty"`
	COGCProgram string           `json:"cogc_program,omitempty"`
	Habitation  []HabitationLine `json:"habitation"`
	Production  []ProductionLine `json:"production"`
	Storage     []StorageLine    `json:"storage,omitempty"`
	Extraction  []ExtractionLine `json:"extraction,omitempty"`
	Expertise   map[string]int   `json:"expertise,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PlanSummary is the listing view of a plan.
type PlanSummary struct {
	Name       string    `json:"name"`
	Planet     string    `json:"planet"`
	PlanetName string    `json:"planet_name,omitempty"`
	Active     bool      `json:"active"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Repository persists base plans. FindByName returns (nil, nil) for a
// missing plan; List sorts by update time, most recent first.
type Repository interface {
	Save(ctx context.Context, plan *BasePlan) error
	FindByName(ctx context.Context, name string) (*BasePlan, error)
	List(ctx context.Context, active *bool) ([]PlanSummary, error)
	Delete(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// PlanNotFoundError reports a plan name with no stored plan.
type PlanNotFoundError struct {
	Name string
}

func (e *PlanNotFoundError) Error() string {
	return fmt.Sprintf("plan not found: %s", e.Name)
}

func NewPlanNotFoundError(name string) *PlanNotFoundError {
	return &PlanNotFoundError{Name: name}
}

// PlanExistsError reports a save that would clobber an existing plan
// without the overwrite flag.
type PlanExistsError struct {
	Name string
}

func (e *PlanExistsError) Error() string {
	return fmt.Sprintf("plan %q already exists, set overwrite to update it", e.Name)
}

func NewPlanExistsError(name string) *PlanExistsError {
	return &PlanExistsError{Name: name}
}

// PlanValidationError carries the blocking validation failures for a plan.
type PlanValidationError struct {
	Errors []string
}

func (e *PlanValidationError) Error() string {
	return fmt.Sprintf("plan validation failed: %v", e.Errors)
}

func NewPlanValidationError(errors []string) *PlanValidationError {
	return &PlanValidationError{Errors: errors}
}
