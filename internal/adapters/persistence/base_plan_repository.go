package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/planning"
)

// BasePlanModel represents the base_plans table. Plan line items are stored
// as JSON text columns so the schema stays stable as line fields evolve.
type BasePlanModel struct {
	ID          string    `gorm:"column:id;primaryKey;not null"`
	Name        string    `gorm:"column:name;unique;not null"`
	Planet      string    `gorm:"column:planet;not null"`
	PlanetName  string    `gorm:"column:planet_name"`
	COGCProgram string    `gorm:"column:cogc_program"`
	Habitation  string    `gorm:"column:habitation;type:text;not null"`
	Production  string    `gorm:"column:production;type:text;not null"`
	Storage     string    `gorm:"column:storage;type:text"`
	Extraction  string    `gorm:"column:extraction;type:text"`
	Expertise   string    `gorm:"column:expertise;type:text"`
	Notes       string    `gorm:"column:notes;type:text"`
	Active      bool      `gorm:"column:active;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (BasePlanModel) TableName() string {
	return "base_plans"
}

// BasePlanRepositoryGORM implements base plan persistence using GORM
type BasePlanRepositoryGORM struct {
	db *gorm.DB
}

// NewBasePlanRepository creates a new GORM-based base plan repository
func NewBasePlanRepository(db *gorm.DB) *BasePlanRepositoryGORM {
	return &BasePlanRepositoryGORM{db: db}
}

// Save upserts a plan by primary key. The caller assigns IDs and timestamps.
func (r *BasePlanRepositoryGORM) Save(ctx context.Context, plan *planning.BasePlan) error {
	model, err := toBasePlanModel(plan)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// FindByName retrieves a plan by name, (nil, nil) when missing
func (r *BasePlanRepositoryGORM) FindByName(ctx context.Context, name string) (*planning.BasePlan, error) {
	var model BasePlanModel

	result := r.db.WithContext(ctx).Where("name = ?", name).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find plan: %w", result.Error)
	}

	return toBasePlan(&model)
}

// List returns plan summaries, most recently updated first. A non-nil
// active filters on the active flag.
func (r *BasePlanRepositoryGORM) List(ctx context.Context, active *bool) ([]planning.PlanSummary, error) {
	query := r.db.WithContext(ctx).Model(&BasePlanModel{}).Order("updated_at DESC")
	if active != nil {
		query = query.Where("active = ?", *active)
	}

	var models []BasePlanModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	summaries := make([]planning.PlanSummary, len(models))
	for i, model := range models {
		summaries[i] = planning.PlanSummary{
			Name:       model.Name,
			Planet:     model.Planet,
			PlanetName: model.PlanetName,
			Active:     model.Active,
			UpdatedAt:  model.UpdatedAt,
		}
	}
	return summaries, nil
}

// Delete removes a plan by name and reports whether one existed
func (r *BasePlanRepositoryGORM) Delete(ctx context.Context, name string) (bool, error) {
	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&BasePlanModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count returns the number of stored plans
func (r *BasePlanRepositoryGORM) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BasePlanModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}
	return count, nil
}

func toBasePlanModel(plan *planning.BasePlan) (*BasePlanModel, error) {
	habitation, err := json.Marshal(plan.Habitation)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize habitation: %w", err)
	}
	production, err := json.Marshal(plan.Production)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize production: %w", err)
	}
	storage, err := json.Marshal(plan.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize storage: %w", err)
	}
	extraction, err := json.Marshal(plan.Extraction)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize extraction: %w", err)
	}
	expertise, err := json.Marshal(plan.Expertise)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize expertise: %w", err)
	}

	return &BasePlanModel{
		ID:          plan.ID,
		Name:        plan.Name,
		Planet:      plan.Planet,
		PlanetName:  plan.PlanetName,
		COGCProgram: plan.COGCProgram,
		Habitation:  string(habitation),
		Production:  string(production),
		Storage:     string(storage),
		Extraction:  string(extraction),
		Expertise:   string(expertise),
		Notes:       plan.Notes,
		Active:      plan.Active,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}, nil
}

func toBasePlan(model *BasePlanModel) (*planning.BasePlan, error) {
	plan := &planning.BasePlan{
		ID:          model.ID,
		Name:        model.Name,
		Planet:      model.Planet,
		PlanetName:  model.PlanetName,
		COGCProgram: model.COGCProgram,
		Notes:       model.Notes,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	columns := []struct {
		name   string
		raw    string
		target interface{}
	}{
		{"habitation", model.Habitation, &plan.Habitation},
		{"production", model.Production, &plan.Production},
		{"storage", model.Storage, &plan.Storage},
		{"extraction", model.Extraction, &plan.Extraction},
		{"expertise", model.Expertise, &plan.Expertise},
	}
	for _, column := range columns {
		if column.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(column.raw), column.target); err != nil {
			return nil, fmt.Errorf("failed to deserialize plan %s %s: %w", model.Name, column.name, err)
		}
	}

	return plan, nil
}
