package economy

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domain "github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

var validate = validator.New()

// ValidationError reports malformed request input. These are hard errors
// raised before any calculation starts.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// describeValidation flattens validator errors into one short message.
func describeValidation(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		parts := make([]string, 0, len(errs))
		for _, e := range errs {
			parts = append(parts, fmt.Sprintf("field '%s' failed '%s'", e.Field(), e.Tag()))
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}

// BuildingCostRequest asks for the construction cost of one building on one
// planet, optionally priced against an exchange.
type BuildingCostRequest struct {
	Building string `json:"building" validate:"required"`
	Planet   string `json:"planet" validate:"required"`
	Exchange string `json:"exchange,omitempty"`
}

func (r *BuildingCostRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return NewValidationError("invalid building cost request: %s", describeValidation(err))
	}
	if r.Exchange != "" {
		normalized, err := domain.ValidateExchange(r.Exchange)
		if err != nil {
			return err
		}
		r.Exchange = normalized
	}
	return nil
}

// COGMRequest asks for the cost of goods manufactured of one recipe.
type COGMRequest struct {
	Recipe      string  `json:"recipe" validate:"required"`
	Exchange    string  `json:"exchange" validate:"required"`
	Efficiency  float64 `json:"efficiency"`
	SelfConsume bool    `json:"self_consume"`
}

func (r *COGMRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return NewValidationError("invalid cogm request: %s", describeValidation(err))
	}
	if r.Efficiency == 0 {
		r.Efficiency = 1.0
	}
	if r.Efficiency <= 0 {
		return domain.NewInvalidEfficiencyError(r.Efficiency)
	}
	normalized, err := domain.ValidateExchange(r.Exchange)
	if err != nil {
		return err
	}
	r.Exchange = normalized
	return nil
}

// ProductionEntry is one production line: count copies of a building
// running one recipe at an efficiency.
type ProductionEntry struct {
	Recipe     string  `json:"recipe" validate:"required"`
	Count      int     `json:"count" validate:"min=1"`
	Efficiency float64 `json:"efficiency" validate:"gt=0"`
}

// HabitationEntry is count copies of one habitation building.
type HabitationEntry struct {
	Building string `json:"building" validate:"required"`
	Count    int    `json:"count" validate:"min=0"`
}

// ExtractionEntry is one extraction operation on the base's planet.
// Efficiency defaults to 1.0 when omitted.
type ExtractionEntry struct {
	Building   string   `json:"building" validate:"required"`
	Resource   string   `json:"resource" validate:"required"`
	Count      int      `json:"count" validate:"min=1"`
	Efficiency *float64 `json:"efficiency,omitempty" validate:"omitempty,gt=0"`
}

// EffectiveEfficiency returns the entry's efficiency or the 1.0 default.
func (e *ExtractionEntry) EffectiveEfficiency() float64 {
	if e.Efficiency == nil {
		return 1.0
	}
	return *e.Efficiency
}

// BaseIORequest describes a whole base for the daily I/O calculation.
type BaseIORequest struct {
	Exchange   string            `json:"exchange"`
	Production []ProductionEntry `json:"production"`
	Habitation []HabitationEntry `json:"habitation,omitempty"`
	Extraction []ExtractionEntry `json:"extraction,omitempty"`
	Planet     string            `json:"planet,omitempty"`
	Permits    int               `json:"permits"`
}

// Validate performs the hard validation pass. Per-line lookup failures are
// not checked here; they surface as soft errors during calculation.
func (r *BaseIORequest) Validate() error {
	normalized, err := domain.ValidateExchange(r.Exchange)
	if err != nil {
		return err
	}
	r.Exchange = normalized

	if len(r.Production) == 0 {
		return NewValidationError("at least one production entry is required")
	}
	for i := range r.Production {
		if err := validate.Struct(&r.Production[i]); err != nil {
			return NewValidationError("production entry %d: %s", i, describeValidation(err))
		}
	}

	for i := range r.Habitation {
		entry := &r.Habitation[i]
		if err := validate.Struct(entry); err != nil {
			return NewValidationError("habitation entry %d: %s", i, describeValidation(err))
		}
		if !domain.IsHabitationBuilding(entry.Building) {
			return NewValidationError("habitation entry %d: unknown habitation building %s (valid: %s)",
				i, entry.Building, strings.Join(domain.HabitationTickers(), ", "))
		}
		entry.Building = strings.ToUpper(entry.Building)
	}

	if len(r.Extraction) > 0 {
		if strings.TrimSpace(r.Planet) == "" {
			return NewValidationError("planet is required when extraction entries are given")
		}
		for i := range r.Extraction {
			entry := &r.Extraction[i]
			if err := validate.Struct(entry); err != nil {
				return NewValidationError("extraction entry %d: %s", i, describeValidation(err))
			}
			if !domain.IsExtractionBuilding(entry.Building) {
				return NewValidationError("extraction entry %d: %s is not an extraction building (valid: EXT, RIG, COL)",
					i, entry.Building)
			}
			entry.Building = strings.ToUpper(entry.Building)
			entry.Resource = strings.ToUpper(entry.Resource)
		}
	}

	if r.Permits < 1 {
		return NewValidationError("permits must be at least 1, got %d", r.Permits)
	}
	return nil
}
