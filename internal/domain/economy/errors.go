package economy

import (
	"fmt"
	"strings"
)

// NotFoundError is the base error for failed entity lookups. It carries the
// identifiers that were looked up so callers can build actionable messages.
type NotFoundError struct {
	Kind        string
	Identifiers []string
	Suggestion  string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.Kind, strings.Join(e.Identifiers, ", "))
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Identifier returns the first identifier, for single-entity lookups.
func (e *NotFoundError) Identifier() string {
	return e.Identifiers[0]
}

// MaterialNotFoundError reports a material ticker or id with no record.
type MaterialNotFoundError struct {
	*NotFoundError
}

func NewMaterialNotFoundError(identifiers ...string) *MaterialNotFoundError {
	return &MaterialNotFoundError{&NotFoundError{Kind: "material", Identifiers: identifiers}}
}

// BuildingNotFoundError reports a building ticker or id with no record.
type BuildingNotFoundError struct {
	*NotFoundError
}

func NewBuildingNotFoundError(identifiers ...string) *BuildingNotFoundError {
	return &BuildingNotFoundError{&NotFoundError{Kind: "building", Identifiers: identifiers}}
}

// RecipeNotFoundError reports a recipe name or output ticker with no recipes.
type RecipeNotFoundError struct {
	*NotFoundError
}

func NewRecipeNotFoundError(identifiers ...string) *RecipeNotFoundError {
	return &RecipeNotFoundError{&NotFoundError{Kind: "recipe", Identifiers: identifiers}}
}

// PlanetNotFoundError reports an unknown planet identifier.
type PlanetNotFoundError struct {
	*NotFoundError
}

func NewPlanetNotFoundError(identifiers ...string) *PlanetNotFoundError {
	return &PlanetNotFoundError{&NotFoundError{Kind: "planet", Identifiers: identifiers}}
}

// InfertilePlanetError is raised when a soil-dependent building (FRM, ORC)
// is placed on a planet whose fertility is absent entirely. A present but
// negative fertility does not trigger this.
type InfertilePlanetError struct {
	BuildingTicker string
}

func (e *InfertilePlanetError) Error() string {
	return fmt.Sprintf("building %s requires a fertile planet, but planet has no fertility", e.BuildingTicker)
}

func NewInfertilePlanetError(buildingTicker string) *InfertilePlanetError {
	return &InfertilePlanetError{BuildingTicker: buildingTicker}
}

// InvalidRecipeError reports recipe data that cannot drive a rate
// calculation: a non-positive duration or an empty output list. This is an
// error, never a silent zero rate.
type InvalidRecipeError struct {
	Message string
}

func (e *InvalidRecipeError) Error() string {
	return e.Message
}

func NewInvalidRecipeError(format string, args ...any) *InvalidRecipeError {
	return &InvalidRecipeError{Message: fmt.Sprintf(format, args...)}
}

// InvalidEfficiencyError reports an efficiency multiplier outside (0, inf).
type InvalidEfficiencyError struct {
	Efficiency float64
}

func (e *InvalidEfficiencyError) Error() string {
	return fmt.Sprintf("efficiency must be greater than 0, got: %g", e.Efficiency)
}

func NewInvalidEfficiencyError(efficiency float64) *InvalidEfficiencyError {
	return &InvalidEfficiencyError{Efficiency: efficiency}
}
