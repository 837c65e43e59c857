package types

import "fmt"

// AssignmentType represents the kind of work an assignment describes
type AssignmentType string

const (
	AssignmentTypeDesign       AssignmentType = "design"
	AssignmentTypeReview       AssignmentType = "review"
	AssignmentTypeProduction   AssignmentType = "production"
	AssignmentTypeQualityCheck AssignmentType = "quality_check"
	AssignmentTypeMaintenance  AssignmentType = "maintenance"
)

// AllAssignmentTypes returns all valid assignment types
func AllAssignmentTypes() []AssignmentType {
	return []AssignmentType{
		AssignmentTypeDesign,
		AssignmentTypeReview,
		AssignmentTypeProduction,
		AssignmentTypeQualityCheck,
		AssignmentTypeMaintenance,
	}
}

// IsValid checks if the assignment type is valid
func (t AssignmentType) IsValid() bool {
	switch t {
	case AssignmentTypeDesign,
		AssignmentTypeReview,
		AssignmentTypeProduction,
		AssignmentTypeQualityCheck,
		AssignmentTypeMaintenance:
		return true
	default:
		return false
	}
}

// Normalize returns the type, treating empty as AssignmentTypeDesign
func (t AssignmentType) Normalize() AssignmentType {
	if t == "" {
		return AssignmentTypeDesign
	}
	return t
}

func (t AssignmentType) String() string {
	return string(t)
}

// ParseAssignmentType parses a string into an AssignmentType
func ParseAssignmentType(s string) (AssignmentType, error) {
	t := AssignmentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid assignment type: %s", s)
	}
	return t, nil
}
