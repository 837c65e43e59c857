package types

import "fmt"

// SortKey selects the ordering of assignment lists. Every key breaks ties by
// assignment ID descending so that pagination is stable.
type SortKey string

const (
	SortCreatedAtDesc SortKey = "created_at_desc"
	SortDeadlineAsc   SortKey = "deadline_asc"
	SortPriorityDesc  SortKey = "priority_desc"
	SortUpdatedAtDesc SortKey = "updated_at_desc"
)

// IsValid checks if the sort key is valid
func (k SortKey) IsValid() bool {
	switch k {
	case SortCreatedAtDesc,
		SortDeadlineAsc,
		SortPriorityDesc,
		SortUpdatedAtDesc:
		return true
	default:
		return false
	}
}

// Normalize returns the key, treating empty as SortCreatedAtDesc
func (k SortKey) Normalize() SortKey {
	if k == "" {
		return SortCreatedAtDesc
	}
	return k
}

func (k SortKey) String() string {
	return string(k)
}

// ParseSortKey parses a string into a SortKey. Empty input yields the default.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s).Normalize()
	if !k.IsValid() {
		return "", fmt.Errorf("invalid sort key: %s", s)
	}
	return k, nil
}
