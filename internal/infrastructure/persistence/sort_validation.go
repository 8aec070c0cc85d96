package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
// Sort fields end up verbatim in ORDER BY clauses, so nothing outside the
// whitelist may pass.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"first_name":   true,
	"last_name":    true,
	"account_type": true,
	"suburb":       true,
	"postcode":     true,
}

// PatientSortFields contains allowed sort fields for patients
var PatientSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"species":       true,
	"breed":         true,
	"date_of_birth": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"username":   true,
	"name":       true,
	"role":       true,
}

// ActSortFields contains allowed sort fields for financial acts
var ActSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"start_time": true,
	"status":     true,
	"kind":       true,
	"total":      true,
}

// NameSortFields contains allowed sort fields for simple named entities
// (roster areas, schedules, stock locations)
var NameSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}
