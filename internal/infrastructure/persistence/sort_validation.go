package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// DeliverySortFields contains allowed sort fields for deliveries
var DeliverySortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"delivery_number": true,
	"sales_order_id":  true,
	"status":          true,
	"picked_at":       true,
	"shipped_at":      true,
	"delivered_at":    true,
}

// GoodIssueSortFields contains allowed sort fields for good issues
var GoodIssueSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"issue_number": true,
	"delivery_id":  true,
	"status":       true,
	"approved_at":  true,
}

// ReturnOrderSortFields contains allowed sort fields for return orders
var ReturnOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"return_number": true,
	"delivery_id":   true,
	"status":        true,
	"approved_at":   true,
}
