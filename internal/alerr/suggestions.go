package alerr

import (
	"strings"
)

// Field type suggestions based on column name patterns.
var fieldTypeSuggestions = map[string]string{
	"id":          "int32",
	"ip":          "ipv4",
	"ip_address":  "ipv4",
	"ipv6":        "ipv6",
	"created_at":  "datetime",
	"updated_at":  "datetime",
	"deleted_at":  "datetime",
	"timestamp":   "datetime64",
	"date":        "date",
	"birthday":    "date",
	"price":       "decimal(10,2)",
	"amount":      "decimal(10,2)",
	"cost":        "decimal(10,2)",
	"total":       "decimal(10,2)",
	"count":       "uint32",
	"quantity":    "uint32",
	"sign":        "int8",
	"version":     "uint8",
	"enabled":     "boolean",
	"active":      "boolean",
	"tags":        "array(varchar)",
	"payload":     "json",
	"metadata":    "json",
	"name":        "varchar(255)",
	"email":       "varchar(255)",
	"title":       "varchar(255)",
	"description": "text",
	"body":        "text",
}

// SuggestFieldType suggests a field type specification based on a column name.
// Returns empty string if no suggestion is available.
func SuggestFieldType(colName string) string {
	lower := strings.ToLower(colName)

	if suggestion, ok := fieldTypeSuggestions[lower]; ok {
		return suggestion
	}

	// Suffix match: "user_id", "client_ip", "event_date"
	best := ""
	for pattern := range fieldTypeSuggestions {
		if strings.HasSuffix(lower, "_"+pattern) && len(pattern) > len(best) {
			best = pattern
		}
	}
	if best != "" {
		return fieldTypeSuggestions[best]
	}

	return ""
}

// NewUnknownTypeError creates an error for a type name the grammar does not know.
// known is the list of valid names used for the "did you mean" hint.
func NewUnknownTypeError(name string, known []string) *Error {
	return Newf(ErrTypeUnknown, "unsupported field type %q", name).
		With("type", name).
		WithHelp(SuggestSimilar(name, known))
}
