package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonKeyChars    = regexp.MustCompile("[^a-z0-9_]")
	repeatedUnders = regexp.MustCompile("_+")
)

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return "PROD-" + strings.ToUpper(uuid.New().String()[:8])
}

// ColumnKey normalises a spreadsheet header: "Sale Price" -> "sale_price"
func ColumnKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	s = nonKeyChars.ReplaceAllString(s, "")
	s = repeatedUnders.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
