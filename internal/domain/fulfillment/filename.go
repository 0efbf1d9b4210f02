package fulfillment

import (
	"regexp"
	"strings"
	"time"
)

const (
	orderFilePrefix = "CMDCLI"
	reportFileToken = "CRPCMD"
	timestampLayout = "20060102150405"
)

// tenantPrefixPattern matches the leading uppercase tenant prefix in report
// filenames, e.g. "FINGER_CRPCMD20250101120000.xml".
var tenantPrefixPattern = regexp.MustCompile(`^([A-Z]+)_CRPCMD`)

// OrderFilename derives the name of an outbound order file. The tenant prefix
// is deliberately not embedded: the 3PL's current inbox convention is
// prefix-less, so outbound files offer no filename-based correlation. Names
// collide only within the same second; that window is not guarded.
func OrderFilename(now time.Time) string {
	return orderFilePrefix + now.Format(timestampLayout) + ".xml"
}

// ExtractTenantPrefix returns the tenant prefix embedded in an inbound report
// filename. The second return value is false when the name does not follow
// the report convention — meaning "not one of ours", not "malformed".
func ExtractTenantPrefix(filename string) (string, bool) {
	m := tenantPrefixPattern.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsReportFilename reports whether a file name follows the inbound report
// naming convention.
func IsReportFilename(filename string) bool {
	return strings.Contains(filename, reportFileToken) && strings.HasSuffix(filename, ".xml")
}

// BackupFilename derives the name of a timestamped backup copy of a sent file.
func BackupFilename(now time.Time, filename string) string {
	return now.Format(timestampLayout) + "_" + filename
}
