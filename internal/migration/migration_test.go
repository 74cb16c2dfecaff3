package migration

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readUpMigration(t *testing.T) string {
	t.Helper()
	raw, err := embeddedMigrations.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	return string(raw)
}

// tableBody extracts the column list of one CREATE TABLE statement.
func tableBody(t *testing.T, schema, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\);`)
	m := re.FindStringSubmatch(schema)
	require.NotNil(t, m, "table %s missing from migration", table)
	return m[1]
}

// Deleting a property must take its amenity links, pricing layers,
// reservations and their frozen nights with it.
func TestPropertyDeleteCascades(t *testing.T) {
	schema := readUpMigration(t)

	for _, table := range []string{
		"property_amenities",
		"seasonal_rates",
		"price_overrides",
		"reservations",
		"reservation_nights",
		"expenses",
	} {
		body := tableBody(t, schema, table)
		assert.Contains(t, body,
			"REFERENCES properties (id) ON DELETE CASCADE",
			"%s must cascade on property delete", table)
	}

	// Nights also ride on their reservation.
	nights := tableBody(t, schema, "reservation_nights")
	assert.Contains(t, nights, "REFERENCES reservations (id) ON DELETE CASCADE")

	// Search logs keep history: a deleted property nulls the click ref.
	logs := tableBody(t, schema, "search_logs")
	assert.Contains(t, logs, "REFERENCES properties (id) ON DELETE SET NULL")
}

// The ledger is the audit trail: a property delete may clear the attribution
// dimension but never drop posted lines.
func TestLedgerRowsSurvivePropertyDelete(t *testing.T) {
	schema := readUpMigration(t)

	lines := tableBody(t, schema, "journal_lines")
	var propertyFK string
	for _, stmt := range strings.Split(lines, ",\n") {
		if strings.Contains(stmt, "REFERENCES properties (id)") {
			propertyFK = stmt
		}
	}
	require.NotEmpty(t, propertyFK)
	assert.Contains(t, propertyFK, "ON DELETE SET NULL")
	assert.NotContains(t, propertyFK, "ON DELETE CASCADE")
}
