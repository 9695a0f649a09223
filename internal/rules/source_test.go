package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsBaseline(t *testing.T) {
	defaults := Defaults()
	require.Len(t, defaults, 2)

	assert.Equal(t, "R1_UNDERPERFORM_STOPS", defaults[0].ID)
	assert.Equal(t, SeverityAction, defaults[0].Severity)
	assert.Equal(t, "R2_MISSING_STANDARD", defaults[1].ID)
	assert.Equal(t, SeverityUrgent, defaults[1].Severity)

	for _, r := range defaults {
		assert.True(t, r.Enabled)
		assert.Empty(t, r.MissingFields())
	}
}

func TestSelectPrefersAuthoredTable(t *testing.T) {
	authored := []Rule{validRule("R_AUTHORED")}

	selected, source, err := Select(authored, "")
	require.NoError(t, err)
	assert.Equal(t, SourceAuthored, source)
	assert.Equal(t, authored, selected)
}

func TestSelectFallsBackToDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")

	exported := []Rule{validRule("R_EXPORTED")}
	require.NoError(t, ExportDocument(path, "deck.xlsm", exported))

	selected, source, err := Select(nil, path)
	require.NoError(t, err)
	assert.Equal(t, SourceDocument, source)
	require.Len(t, selected, 1)
	assert.Equal(t, "R_EXPORTED", selected[0].ID)
}

func TestSelectFallsBackToDefaults(t *testing.T) {
	selected, source, err := Select(nil, filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, SourceDefaults, source)
	assert.Len(t, selected, 2)
}

func TestDocumentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")

	table := Defaults()
	require.NoError(t, ExportDocument(path, "deck.xlsm", table))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "deck.xlsm", doc.Workbook)
	assert.False(t, doc.ExportedAt.IsZero())
	assert.Equal(t, table, doc.Rules)
}

func TestLoadDocumentMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadDocument(path)
	assert.Error(t, err)
}
