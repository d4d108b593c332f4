package content

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lexiz/internal/cefr"
)

func TestDefaultCorpusLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", c.Version())

	for _, l := range cefr.AllLevels() {
		assert.NotEmpty(t, c.Exercises(l), "no exercises at %s", l)
		assert.NotEmpty(t, c.Dialogues(l), "no dialogues at %s", l)
		for _, e := range c.Exercises(l) {
			assert.Equal(t, l, e.Level)
			assert.Positive(t, e.Seconds())
		}
	}
}

func TestVocabularyAtOrBelow(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	a1 := c.Vocabulary(cefr.A1)
	b1 := c.Vocabulary(cefr.B1)
	require.NotEmpty(t, a1)
	assert.Greater(t, len(b1), len(a1))
	for _, v := range b1 {
		assert.LessOrEqual(t, v.Level, cefr.B1)
	}
	for i := 1; i < len(b1); i++ {
		assert.Less(t, b1[i-1].ID, b1[i].ID, "vocabulary must be ordered by ID")
	}
}

func TestLoadPackRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"schema: bad level", `{"version":"v1.0.0","vocabulary":[{"id":"x","source":"a","translation":"b","level":"D1"}],"exercises":[],"dialogues":[]}`, "schema validation failed"},
		{"schema: missing field", `{"version":"v1.0.0","vocabulary":[],"exercises":[]}`, "schema validation failed"},
		{"major version", `{"version":"v2.0.0","vocabulary":[],"exercises":[],"dialogues":[]}`, "not supported"},
		{"duplicate id", `{"version":"v1.0.0","vocabulary":[{"id":"x","source":"a","translation":"b","level":"A1"},{"id":"x","source":"c","translation":"d","level":"A2"}],"exercises":[],"dialogues":[]}`, "duplicate vocabulary"},
		{"unknown exercise type", `{"version":"v1.0.0","vocabulary":[],"exercises":[{"id":"e","level":"A1","skill":"grammar","type":"karaoke","difficulty":0.5}],"dialogues":[]}`, "unknown type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPack(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPackRoundTripAndMerge(t *testing.T) {
	p, err := LoadPack(strings.NewReader(`{"version":"v1.0.0","vocabulary":[{"id":"a1-house","source":"house","translation":"casa","level":"A1"}],"exercises":[],"dialogues":[]}`))
	require.NoError(t, err)

	added, updated := p.MergeVocabulary([]Vocab{
		{ID: "a1-house", Source: "house", Translation: "hogar", Level: cefr.A1},
		{ID: "a2-kitchen", Source: "kitchen", Translation: "cocina", Level: cefr.A2},
	})
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, updated)

	var buf bytes.Buffer
	require.NoError(t, p.WriteJSON(&buf))
	again, err := LoadPack(&buf)
	require.NoError(t, err)
	require.Len(t, again.Vocabulary, 2)
	assert.Equal(t, "hogar", again.Vocabulary[0].Translation)

	stats := again.Stats()
	assert.Equal(t, 1, stats[0].Vocabulary)
	assert.Equal(t, 1, stats[1].Vocabulary)
}

func TestImportVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	rows := [][]string{
		{"source", "translation", "level", "topic"},
		{"Good morning", "buenos días", "A1", "greetings"},
		{"schedule", "horario", "b1", ""},
		{"orphan", "", "A1", ""},
		{"thing", "cosa", "Z9", ""},
		{"", "", "", ""},
		{"Good morning", "buen día", "A1", ""},
	}
	for i, r := range rows {
		for j, v := range r {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cellName, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	res, err := ImportVocabulary(cfg)
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, "a1-good-morning", res.Entries[0].ID)
	assert.Equal(t, "greetings", res.Entries[0].Topic)
	assert.Equal(t, cefr.B1, res.Entries[1].Level)
	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, res.Errors, 3)
}

func TestImportMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	cfg.SheetName = "Words"
	_, err := ImportVocabulary(cfg)
	assert.Error(t, err)
}
