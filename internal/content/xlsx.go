package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lexiz/internal/cefr"
)

// ImportConfig describes the spreadsheet layout for vocabulary import.
type ImportConfig struct {
	FilePath          string
	SheetName         string
	SourceColumn      string
	TranslationColumn string
	LevelColumn       string
	TopicColumn       string // optional
	StartRow          int    // 1-based
}

// DefaultImportConfig returns the layout: A source, B translation, C level,
// D topic, with a header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:         "Sheet1",
		SourceColumn:      "A",
		TranslationColumn: "B",
		LevelColumn:       "C",
		TopicColumn:       "D",
		StartRow:          2,
	}
}

// ImportResult reports what an import produced.
type ImportResult struct {
	Entries []Vocab
	Skipped int
	Errors  []string
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// VocabID derives a stable ID from level and source text.
func VocabID(level cefr.Level, source string) string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(source), "-"), "-")
	return strings.ToLower(level.String()) + "-" + slug
}

// ImportVocabulary reads vocabulary rows from an xlsx workbook. Rows with
// missing fields or unknown levels are skipped and reported.
func ImportVocabulary(cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", cfg.SheetName, err)
	}

	cols := map[string]int{}
	for name, letter := range map[string]string{
		"source":      cfg.SourceColumn,
		"translation": cfg.TranslationColumn,
		"level":       cfg.LevelColumn,
		"topic":       cfg.TopicColumn,
	} {
		if letter == "" {
			cols[name] = -1
			continue
		}
		idx, err := excelize.ColumnNameToNumber(letter)
		if err != nil {
			return nil, fmt.Errorf("%s column: %w", name, err)
		}
		cols[name] = idx - 1
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	start := max(cfg.StartRow, 1)
	res := &ImportResult{}
	seen := map[string]bool{}
	for i := start - 1; i < len(rows); i++ {
		row := rows[i]
		lineNo := i + 1
		source, translation := cell(row, "source"), cell(row, "translation")
		if source == "" && translation == "" {
			continue
		}
		if source == "" || translation == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: source and translation are required", lineNo))
			continue
		}
		level, err := cefr.ParseLevel(cell(row, "level"))
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", lineNo, err))
			continue
		}
		id := VocabID(level, source)
		if seen[id] {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: duplicate entry %q", lineNo, id))
			continue
		}
		seen[id] = true
		res.Entries = append(res.Entries, Vocab{
			ID:          id,
			Source:      source,
			Translation: translation,
			Level:       level,
			Topic:       cell(row, "topic"),
		})
	}
	return res, nil
}
