package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/lexiz/internal/cefr"
)

// SupportedMajor is the pack format major version this build reads.
const SupportedMajor = "v1"

//go:embed schema.json
var schemaJSON []byte

//go:embed corpus.json
var corpusJSON []byte

// Pack is a versioned content bundle as stored on disk.
type Pack struct {
	Version    string     `json:"version"`
	Vocabulary []Vocab    `json:"vocabulary"`
	Exercises  []Exercise `json:"exercises"`
	Dialogues  []Dialogue `json:"dialogues"`
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func packSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse pack schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://lexiz/pack.json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// LoadPack reads, schema-validates and semantically validates a pack.
func LoadPack(r io.Reader) (*Pack, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pack: %w", err)
	}

	schema, err := packSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse pack: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var p Pack
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks version compatibility, ID uniqueness and enum values.
func (p *Pack) Validate() error {
	var errs []error
	if !semver.IsValid(p.Version) {
		errs = append(errs, fmt.Errorf("version %q is not a semantic version", p.Version))
	} else if semver.Major(p.Version) != SupportedMajor {
		errs = append(errs, fmt.Errorf("pack version %s is not supported (want %s.x.y)", p.Version, SupportedMajor))
	}

	seen := make(map[string]bool)
	dup := func(kind, id string) {
		key := kind + "/" + id
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate %s id %q", kind, id))
		}
		seen[key] = true
	}
	for _, v := range p.Vocabulary {
		dup("vocabulary", v.ID)
		if !v.Level.Valid() {
			errs = append(errs, fmt.Errorf("vocabulary %q: invalid level", v.ID))
		}
	}
	for _, e := range p.Exercises {
		dup("exercise", e.ID)
		if !e.Level.Valid() {
			errs = append(errs, fmt.Errorf("exercise %q: invalid level", e.ID))
		}
		if !e.Skill.Valid() {
			errs = append(errs, fmt.Errorf("exercise %q: unknown skill %q", e.ID, e.Skill))
		}
		if !e.Type.Valid() {
			errs = append(errs, fmt.Errorf("exercise %q: unknown type %q", e.ID, e.Type))
		}
		if e.Difficulty < 0 || e.Difficulty > 1 {
			errs = append(errs, fmt.Errorf("exercise %q: difficulty %g outside [0,1]", e.ID, e.Difficulty))
		}
	}
	for _, d := range p.Dialogues {
		dup("dialogue", d.ID)
		if !d.Level.Valid() {
			errs = append(errs, fmt.Errorf("dialogue %q: invalid level", d.ID))
		}
	}
	return errors.Join(errs...)
}

// Stats summarizes a pack per level.
type Stats struct {
	Level      cefr.Level
	Vocabulary int
	Exercises  int
	Dialogues  int
}

// Stats counts entries per level, lowest level first.
func (p *Pack) Stats() []Stats {
	idx := make(map[cefr.Level]*Stats)
	out := make([]Stats, 0, len(cefr.AllLevels()))
	for _, l := range cefr.AllLevels() {
		idx[l] = &Stats{Level: l}
	}
	for _, v := range p.Vocabulary {
		if s, ok := idx[v.Level]; ok {
			s.Vocabulary++
		}
	}
	for _, e := range p.Exercises {
		if s, ok := idx[e.Level]; ok {
			s.Exercises++
		}
	}
	for _, d := range p.Dialogues {
		if s, ok := idx[d.Level]; ok {
			s.Dialogues++
		}
	}
	for _, l := range cefr.AllLevels() {
		out = append(out, *idx[l])
	}
	return out
}

// MergeVocabulary adds new entries and replaces entries with a matching
// ID, keeping the pack ordered by ID.
func (p *Pack) MergeVocabulary(entries []Vocab) (added, updated int) {
	pos := make(map[string]int, len(p.Vocabulary))
	for i, v := range p.Vocabulary {
		pos[v.ID] = i
	}
	for _, e := range entries {
		if i, ok := pos[e.ID]; ok {
			p.Vocabulary[i] = e
			updated++
			continue
		}
		pos[e.ID] = len(p.Vocabulary)
		p.Vocabulary = append(p.Vocabulary, e)
		added++
	}
	sort.Slice(p.Vocabulary, func(i, j int) bool { return p.Vocabulary[i].ID < p.Vocabulary[j].ID })
	return added, updated
}

// WriteJSON writes p as indented JSON.
func (p *Pack) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.SetEscapeHTML(false)
	return enc.Encode(p)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultPack returns a fresh copy of the embedded corpus.
func DefaultPack() (*Pack, error) {
	p, err := LoadPack(bytes.NewReader(corpusJSON))
	if err != nil {
		return nil, fmt.Errorf("load embedded corpus: %w", err)
	}
	return p, nil
}

// Default returns the catalog built from the embedded corpus.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		p, err := DefaultPack()
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog = NewCatalog(p)
	})
	return defaultCatalog, defaultErr
}
