// Package rules provides the YAML-based keyword taxonomy that assigns
// transactions to spending categories and accumulates per-category totals.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/normalize"
)

//go:embed rules.yaml
var embeddedRules []byte

// categoryEntry is one taxonomy row as loaded from YAML.
type categoryEntry struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// taxonomy is the top-level YAML structure.
type taxonomy struct {
	Categories []categoryEntry `yaml:"categories"`
}

// Engine matches transaction descriptions against the category taxonomy.
// Categories are evaluated in file order; the first category with a
// matching keyword wins, so the order is a deliberate precedence. The
// engine is immutable after construction and safe to share.
type Engine struct {
	entries []categoryEntry
}

var descriptionJunk = regexp.MustCompile(`[^a-z0-9 ]+`)

// NewEngine creates an engine from YAML taxonomy data.
func NewEngine(data []byte) (*Engine, error) {
	var tax taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("failed to parse YAML taxonomy (check syntax and indentation): %w", err)
	}
	if len(tax.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy defines no categories")
	}

	valid := make(map[domain.Category]struct{}, len(domain.Categories))
	for _, c := range domain.Categories {
		valid[c] = struct{}{}
	}

	for i, entry := range tax.Categories {
		cat := domain.Category(entry.Name)
		if _, ok := valid[cat]; !ok {
			return nil, fmt.Errorf("category %d (%s): not a known category", i, entry.Name)
		}
		if cat == domain.CategoryOther {
			return nil, fmt.Errorf("category %d: %q is the implicit catch-all and cannot carry keywords", i, entry.Name)
		}
		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("category %d (%s): keyword set cannot be empty", i, entry.Name)
		}
		for j, kw := range entry.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("category %d (%s): keyword %d is empty", i, entry.Name, j)
			}
		}
	}

	return &Engine{entries: tax.Categories}, nil
}

// LoadEmbedded loads the embedded rules.yaml taxonomy.
func LoadEmbedded() (*Engine, error) {
	engine, err := NewEngine(embeddedRules)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded taxonomy: %w", err)
	}
	return engine, nil
}

// LoadFromFile loads a taxonomy from a filesystem path.
func LoadFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	engine, err := NewEngine(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy from %q: %w", path, err)
	}
	return engine, nil
}

// normalizeDescription lowercases, folds diacritics, and strips
// punctuation so keyword matching sees plain words.
func normalizeDescription(description string) string {
	s := strings.ToLower(normalize.FoldASCII(description))
	return descriptionJunk.ReplaceAllString(s, " ")
}

// Match returns the first category in taxonomy order whose keyword set
// matches the description, or Other when nothing matches.
func (e *Engine) Match(description string) domain.Category {
	desc := normalizeDescription(description)
	for _, entry := range e.entries {
		for _, kw := range entry.Keywords {
			if strings.Contains(desc, kw) {
				return domain.Category(entry.Name)
			}
		}
	}
	return domain.CategoryOther
}

// Categorize accumulates per-category totals over the transaction list.
// Credit-direction transactions are excluded entirely. The returned map is
// a fresh value fully populated over the category universe.
func (e *Engine) Categorize(txns []domain.Transaction) domain.CategoryTotals {
	sums := make(map[domain.Category]float64, len(domain.Categories))
	for _, txn := range txns {
		if txn.Direction == domain.DirectionCredit {
			continue
		}
		sums[e.Match(txn.Description)] += normalize.MoneyValue(txn.Amount)
	}

	totals := domain.NewCategoryTotals()
	for cat, sum := range sums {
		totals[cat] = normalize.FormatMoney(sum)
	}
	return totals
}
