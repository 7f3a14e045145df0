package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed cards.json
var embeddedCatalog []byte

// Load reads and validates a seed catalog from disk.
func Load(path string) ([]Card, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed dataset %s: %w", path, err)
	}
	return Parse(raw)
}

// LoadEmbedded parses the catalog shipped with the binary.
func LoadEmbedded() ([]Card, error) {
	return Parse(embeddedCatalog)
}

// Parse decodes and validates raw seed JSON. It returns a *ValidationError
// when the document decodes but fails validation, so callers can log the
// full issue list and downgrade to "no seed data".
func Parse(raw []byte) ([]Card, error) {
	var cards []Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode seed dataset: %w", err)
	}

	if issues := Validate(cards); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	return cards, nil
}
