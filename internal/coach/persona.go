package coach

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/fitcoach/coach/internal/markdown"
)

//go:embed persona.md
var personaSource []byte

// Persona is the fixed part of the system prompt.
type Persona struct {
	Model       string   `yaml:"model"`
	Temperature float64  `yaml:"temperature"`
	Intro       string   `yaml:"intro"`
	Guidelines  []string `yaml:"guidelines"`
}

// LoadPersona reads a persona from a markdown document's frontmatter.
func LoadPersona(parser *markdown.Parser, source []byte) (*Persona, error) {
	persona := &Persona{}
	found, err := parser.DecodeFrontmatter(source, persona)
	if err != nil {
		return nil, fmt.Errorf("failed to decode persona: %w", err)
	}
	if !found || persona.Intro == "" {
		return nil, errors.New("persona has no intro")
	}
	return persona, nil
}

// DefaultPersona returns the embedded persona.
func DefaultPersona() (*Persona, error) {
	return LoadPersona(markdown.NewParser(), personaSource)
}
