package internal

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in style names
const (
	StyleDetailed     = "Detailed"
	StyleConcise      = "Concise"
	StyleBulletPoints = "Bullet Points"
	StyleAcademic     = "Academic"
	StyleMindMap      = "Mind Map"
)

// builtinOrder is the order built-in styles are listed in
var builtinOrder = []string{
	StyleDetailed,
	StyleConcise,
	StyleBulletPoints,
	StyleAcademic,
	StyleMindMap,
}

var builtinStyles = map[string]string{
	StyleDetailed: `You are professional notes maker. Create helpful, insightful, and DETAILED notes from the provided transcript.
Include all important concepts, examples, and explanations. Generate in markdown format with proper headings,
subheadings, and formatting.`,

	StyleConcise: `You are professional notes maker. Create CONCISE yet comprehensive notes from the provided transcript.
Focus only on the key points and main ideas. Generate in markdown format with clear structure.`,

	StyleBulletPoints: `You are professional notes maker. Create BULLET POINT notes from the provided transcript.
Organize information hierarchically with main points and sub-points. Use markdown bullet formatting.`,

	StyleAcademic: `You are professional notes maker. Create ACADEMIC-STYLE notes from the provided transcript.
Include citations where relevant, define technical terms, and organize by concepts. Use markdown format with proper headings.`,

	StyleMindMap: `You are professional notes maker. Create a MIND MAP style set of notes from the provided transcript.
Use markdown to create a hierarchical structure showing relationships between concepts.
Use ## for main concepts and nested lists for related ideas.`,
}

// Style is a named note instruction
type Style struct {
	Name        string `yaml:"name"`
	Instruction string `yaml:"description"`
	BuiltIn     bool   `yaml:"-"`
}

// StyleCatalog resolves style names to instructions. Custom styles live for
// the session only and shadow built-ins with the same name.
type StyleCatalog struct {
	custom      map[string]string
	customOrder []string
}

// NewStyleCatalog returns a catalog holding only the built-in styles
func NewStyleCatalog() *StyleCatalog {
	return &StyleCatalog{custom: make(map[string]string)}
}

// Resolve returns the instruction for name. Unknown names fall back to Detailed.
func (c *StyleCatalog) Resolve(name string) string {
	if style, ok := c.Lookup(name); ok {
		return style.Instruction
	}
	return builtinStyles[StyleDetailed]
}

// Lookup finds a style by exact name, custom styles first
func (c *StyleCatalog) Lookup(name string) (Style, bool) {
	if instruction, ok := c.custom[name]; ok {
		return Style{Name: name, Instruction: instruction}, true
	}
	if instruction, ok := builtinStyles[name]; ok {
		return Style{Name: name, Instruction: instruction, BuiltIn: true}, true
	}
	return Style{}, false
}

// Register adds or overwrites a custom style
func (c *StyleCatalog) Register(name, description string) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return ErrInvalidStyle
	}

	if _, exists := c.custom[name]; !exists {
		c.customOrder = append(c.customOrder, name)
	}
	c.custom[name] = description
	return nil
}

// Names lists built-in styles in fixed order followed by custom styles in
// registration order. A custom style shadowing a built-in is listed once.
func (c *StyleCatalog) Names() []string {
	names := slices.Clone(builtinOrder)
	for _, name := range c.customOrder {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Styles returns every selectable style as resolved for lookup
func (c *StyleCatalog) Styles() []Style {
	names := c.Names()
	styles := make([]Style, 0, len(names))
	for _, name := range names {
		style, _ := c.Lookup(name)
		styles = append(styles, style)
	}
	return styles
}

type styleFile struct {
	Styles []Style `yaml:"styles"`
}

// LoadStyles registers every style from a YAML file of the form
//
//	styles:
//	  - name: Flashcards
//	    description: Turn the transcript into question/answer flashcards.
func (c *StyleCatalog) LoadStyles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading styles file: %w", err)
	}

	var file styleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing styles file: %w", err)
	}

	for i, style := range file.Styles {
		if err := c.Register(style.Name, style.Instruction); err != nil {
			return fmt.Errorf("style %d in %s: %w", i+1, path, err)
		}
	}
	return nil
}
