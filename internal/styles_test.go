package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleCatalogBuiltins(t *testing.T) {
	catalog := NewStyleCatalog()

	assert.Equal(t, []string{"Detailed", "Concise", "Bullet Points", "Academic", "Mind Map"}, catalog.Names())
	assert.Contains(t, catalog.Resolve(StyleConcise), "CONCISE")
	assert.Contains(t, catalog.Resolve(StyleMindMap), "MIND MAP")
}

func TestStyleCatalogUnknownFallsBackToDetailed(t *testing.T) {
	catalog := NewStyleCatalog()

	assert.Equal(t, catalog.Resolve(StyleDetailed), catalog.Resolve("Nonexistent"))
	assert.Equal(t, catalog.Resolve(StyleDetailed), catalog.Resolve(""))
}

func TestStyleCatalogRegister(t *testing.T) {
	catalog := NewStyleCatalog()

	require.NoError(t, catalog.Register("  Flashcards ", " Make Q/A flashcards. "))
	assert.Equal(t, "Make Q/A flashcards.", catalog.Resolve("Flashcards"))
	assert.Equal(t, "Flashcards", catalog.Names()[len(catalog.Names())-1])

	require.NoError(t, catalog.Register("Flashcards", "Make cloze cards."))
	assert.Equal(t, "Make cloze cards.", catalog.Resolve("Flashcards"))
	assert.Len(t, catalog.Names(), 6)
}

func TestStyleCatalogCustomShadowsBuiltin(t *testing.T) {
	catalog := NewStyleCatalog()

	require.NoError(t, catalog.Register(StyleConcise, "Three sentences at most."))
	assert.Equal(t, "Three sentences at most.", catalog.Resolve(StyleConcise))
	assert.Len(t, catalog.Names(), 5)

	style, ok := catalog.Lookup(StyleConcise)
	require.True(t, ok)
	assert.False(t, style.BuiltIn)
}

func TestStyleCatalogRejectsEmpty(t *testing.T) {
	catalog := NewStyleCatalog()

	for _, tc := range [][2]string{{"", "desc"}, {"Name", ""}, {"  ", "  "}} {
		err := catalog.Register(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidStyle)
		assert.Equal(t, KindInvalidStyle, Kind(err))
	}
	assert.Len(t, catalog.Names(), 5)
}

func TestLoadStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	content := `styles:
  - name: Flashcards
    description: Turn the transcript into question/answer flashcards.
  - name: ELI5
    description: Explain it like I'm five.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	catalog := NewStyleCatalog()
	require.NoError(t, catalog.LoadStyles(path))

	assert.Equal(t, []string{"Detailed", "Concise", "Bullet Points", "Academic", "Mind Map", "Flashcards", "ELI5"}, catalog.Names())
	assert.Equal(t, "Explain it like I'm five.", catalog.Resolve("ELI5"))
}

func TestLoadStylesInvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("styles:\n  - name: Empty\n"), 0644))

	err := NewStyleCatalog().LoadStyles(path)
	assert.ErrorIs(t, err, ErrInvalidStyle)
}
