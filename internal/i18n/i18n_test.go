package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "מה הפודקאסט שתרצה לשמוע?", c.T("prompt.start"))
	assert.Equal(t, "בחר פרק:", c.T("prompt.choose_episode"))
	assert.Equal(t, "הבחירה פגה. חפש שוב.", c.T("errors.selection_expired"))
	assert.Empty(t, c.Missing(
		"prompt.start", "prompt.choose_podcast", "prompt.choose_episode",
		"search.no_podcasts", "search.no_episodes",
		"errors.generic", "errors.selection_expired", "errors.menu_inactive",
	))
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("a:\n  b:\n    c: deep\n  d: shallow\ntop: x\n"))
	require.NoError(t, err)

	assert.Equal(t, "deep", c.T("a.b.c"))
	assert.Equal(t, "shallow", c.T("a.d"))
	assert.Equal(t, "x", c.T("top"))
	assert.Equal(t, "a.b", c.T("a.b"), "sections are not messages")
	assert.Equal(t, "missing.key", c.T("missing.key"))
	assert.Equal(t, []string{"nope"}, c.Missing("top", "nope"))
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"invalid yaml":    "a: [",
		"empty":           "",
		"bare scalar":     "hello",
		"list of strings": "a:\n  - x\n  - y\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	assert.Equal(t, "key", c.T("key"))
}
