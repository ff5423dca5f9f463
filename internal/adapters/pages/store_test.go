package pages_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/dicegame/internal/adapters/pages"
	"github.com/randomtoy/dicegame/internal/ports"
)

type pageData struct {
	Snapshot ports.ViewSnapshot
}

func TestRender_Dice(t *testing.T) {
	s := pages.NewEmbeddedStore()
	var buf bytes.Buffer

	err := s.Render(context.Background(), &buf, pages.Dice, pageData{Snapshot: ports.ViewSnapshot{
		ViewID:      "abc",
		Display:     "Result",
		DiceDisplay: []string{"1", "1"},
	}})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "🎲")
	assert.Equal(t, 2, strings.Count(html, `class="diceobject"`))
	assert.Contains(t, html, `class="sum-box">Result<`)
	assert.Contains(t, html, "dice-three-column")
	assert.Contains(t, html, "dice-text")
	assert.Contains(t, html, "sum-column")
	assert.Contains(t, html, "Roll Dice</button>")
	assert.Contains(t, html, `"abc"`)
	assert.Contains(t, html, "r.status === 404")
	assert.Contains(t, html, "e.persisted")
}

func TestRender_Home(t *testing.T) {
	s := pages.NewEmbeddedStore()
	var buf bytes.Buffer

	err := s.Render(context.Background(), &buf, pages.Home, pageData{Snapshot: ports.ViewSnapshot{
		ViewID:      "xyz",
		Display:     "1",
		DiceDisplay: []string{"1"},
	}})
	require.NoError(t, err)

	html := buf.String()
	assert.Equal(t, 1, strings.Count(html, `class="diceobject"`))
	assert.Contains(t, html, "<p>1</p>")
	assert.Contains(t, html, `href="/diceGame"`)
}

func TestRender_UnknownPage(t *testing.T) {
	err := pages.NewEmbeddedStore().Render(context.Background(), &bytes.Buffer{}, "plinko", nil)
	assert.Error(t, err)
}
