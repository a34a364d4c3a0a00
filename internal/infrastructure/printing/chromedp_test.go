package printing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EmptyHTMLRejected(t *testing.T) {
	r, err := NewChromedpRenderer(&ChromedpConfig{})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "   "})
	assert.ErrorIs(t, err, ErrEmptyHTML)

	_, err = r.Render(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyHTML)
}

func TestBuildCompleteHTML(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	t.Run("fragment is wrapped", func(t *testing.T) {
		got := r.buildCompleteHTML(&RenderRequest{HTML: "<div>hi</div>", Title: "Cert"})
		assert.Contains(t, got, "<!DOCTYPE html>")
		assert.Contains(t, got, "<title>Cert</title>")
		assert.Contains(t, got, "<div>hi</div>")
	})

	t.Run("complete document passes through", func(t *testing.T) {
		doc := "<!DOCTYPE html><html><body>x</body></html>"
		assert.Equal(t, doc, r.buildCompleteHTML(&RenderRequest{HTML: doc}))
	})
}

func TestMMToInches(t *testing.T) {
	assert.InDelta(t, 8.27, mmToInches(pageWidthMM), 0.01)
	assert.InDelta(t, 11.69, mmToInches(pageHeightMM), 0.01)
}
