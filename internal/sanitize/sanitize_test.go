package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLStripsScripts(t *testing.T) {
	got := HTML(`<p>A guide to meditation.</p><script>alert("x")</script>`)
	assert.Contains(t, got, "<p>A guide to meditation.</p>")
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "alert")
}

func TestHTMLKeepsBasicFormatting(t *testing.T) {
	got := HTML(`<p>First <b>edition</b> with <a href="https://example.org" onclick="evil()">notes</a>.</p>`)
	assert.Contains(t, got, "<b>edition</b>")
	assert.Contains(t, got, `href="https://example.org"`)
	assert.NotContains(t, got, "onclick")
}

func TestTextStripsAllMarkup(t *testing.T) {
	assert.Equal(t, "Ten-day course manual.", Text(`  <p>Ten-day <em>course</em> manual.</p>  `))
	assert.Equal(t, "", Text(`<script>alert("x")</script>`))
	assert.Equal(t, "plain", Text("plain"))
}
