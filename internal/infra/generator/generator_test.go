package generator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name+".html"), []byte(body), 0o644)
	assert.NoError(t, err)
}

func TestGenerateRendersCustomizations(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "restaurant",
		`<h1>{{.BusinessName}}</h1><p style="color:{{.PrimaryColor}}">{{.BusinessDescription}}</p>`)

	s := NewService(dir)

	customizations := json.RawMessage(`{
		"businessName": "Joe's Pizza",
		"businessDescription": "Wood-fired pizza since 1998",
		"industry": "restaurant",
		"primaryColor": "#c0392b"
	}`)

	html, err := s.Generate("restaurant", customizations)

	assert.NoError(t, err)
	assert.Contains(t, html, "Joe&#39;s Pizza")
	assert.Contains(t, html, "Wood-fired pizza since 1998")
	assert.Contains(t, html, "#c0392b")
}

func TestGenerateMapEmbedOnlyWithAddress(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "retail", `{{if .MapEmbedURL}}<iframe src="{{.MapEmbedURL}}"></iframe>{{end}}`)

	s := NewService(dir)

	withAddress := json.RawMessage(`{"businessName":"Shop","includeMaps":true,"address":"12 Main St, Springfield"}`)
	html, err := s.Generate("retail", withAddress)
	assert.NoError(t, err)
	assert.Contains(t, html, "google.com/maps/embed")
	assert.Contains(t, html, "12+Main+St")

	withoutAddress := json.RawMessage(`{"businessName":"Shop","includeMaps":true}`)
	html, err = s.Generate("retail", withoutAddress)
	assert.NoError(t, err)
	assert.NotContains(t, html, "iframe")
}

func TestGenerateUnknownTemplate(t *testing.T) {
	s := NewService(t.TempDir())

	_, err := s.Generate("bogus", json.RawMessage(`{}`))

	assert.Error(t, err)
	assert.EqualError(t, err, "template bogus not found")
}

func TestGenerateInvalidCustomizations(t *testing.T) {
	s := NewService(t.TempDir())

	_, err := s.Generate("restaurant", json.RawMessage(`{not json`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid customizations")
}

func TestAvailableTemplates(t *testing.T) {
	s := NewService("site_templates")

	templates := s.AvailableTemplates()

	assert.Len(t, templates, 4)
	ids := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		ids = append(ids, tmpl.ID)
		assert.NotEmpty(t, tmpl.Name)
		assert.NotEmpty(t, tmpl.Industries)
	}
	assert.ElementsMatch(t, []string{"restaurant", "professional", "retail", "healthcare"}, ids)
}

func TestPreviewStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPreviewStore(filepath.Join(dir, "previews"))
	assert.NoError(t, err)

	err = store.WritePreview(42, "<html>preview</html>")
	assert.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(store.Dir, "42.html"))
	assert.NoError(t, err)
	assert.Equal(t, "<html>preview</html>", string(content))
}

func TestSEOFieldsDerived(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "healthcare", `<title>{{.SEOTitle}}</title><meta content="{{.SEODescription}}">`)

	s := NewService(dir)

	customizations := json.RawMessage(`{"businessName":"Bright Smile","industry":"dental","businessDescription":"Family dentistry"}`)
	html, err := s.Generate("healthcare", customizations)

	assert.NoError(t, err)
	// dental is not in the title map; the generic fallback applies.
	assert.Contains(t, html, "Bright Smile - Professional Services")
	assert.Contains(t, html, "Family dentistry")
}
