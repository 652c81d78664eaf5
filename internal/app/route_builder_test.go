package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/domain/site"
	"gallery/internal/ingest"
)

func TestBuildPageRoutes(t *testing.T) {
	rb := &RouteBuilder{}
	routes := rb.BuildPageRoutes([]ingest.SourceFile{
		{Name: "index.md"},
		{Name: "Submit Entry.md"},
		{Name: filepath.Join("guides", "index.md")},
		{Name: filepath.Join("guides", "How_To.markdown")},
	})
	require.Len(t, routes, 4)

	byURL := map[string]site.Route{}
	for _, r := range routes {
		byURL[r.URL] = r
	}

	assert.Equal(t, site.RouteIndex, byURL["/"].Kind)
	assert.Equal(t, "index.html", byURL["/"].OutPath)
	assert.Equal(t, filepath.Join("submit-entry", "index.html"), byURL["/submit-entry/"].OutPath)
	assert.Equal(t, site.RouteIndex, byURL["/guides/"].Kind)
	assert.Equal(t, "guides/How_To.markdown", byURL["/guides/how-to/"].Source)
	assert.Equal(t, site.RoutePage, byURL["/guides/how-to/"].Kind)

	assert.Equal(t, "index.html", routes[0].OutPath)
}

func TestBuildAssetRoutes(t *testing.T) {
	routes := (&RouteBuilder{}).BuildAssetRoutes([]ingest.SourceFile{{Name: filepath.Join("img", "a.png")}})
	require.Len(t, routes, 1)
	assert.Equal(t, "/img/a.png", routes[0].URL)
	assert.Equal(t, "asset src=img/a.png url=/img/a.png out="+filepath.Join("img", "a.png"), routes[0].String())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "nomad-gallery", slugify("  NOMAD  Gallery! "))
	assert.Equal(t, "", slugify("---"))
	assert.Equal(t, "über-uns", slugify("Über_uns"))
}
