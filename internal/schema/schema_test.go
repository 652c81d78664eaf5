package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gallery/internal/domain/card"
	"gallery/internal/logger"
)

func TestEntryPoint_Load(t *testing.T) {
	ep := SchemaPackageEntryPoint
	assert.Equal(t, "NewSchemaPackage", ep.Name)
	assert.Equal(t, 0, ep.Parameter)

	pkg := ep.Load()
	require.Len(t, pkg.Sections, 1)
	assert.Equal(t, "GalleryEntry", pkg.Sections[0].Name)
	assert.Len(t, pkg.Sections[0].Quantities, 15)

	q, ok := pkg.Sections[0].Quantity("methodology_type")
	require.True(t, ok)
	assert.Equal(t, EnumEdit, q.Component)
	assert.Equal(t, []string{"Computational", "Experimental", "Mixed/Hybrid"}, q.Enum)

	q, _ = GalleryEntry.Quantity("keywords")
	assert.True(t, q.IsList())
	_, ok = GalleryEntry.Quantity("submitter")
	assert.False(t, ok)
}

func TestJSONSchema(t *testing.T) {
	s := GalleryEntry.JSONSchema()
	props := s["properties"].(map[string]any)

	assert.Equal(t, "integer", props["downloads"].(map[string]any)["type"])
	assert.Equal(t, "array", props["coauthors"].(map[string]any)["type"])
	assert.Contains(t, props, "m_def")
	assert.Equal(t, false, s["additionalProperties"])
}

func TestParseArchive(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "test.archive.yaml"))
	require.NoError(t, err)

	a, err := ParseArchive(raw)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	a.Data.Normalize(logger.FromZap(zap.New(core)))

	assert.Equal(t, "Test Gallery Entry", a.Data.Name)
	assert.Equal(t, "Battery Science", a.Data.ResearchField)
	assert.Equal(t, "Test Institute", a.Data.Institution)
	require.NotNil(t, a.Data.Downloads)
	assert.Equal(t, 100, *a.Data.Downloads)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "GalleryEntry.normalize", logs.All()[0].Message)
	assert.Equal(t, "Test Gallery Entry", logs.All()[0].ContextMap()["name"])
}

func TestParseArchive_Invalid(t *testing.T) {
	raw := []byte("data:\n  name: X\n  downloads: many\n  methodology_type: Theoretical\n  colour: red\n")

	_, err := ParseArchive(raw)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "GalleryEntry", verr.Section)
	assert.GreaterOrEqual(t, len(verr.Issues), 3)
	assert.Contains(t, err.Error(), "/downloads")
}

func TestParseArchive_NoData(t *testing.T) {
	_, err := ParseArchive([]byte("metadata:\n  upload_id: x\n"))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestEntry_Raw(t *testing.T) {
	users := 0
	e := Entry{
		Name:                 " Tool ",
		Keywords:             []string{"AI", " "},
		PublicationReference: "10.1/x",
		EstimatedActiveUsers: &users,
	}
	e.Normalize(nil)

	rec := card.Extract(e.Raw())
	assert.Equal(t, "Tool", rec.Title)
	assert.Equal(t, []string{"AI"}, rec.Keywords)
	assert.Equal(t, "10.1/x", rec.Publication)
	require.NotNil(t, rec.ActiveUsers)
	assert.Equal(t, 0, *rec.ActiveUsers)
	assert.Equal(t, card.DefaultSubmitter, rec.Submitter)
}
