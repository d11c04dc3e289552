package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blockconnect/backend/internal/catalog"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeCatalog(t, `{
		"forum_categories": [
			{"value": "general", "label": "General", "description": "Anything"},
			{"value": "maintenance", "label": "Maintenance", "description": "Repairs"}
		],
		"document_categories": [
			{"value": "rules", "label": "House Rules", "description": ""}
		]
	}`)

	cat, err := catalog.LoadFromFile(path)
	require.NoError(t, err)

	require.Len(t, cat.ForumCategories(), 2)
	require.Len(t, cat.DocumentCategories(), 1)

	require.True(t, cat.ValidForumCategory("general"))
	require.True(t, cat.ValidForumCategory("maintenance"))
	require.False(t, cat.ValidForumCategory("rules"))

	require.True(t, cat.ValidDocumentCategory("rules"))
	require.False(t, cat.ValidDocumentCategory("general"))
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := catalog.LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := writeCatalog(t, `{not json`)
	_, err := catalog.LoadFromFile(path)
	require.Error(t, err)
}

func TestEmptyCatalogRejectsEverything(t *testing.T) {
	path := writeCatalog(t, `{}`)
	cat, err := catalog.LoadFromFile(path)
	require.NoError(t, err)
	require.False(t, cat.ValidForumCategory("general"))
	require.Empty(t, cat.ForumCategories())
}
