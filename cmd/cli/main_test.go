package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/linkshelf/pkg/config"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&config.Config{DatabaseURL: dbPath})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExportUnknownUser(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := run(t, db, "export", "--email", "nobody@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody@example.com")
}

func TestEnsureDefaultsThenExport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := run(t, db, "ensure-defaults", "--email", "Me@Example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "me@example.com")

	out, err = run(t, db, "export", "--email", "me@example.com")
	require.NoError(t, err)

	var tree domain.Tree
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Empty(t, tree.Sections)
	require.Len(t, tree.CategoriesWithoutSection, len(domain.DefaultCategoryNames))
	assert.Equal(t, domain.DefaultCategoryNames[0], tree.CategoriesWithoutSection[0].Name)
}

func TestImportNormalizesEntries(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cli.db")
	backup := filepath.Join(dir, "backup.json")

	require.NoError(t, os.WriteFile(backup, []byte(`{
  "sections": [
    {"name": "Work", "categories": [
      {"name": "Tools", "bookmarks": [
        {"url": "example.com/docs", "pinned": true},
        {"url": "not a url"}
      ]}
    ]}
  ],
  "categories_without_section": [],
  "pinned": [],
  "theme": "light"
}`), 0o600))

	_, err := run(t, db, "import", "--email", "me@example.com", "--file", backup)
	require.NoError(t, err)

	out, err := run(t, db, "export", "--email", "me@example.com")
	require.NoError(t, err)

	var tree domain.Tree
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.Len(t, tree.Sections, 1)
	assert.Equal(t, "Work", tree.Sections[0].Name)
	require.Len(t, tree.Sections[0].Categories, 1)

	bookmarks := tree.Sections[0].Categories[0].Bookmarks
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "https://example.com/docs", bookmarks[0].URL)
	assert.True(t, bookmarks[0].Pinned)
	require.NotNil(t, bookmarks[0].FaviconURL)
	require.Len(t, tree.Pinned, 1)
}

func TestImportRequiresFile(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := run(t, db, "import", "--email", "me@example.com")
	assert.Error(t, err)
}

func names(tree domain.Tree) []string {
	var out []string
	for _, s := range tree.Sections {
		out = append(out, "section:"+s.Name)
		for _, c := range s.Categories {
			out = append(out, s.Name+"/"+c.Name)
		}
	}
	for _, c := range tree.CategoriesWithoutSection {
		out = append(out, c.Name)
	}
	return append(out, "theme:"+string(tree.Theme))
}

func TestExportImportBetweenDatabases(t *testing.T) {
	dir := t.TempDir()
	sourceDB := filepath.Join(dir, "source.db")
	targetDB := filepath.Join(dir, "target.db")
	backup := filepath.Join(dir, "backup.json")

	_, err := run(t, sourceDB, "ensure-defaults", "--email", "me@example.com")
	require.NoError(t, err)

	store, err := sqlstore.New(sourceDB)
	require.NoError(t, err)
	user, err := store.GetUserByEmail(context.Background(), "me@example.com")
	require.NoError(t, err)
	_, err = store.UpsertSetting(context.Background(), user.ID, domain.ThemeDark)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	exported, err := run(t, sourceDB, "export", "--email", "me@example.com")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(backup, []byte(exported), 0o600))

	out, err := run(t, targetDB, "import", "--email", "me@example.com", "--file", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "(0 skipped)")

	restored, err := run(t, targetDB, "export", "--email", "me@example.com")
	require.NoError(t, err)

	var before, after domain.Tree
	require.NoError(t, json.Unmarshal([]byte(exported), &before))
	require.NoError(t, json.Unmarshal([]byte(restored), &after))
	require.Len(t, after.CategoriesWithoutSection, len(domain.DefaultCategoryNames))
	assert.Equal(t, domain.ThemeDark, after.Theme)
	assert.Equal(t, names(before), names(after))
}
