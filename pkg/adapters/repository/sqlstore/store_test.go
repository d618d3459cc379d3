package sqlstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

var dbSeq atomic.Int64

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := fmt.Sprintf("file:sqlstore_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	s, err := New(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newUser(t *testing.T, s *Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Name: email}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func newCategory(t *testing.T, s *Store, userID int64, name string, sectionID *int64) *domain.Category {
	t.Helper()
	c := &domain.Category{UserID: userID, Name: name, SectionID: sectionID}
	require.NoError(t, s.CreateCategory(context.Background(), c))
	return c
}

func newBookmark(t *testing.T, s *Store, userID, categoryID int64, url string) *domain.Bookmark {
	t.Helper()
	b, err := s.CreateBookmark(context.Background(), userID, domain.NewBookmark{CategoryID: categoryID, URL: url})
	require.NoError(t, err)
	return b
}

func TestRebindPostgres(t *testing.T) {
	s := &Store{dialect: dialectPostgres}
	assert.Equal(t, "SELECT 1 FROM t WHERE a = $1 AND b IN ($2, $3)", s.q("SELECT 1 FROM t WHERE a = ? AND b IN (?, ?)"))

	sqlite := &Store{dialect: dialectSQLite}
	assert.Equal(t, "a = ?", sqlite.q("a = ?"))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser(t, s, "  Ada@Example.com ")
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)

	byEmail, err := s.GetUserByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.False(t, byEmail.DefaultsSeeded)

	_, err = s.GetUserByID(ctx, u.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeedDefaultCategoriesRunsOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "seed@example.com")

	seeded, err := s.SeedDefaultCategories(ctx, u.ID, domain.DefaultCategoryNames)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = s.SeedDefaultCategories(ctx, u.ID, domain.DefaultCategoryNames)
	require.NoError(t, err)
	assert.False(t, seeded)

	tree, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tree.CategoriesWithoutSection, len(domain.DefaultCategoryNames))
	for i, c := range tree.CategoriesWithoutSection {
		assert.Equal(t, domain.DefaultCategoryNames[i], c.Name)
		assert.Equal(t, i, c.Order)
	}

	user, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, user.DefaultsSeeded)
}

func TestSeedDefaultCategoriesSkipsUserWithData(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "busy@example.com")
	newCategory(t, s, u.ID, "Mine", nil)

	seeded, err := s.SeedDefaultCategories(ctx, u.ID, domain.DefaultCategoryNames)
	require.NoError(t, err)
	assert.False(t, seeded)

	tree, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tree.CategoriesWithoutSection, 1)
}

func TestCreateAppendsWithinScope(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "order@example.com")

	first := &domain.Section{UserID: u.ID, Name: "Work"}
	require.NoError(t, s.CreateSection(ctx, first))
	second := &domain.Section{UserID: u.ID, Name: "Home"}
	require.NoError(t, s.CreateSection(ctx, second))
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)

	loose := newCategory(t, s, u.ID, "Loose", nil)
	inWork := newCategory(t, s, u.ID, "Tools", &first.ID)
	inWork2 := newCategory(t, s, u.ID, "Docs", &first.ID)
	assert.Equal(t, 0, loose.Order)
	assert.Equal(t, 0, inWork.Order)
	assert.Equal(t, 1, inWork2.Order)

	b0 := newBookmark(t, s, u.ID, loose.ID, "https://a.example.com")
	b1 := newBookmark(t, s, u.ID, loose.ID, "https://b.example.com")
	assert.Equal(t, 0, b0.Order)
	assert.Equal(t, 1, b1.Order)
	assert.Equal(t, u.ID, b1.UserID)
	assert.False(t, b1.Pinned)
}

func TestCreateCategoryInForeignSection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	owner := newUser(t, s, "owner@example.com")
	other := newUser(t, s, "other@example.com")

	sec := &domain.Section{UserID: owner.ID, Name: "Private"}
	require.NoError(t, s.CreateSection(ctx, sec))

	err := s.CreateCategory(ctx, &domain.Category{UserID: other.ID, Name: "Sneaky", SectionID: &sec.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadTreeOrdersByOrderThenID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "tree@example.com")

	sec := &domain.Section{UserID: u.ID, Name: "S"}
	require.NoError(t, s.CreateSection(ctx, sec))
	a := newCategory(t, s, u.ID, "A", &sec.ID)
	b := newCategory(t, s, u.ID, "B", &sec.ID)
	c := newCategory(t, s, u.ID, "C", nil)

	// Tie on order: id breaks it.
	require.NoError(t, s.ReorderCategories(ctx, u.ID, []domain.OrderItem{{ID: a.ID, Order: 5}, {ID: b.ID, Order: 5}}))

	b1 := newBookmark(t, s, u.ID, c.ID, "https://one.example.com")
	b2 := newBookmark(t, s, u.ID, c.ID, "https://two.example.com")
	require.NoError(t, s.ReorderBookmarks(ctx, u.ID, []domain.OrderItem{{ID: b1.ID, Order: 1}, {ID: b2.ID, Order: 0}}))

	tree, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tree.Sections, 1)
	require.Len(t, tree.Sections[0].Categories, 2)
	assert.Equal(t, a.ID, tree.Sections[0].Categories[0].ID)
	assert.Equal(t, b.ID, tree.Sections[0].Categories[1].ID)
	assert.Empty(t, tree.Sections[0].Categories[0].Bookmarks)

	require.Len(t, tree.CategoriesWithoutSection, 1)
	got := tree.CategoriesWithoutSection[0].Bookmarks
	require.Len(t, got, 2)
	assert.Equal(t, b2.ID, got[0].ID)
	assert.Equal(t, b1.ID, got[1].ID)
}

func TestDeleteCategoryRefusedWhenNotEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "del@example.com")
	c := newCategory(t, s, u.ID, "Full", nil)
	b := newBookmark(t, s, u.ID, c.ID, "https://example.com")

	err := s.DeleteCategory(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotEmpty)

	_, err = s.GetCategory(ctx, u.ID, c.ID)
	require.NoError(t, err)
	_, err = s.GetBookmark(ctx, u.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteBookmark(ctx, u.ID, b.ID))
	require.NoError(t, s.DeleteCategory(ctx, u.ID, c.ID))
	_, err = s.GetCategory(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSectionDetachesCategories(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "sec@example.com")

	sec := &domain.Section{UserID: u.ID, Name: "Doomed"}
	require.NoError(t, s.CreateSection(ctx, sec))
	c1 := newCategory(t, s, u.ID, "One", &sec.ID)
	c2 := newCategory(t, s, u.ID, "Two", &sec.ID)
	newBookmark(t, s, u.ID, c1.ID, "https://example.com")

	require.NoError(t, s.DeleteSection(ctx, u.ID, sec.ID))

	_, err := s.GetSection(ctx, u.ID, sec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tree, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Sections)
	require.Len(t, tree.CategoriesWithoutSection, 2)
	for _, c := range tree.CategoriesWithoutSection {
		assert.Nil(t, c.SectionID)
	}
	assert.Equal(t, c1.ID, tree.CategoriesWithoutSection[0].ID)
	assert.Equal(t, c2.ID, tree.CategoriesWithoutSection[1].ID)
	assert.Len(t, tree.CategoriesWithoutSection[0].Bookmarks, 1)
}

func TestReorderIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newUser(t, s, "alice@example.com")
	bob := newUser(t, s, "bob@example.com")

	a1 := newCategory(t, s, alice.ID, "A1", nil)
	a2 := newCategory(t, s, alice.ID, "A2", nil)
	b1 := newCategory(t, s, bob.ID, "B1", nil)

	err := s.ReorderCategories(ctx, alice.ID, []domain.OrderItem{
		{ID: a1.ID, Order: 9},
		{ID: a2.ID, Order: 8},
		{ID: b1.ID, Order: 7},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, c := range []*domain.Category{a1, a2} {
		got, err := s.GetCategory(ctx, alice.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Order, got.Order)
	}
	got, err := s.GetCategory(ctx, bob.ID, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)
}

func TestReorderIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "idem@example.com")
	first := &domain.Section{UserID: u.ID, Name: "1"}
	second := &domain.Section{UserID: u.ID, Name: "2"}
	untouched := &domain.Section{UserID: u.ID, Name: "3"}
	for _, sec := range []*domain.Section{first, second, untouched} {
		require.NoError(t, s.CreateSection(ctx, sec))
	}

	batch := []domain.OrderItem{{ID: second.ID, Order: 0}, {ID: first.ID, Order: 1}}
	require.NoError(t, s.ReorderSections(ctx, u.ID, batch))
	once, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, s.ReorderSections(ctx, u.ID, batch))
	twice, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)

	require.Len(t, twice.Sections, 3)
	for i := range once.Sections {
		assert.Equal(t, once.Sections[i].ID, twice.Sections[i].ID)
		assert.Equal(t, once.Sections[i].Order, twice.Sections[i].Order)
	}
	assert.Equal(t, second.ID, twice.Sections[0].ID)
	assert.Equal(t, 2, twice.Sections[2].Order)
}

func TestMoveBookmarkAppendsToDestination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "move@example.com")

	src := newCategory(t, s, u.ID, "Source", nil)
	dst := newCategory(t, s, u.ID, "Dest", nil)
	empty := newCategory(t, s, u.ID, "Empty", nil)

	moving := newBookmark(t, s, u.ID, src.ID, "https://moving.example.com")
	stay := newBookmark(t, s, u.ID, src.ID, "https://stay.example.com")
	for i := 0; i < 3; i++ {
		newBookmark(t, s, u.ID, dst.ID, fmt.Sprintf("https://d%d.example.com", i))
	}

	moved, err := s.UpdateBookmark(ctx, u.ID, moving.ID, domain.BookmarkPatch{CategoryID: &dst.ID})
	require.NoError(t, err)
	assert.Equal(t, dst.ID, moved.CategoryID)
	assert.Equal(t, 3, moved.Order)

	// The source keeps its hole.
	left, err := s.GetBookmark(ctx, u.ID, stay.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, left.Order)

	moved, err = s.UpdateBookmark(ctx, u.ID, moving.ID, domain.BookmarkPatch{CategoryID: &empty.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Order)
}

func TestUpdateBookmarkPinKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "pin@example.com")
	c := newCategory(t, s, u.ID, "C", nil)
	newBookmark(t, s, u.ID, c.ID, "https://first.example.com")
	b := newBookmark(t, s, u.ID, c.ID, "https://second.example.com")

	pinned := true
	desc := "Second"
	got, err := s.UpdateBookmark(ctx, u.ID, b.ID, domain.BookmarkPatch{
		Pinned:      &pinned,
		Description: domain.Some(desc),
		CategoryID:  &c.ID,
	})
	require.NoError(t, err)
	assert.True(t, got.Pinned)
	assert.Equal(t, 1, got.Order)
	assert.Equal(t, c.ID, got.CategoryID)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Second", *got.Description)

	got, err = s.UpdateBookmark(ctx, u.ID, b.ID, domain.BookmarkPatch{Description: domain.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.True(t, got.Pinned)
}

func TestBookmarkOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newUser(t, s, "a@example.com")
	bob := newUser(t, s, "b@example.com")
	ac := newCategory(t, s, alice.ID, "Alice", nil)
	bc := newCategory(t, s, bob.ID, "Bob", nil)
	ab := newBookmark(t, s, alice.ID, ac.ID, "https://alice.example.com")

	_, err := s.CreateBookmark(ctx, bob.ID, domain.NewBookmark{CategoryID: ac.ID, URL: "https://x.example.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.UpdateBookmark(ctx, alice.ID, ab.ID, domain.BookmarkPatch{CategoryID: &bc.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.DeleteBookmark(ctx, bob.ID, ab.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.ReorderBookmarks(ctx, bob.ID, []domain.OrderItem{{ID: ab.ID, Order: 3}}), domain.ErrNotFound)

	got, err := s.GetBookmark(ctx, alice.ID, ab.ID)
	require.NoError(t, err)
	assert.Equal(t, ac.ID, got.CategoryID)
	assert.Equal(t, 0, got.Order)
}

func TestMoveCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "mc@example.com")
	sec := &domain.Section{UserID: u.ID, Name: "S"}
	require.NoError(t, s.CreateSection(ctx, sec))

	newCategory(t, s, u.ID, "In0", &sec.ID)
	newCategory(t, s, u.ID, "In1", &sec.ID)
	loose0 := newCategory(t, s, u.ID, "Loose0", nil)
	loose1 := newCategory(t, s, u.ID, "Loose1", nil)

	moved, err := s.MoveCategory(ctx, u.ID, loose0.ID, &sec.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.SectionID)
	assert.Equal(t, sec.ID, *moved.SectionID)
	assert.Equal(t, 2, moved.Order)

	back, err := s.MoveCategory(ctx, u.ID, loose0.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, back.SectionID)
	assert.Equal(t, loose1.Order+1, back.Order)

	missing := sec.ID + 99
	_, err = s.MoveCategory(ctx, u.ID, loose0.ID, &missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertSettingKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "theme@example.com")

	_, err := s.GetSetting(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.UpsertSetting(ctx, u.ID, domain.ThemeDark)
	require.NoError(t, err)
	_, err = s.UpsertSetting(ctx, u.ID, domain.ThemeLight)
	require.NoError(t, err)

	var rows int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_settings WHERE user_id = ?`, u.ID).Scan(&rows))
	assert.Equal(t, 1, rows)

	got, err := s.GetSetting(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, got.Theme)
}

func restoreInput(theme domain.Theme) *domain.Tree {
	desc := "docs"
	return &domain.Tree{
		Sections: []domain.Section{{
			Name: "Work",
			Categories: []domain.Category{{
				Name: "Go",
				Bookmarks: []domain.Bookmark{
					{URL: "https://go.dev", Description: &desc, Pinned: true},
					{URL: "https://pkg.go.dev"},
				},
			}},
		}},
		CategoriesWithoutSection: []domain.Category{{Name: "Misc"}},
		Theme:                    theme,
	}
}

func TestRestoreTree(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "restore@example.com")
	existing := newCategory(t, s, u.ID, "Existing", nil)

	require.NoError(t, s.RestoreTree(ctx, u.ID, restoreInput(domain.ThemeDark)))

	tree, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tree.Sections, 1)
	assert.Equal(t, "Work", tree.Sections[0].Name)
	require.Len(t, tree.Sections[0].Categories, 1)

	bookmarks := tree.Sections[0].Categories[0].Bookmarks
	require.Len(t, bookmarks, 2)
	assert.Equal(t, "https://go.dev", bookmarks[0].URL)
	assert.True(t, bookmarks[0].Pinned)
	assert.Equal(t, "docs", *bookmarks[0].Description)
	assert.Equal(t, u.ID, bookmarks[0].UserID)
	assert.Equal(t, []int{0, 1}, []int{bookmarks[0].Order, bookmarks[1].Order})
	assert.False(t, bookmarks[1].Pinned)

	// Section-less categories go after the ones already there.
	require.Len(t, tree.CategoriesWithoutSection, 2)
	assert.Equal(t, existing.ID, tree.CategoriesWithoutSection[0].ID)
	assert.Equal(t, "Misc", tree.CategoriesWithoutSection[1].Name)
	assert.Equal(t, 1, tree.CategoriesWithoutSection[1].Order)

	setting, err := s.GetSetting(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, setting.Theme)

	// The restored categories stand in for the defaults.
	user, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, user.DefaultsSeeded)
	seeded, err := s.SeedDefaultCategories(ctx, u.ID, domain.DefaultCategoryNames)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestRestoreTreeIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "atomic@example.com")

	// The theme is written last and violates the column check.
	err := s.RestoreTree(ctx, u.ID, restoreInput(domain.Theme("green")))
	require.Error(t, err)

	tree, err := s.LoadTree(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Sections)
	assert.Empty(t, tree.CategoriesWithoutSection)

	user, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, user.DefaultsSeeded)
}

func TestRestoreEmptyTreeLeavesSeedingAlone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "empty@example.com")

	require.NoError(t, s.RestoreTree(ctx, u.ID, &domain.Tree{}))

	seeded, err := s.SeedDefaultCategories(ctx, u.ID, domain.DefaultCategoryNames)
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestRenameAndMoveReturnChildren(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := newUser(t, s, "children@example.com")

	section := &domain.Section{UserID: u.ID, Name: "Work"}
	require.NoError(t, s.CreateSection(ctx, section))
	c := newCategory(t, s, u.ID, "Go", &section.ID)
	first := newBookmark(t, s, u.ID, c.ID, "https://go.dev")
	second := newBookmark(t, s, u.ID, c.ID, "https://pkg.go.dev")
	empty := newCategory(t, s, u.ID, "Empty", &section.ID)

	renamed, err := s.RenameCategory(ctx, u.ID, c.ID, "Golang")
	require.NoError(t, err)
	require.Len(t, renamed.Bookmarks, 2)
	assert.Equal(t, first.ID, renamed.Bookmarks[0].ID)
	assert.Equal(t, second.ID, renamed.Bookmarks[1].ID)

	sec, err := s.RenameSection(ctx, u.ID, section.ID, "Office")
	require.NoError(t, err)
	require.Len(t, sec.Categories, 2)
	assert.Equal(t, "Golang", sec.Categories[0].Name)
	assert.Len(t, sec.Categories[0].Bookmarks, 2)
	assert.NotNil(t, sec.Categories[1].Bookmarks)
	assert.Empty(t, sec.Categories[1].Bookmarks)

	moved, err := s.MoveCategory(ctx, u.ID, c.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.SectionID)
	assert.Len(t, moved.Bookmarks, 2)

	movedEmpty, err := s.MoveCategory(ctx, u.ID, empty.ID, nil)
	require.NoError(t, err)
	assert.NotNil(t, movedEmpty.Bookmarks)
	assert.Empty(t, movedEmpty.Bookmarks)
}
