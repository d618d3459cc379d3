package ports

import (
	"context"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

// OrganizerRepository defines storage operations. Every method that takes a
// userID scopes its lookups by it; rows owned by another user behave as
// missing (domain.ErrNotFound).
type OrganizerRepository interface {
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	SeedDefaultCategories(ctx context.Context, userID int64, names []string) (bool, error)

	// Tree
	LoadTree(ctx context.Context, userID int64) (*domain.Tree, error)

	// Sections
	CreateSection(ctx context.Context, section *domain.Section) error
	GetSection(ctx context.Context, userID, id int64) (*domain.Section, error)
	RenameSection(ctx context.Context, userID, id int64, name string) (*domain.Section, error)
	DeleteSection(ctx context.Context, userID, id int64) error // Detaches categories first
	ReorderSections(ctx context.Context, userID int64, items []domain.OrderItem) error

	// Categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error)
	RenameCategory(ctx context.Context, userID, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error // Refused when not empty
	ReorderCategories(ctx context.Context, userID int64, items []domain.OrderItem) error
	MoveCategory(ctx context.Context, userID, id int64, sectionID *int64) (*domain.Category, error)

	// Bookmarks
	CreateBookmark(ctx context.Context, userID int64, input domain.NewBookmark) (*domain.Bookmark, error)
	GetBookmark(ctx context.Context, userID, id int64) (*domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, userID, id int64, patch domain.BookmarkPatch) (*domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, id int64) error
	ReorderBookmarks(ctx context.Context, userID int64, items []domain.OrderItem) error

	// Settings
	GetSetting(ctx context.Context, userID int64) (*domain.UserSetting, error)
	UpsertSetting(ctx context.Context, userID int64, theme domain.Theme) (*domain.UserSetting, error)

	// RestoreTree inserts an already validated tree in one transaction.
	RestoreTree(ctx context.Context, userID int64, tree *domain.Tree) error
}

// TreeCache keeps a rendered tree per user. Implementations may drop
// entries at any time; the repository stays the source of truth.
//
// Version returns a token that changes on every Invalidate. Readers take it
// before loading from the repository and hand it to Set, which stores the
// tree only while the token is unchanged, so a tree loaded before a
// concurrent mutation never outlives that mutation's invalidation.
type TreeCache interface {
	Get(ctx context.Context, userID int64) (*domain.Tree, bool, error)
	Version(ctx context.Context, userID int64) (int64, error)
	Set(ctx context.Context, userID, version int64, tree *domain.Tree) error
	Invalidate(ctx context.Context, userID int64) error
}

// AccountService provisions users on first login.
type AccountService interface {
	ProvisionUser(ctx context.Context, email, name string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	EnsureDefaults(ctx context.Context, userID int64) error
}

// TreeService serves the read side.
type TreeService interface {
	GetTree(ctx context.Context, userID int64) (*domain.Tree, error)
	PinnedBookmarks(ctx context.Context, userID int64) ([]domain.Bookmark, error)
}

type SectionService interface {
	CreateSection(ctx context.Context, userID int64, name string) (*domain.Section, error)
	RenameSection(ctx context.Context, userID, id int64, name string) (*domain.Section, error)
	DeleteSection(ctx context.Context, userID, id int64) error
	ReorderSections(ctx context.Context, userID int64, items []domain.OrderItem) error
}

type CategoryService interface {
	CreateCategory(ctx context.Context, userID int64, name string, sectionID *int64) (*domain.Category, error)
	RenameCategory(ctx context.Context, userID, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error
	ReorderCategories(ctx context.Context, userID int64, items []domain.OrderItem) error
	MoveCategoryToSection(ctx context.Context, userID, id int64, sectionID *int64) (*domain.Category, error)
}

type BookmarkService interface {
	CreateBookmark(ctx context.Context, userID int64, categoryID int64, url string, description, faviconURL *string) (*domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, userID, id int64, patch domain.BookmarkPatch) (*domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, id int64) error
	ReorderBookmarks(ctx context.Context, userID int64, items []domain.OrderItem) error
}

type SettingsService interface {
	GetSettings(ctx context.Context, userID int64) (*domain.UserSetting, error)
	UpdateTheme(ctx context.Context, userID int64, theme string) (*domain.UserSetting, error)
}

// OrganizerService is everything the HTTP layer and the tools need.
type OrganizerService interface {
	AccountService
	TreeService
	SectionService
	CategoryService
	BookmarkService
	SettingsService
}
