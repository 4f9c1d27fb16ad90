package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/search"
)

// timeFormat is fixed-width so created_at sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStorage opens (or creates) the database at path and seeds the
// default folder.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{db: db, path: path, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// initSchema creates the tables and the default folder.
func (s *SQLiteStorage) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL UNIQUE,
			is_default INTEGER NOT NULL DEFAULT 0
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_default ON folders(is_default) WHERE is_default = 1;

		CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT PRIMARY KEY NOT NULL,
			url TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_created_at ON bookmarks(created_at);

		CREATE TABLE IF NOT EXISTS bookmark_folders (
			bookmark_id TEXT NOT NULL,
			folder_id TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (bookmark_id, folder_id),
			FOREIGN KEY (bookmark_id) REFERENCES bookmarks(id) ON DELETE CASCADE,
			FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_bookmark_folders_folder_id ON bookmark_folders(folder_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO folders (id, name, is_default)
		SELECT ?, ?, 1
		WHERE NOT EXISTS (SELECT 1 FROM folders WHERE is_default = 1)
	`, model.GenerateUUID(), DefaultFolderName)
	return err
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ListFolders returns all folders in creation order.
func (s *SQLiteStorage) ListFolders(ctx context.Context) ([]model.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, is_default
		FROM folders
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		var f model.Folder
		var isDefault int
		if err := rows.Scan(&f.ID, &f.Name, &isDefault); err != nil {
			return nil, err
		}
		f.IsDefault = isDefault == 1
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// CreateFolder creates a non-default folder.
func (s *SQLiteStorage) CreateFolder(ctx context.Context, name string) (model.Folder, error) {
	name, err := model.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, err
	}

	folder := model.NewFolder(model.NewFolderParams{Name: name})
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkFolderNameFree(ctx, tx, name, ""); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO folders (id, name, is_default) VALUES (?, ?, 0)`,
			folder.ID, folder.Name)
		return err
	})
	if err != nil {
		return model.Folder{}, err
	}
	return folder, nil
}

// RenameFolder renames a non-default folder.
func (s *SQLiteStorage) RenameFolder(ctx context.Context, id, name string) (model.Folder, error) {
	name, err := model.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, err
	}

	var folder model.Folder
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		f, err := getFolder(ctx, tx, id)
		if err != nil {
			return err
		}
		if f.IsDefault {
			return model.ErrDefaultFolder
		}
		if err := checkFolderNameFree(ctx, tx, name, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, name, id); err != nil {
			return err
		}
		f.Name = name
		folder = f
		return nil
	})
	return folder, err
}

// DeleteFolder deletes a non-default folder. DeleteKeep strips the folder from
// every bookmark; DeleteBookmarks also removes bookmarks left with no folder.
func (s *SQLiteStorage) DeleteFolder(ctx context.Context, id string, mode model.DeleteMode) error {
	if err := model.ValidateDeleteMode(mode); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		f, err := getFolder(ctx, tx, id)
		if err != nil {
			return err
		}
		if f.IsDefault {
			return model.ErrDefaultFolder
		}

		if mode == model.DeleteBookmarks {
			// Only bookmarks whose sole membership is this folder
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM bookmarks
				WHERE id IN (SELECT bookmark_id FROM bookmark_folders WHERE folder_id = ?)
				  AND id NOT IN (SELECT bookmark_id FROM bookmark_folders WHERE folder_id <> ?)
			`, id, id); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_folders WHERE folder_id = ?`, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
		return err
	})
}

// ListBookmarks returns bookmarks newest first. FolderID restricts to members
// of that folder; Q keeps bookmarks whose URL fuzzy-matches.
func (s *SQLiteStorage) ListBookmarks(ctx context.Context, query model.BookmarkQuery) ([]model.Bookmark, error) {
	sqlQuery := `SELECT b.id, b.url, b.created_at FROM bookmarks b`
	var args []any
	if query.FolderID != nil {
		sqlQuery += ` WHERE EXISTS (
			SELECT 1 FROM bookmark_folders bf
			WHERE bf.bookmark_id = b.id AND bf.folder_id = ?
		)`
		args = append(args, *query.FolderID)
	}
	sqlQuery += ` ORDER BY b.created_at DESC, b.rowid DESC`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var b model.Bookmark
		var createdAtStr string
		if err := rows.Scan(&b.ID, &b.URL, &createdAtStr); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(timeFormat, createdAtStr)
		b.FolderIDs = []string{}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := s.attachFolderIDs(ctx, bookmarks); err != nil {
		return nil, err
	}

	if q := strings.TrimSpace(query.Q); q != "" {
		bookmarks = search.FilterBookmarks(bookmarks, q)
	}
	return bookmarks, nil
}

// attachFolderIDs fills FolderIDs for the given bookmarks in place.
func (s *SQLiteStorage) attachFolderIDs(ctx context.Context, bookmarks []model.Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}

	index := make(map[string]int, len(bookmarks))
	for i, b := range bookmarks {
		index[b.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bookmark_id, folder_id
		FROM bookmark_folders
		ORDER BY bookmark_id, position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookmarkID, folderID string
		if err := rows.Scan(&bookmarkID, &folderID); err != nil {
			return err
		}
		if i, ok := index[bookmarkID]; ok {
			bookmarks[i].FolderIDs = append(bookmarks[i].FolderIDs, folderID)
		}
	}
	return rows.Err()
}

// CreateBookmark creates a bookmark. Empty folderIDs assigns the default folder.
func (s *SQLiteStorage) CreateBookmark(ctx context.Context, url string, folderIDs []string) (model.Bookmark, error) {
	url, err := model.ValidateHTTPURL(url)
	if err != nil {
		return model.Bookmark{}, err
	}

	bookmark := model.NewBookmark(model.NewBookmarkParams{URL: url, FolderIDs: folderIDs})
	bookmark.CreatedAt = s.now().UTC()

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM bookmarks WHERE url = ?`, bookmark.URL).Scan(&exists)
		if err == nil {
			return fmt.Errorf("bookmark %q: %w", bookmark.URL, model.ErrConflict)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if len(bookmark.FolderIDs) == 0 {
			var defaultID string
			if err := tx.QueryRowContext(ctx, `SELECT id FROM folders WHERE is_default = 1`).Scan(&defaultID); err != nil {
				return fmt.Errorf("default folder: %w", err)
			}
			bookmark.FolderIDs = []string{defaultID}
		}
		if err := checkFoldersExist(ctx, tx, bookmark.FolderIDs); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bookmarks (id, url, created_at) VALUES (?, ?, ?)`,
			bookmark.ID, bookmark.URL, bookmark.CreatedAt.Format(timeFormat)); err != nil {
			return err
		}
		return insertMemberships(ctx, tx, bookmark.ID, bookmark.FolderIDs)
	})
	if err != nil {
		return model.Bookmark{}, err
	}
	return bookmark, nil
}

// SetBookmarkFolders replaces the bookmark's membership set. An empty set is
// allowed and leaves the bookmark without a folder.
func (s *SQLiteStorage) SetBookmarkFolders(ctx context.Context, id string, folderIDs []string) (model.Bookmark, error) {
	folderIDs = model.NormalizeIDs(folderIDs)

	var bookmark model.Bookmark
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var createdAtStr string
		err := tx.QueryRowContext(ctx,
			`SELECT id, url, created_at FROM bookmarks WHERE id = ?`, id,
		).Scan(&bookmark.ID, &bookmark.URL, &createdAtStr)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("bookmark %s: %w", id, model.ErrNotFound)
		}
		if err != nil {
			return err
		}
		bookmark.CreatedAt, _ = time.Parse(timeFormat, createdAtStr)

		if err := checkFoldersExist(ctx, tx, folderIDs); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_folders WHERE bookmark_id = ?`, id); err != nil {
			return err
		}
		bookmark.FolderIDs = folderIDs
		return insertMemberships(ctx, tx, id, folderIDs)
	})
	if err != nil {
		return model.Bookmark{}, err
	}
	return bookmark, nil
}

// DeleteBookmark deletes a bookmark and its memberships.
func (s *SQLiteStorage) DeleteBookmark(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_folders WHERE bookmark_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("bookmark %s: %w", id, model.ErrNotFound)
		}
		return nil
	})
}

func getFolder(ctx context.Context, tx *sql.Tx, id string) (model.Folder, error) {
	var f model.Folder
	var isDefault int
	err := tx.QueryRowContext(ctx,
		`SELECT id, name, is_default FROM folders WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &isDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return f, fmt.Errorf("folder %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return f, err
	}
	f.IsDefault = isDefault == 1
	return f, nil
}

// checkFolderNameFree fails with ErrConflict when another folder has name.
func checkFolderNameFree(ctx context.Context, tx *sql.Tx, name, exceptID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM folders WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && id == exceptID) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("folder %q: %w", name, model.ErrConflict)
}

func checkFoldersExist(ctx context.Context, tx *sql.Tx, ids []string) error {
	for _, id := range ids {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM folders WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return &model.ValidationError{Field: "folder_ids", Err: fmt.Errorf("unknown folder %s", id)}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func insertMemberships(ctx context.Context, tx *sql.Tx, bookmarkID string, folderIDs []string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bookmark_folders (bookmark_id, folder_id, position)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, folderID := range folderIDs {
		if _, err := stmt.ExecContext(ctx, bookmarkID, folderID, i); err != nil {
			return err
		}
	}
	return nil
}
