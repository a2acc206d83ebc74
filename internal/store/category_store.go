package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/vrsandeep/novelshelf/internal/models"
	"github.com/vrsandeep/novelshelf/internal/util"
)

// CreateCategory adds a category. Names are unique, ignoring case.
func (s *Store) CreateCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	cat := &models.Category{Name: name, CreatedAt: time.Now()}
	err := s.db.QueryRow(
		"INSERT INTO categories (name, created_at) VALUES (?, ?) RETURNING id",
		cat.Name, cat.CreatedAt,
	).Scan(&cat.ID)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: %s", ErrCategoryExists, name)
		}
		return nil, err
	}
	return cat, nil
}

// GetCategory returns a category together with its novel ids.
func (s *Store) GetCategory(id int64) (*models.Category, error) {
	var cat models.Category
	err := s.db.QueryRow("SELECT id, name, created_at FROM categories WHERE id = ?", id).
		Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	cat.NovelIDs, err = s.CategoryNovelIDs(id)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListCategories returns every category ordered by name, with novel ids.
func (s *Store) ListCategories() ([]*models.Category, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*models.Category{}
	byID := make(map[int64]*models.Category)
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, err
		}
		cat.NovelIDs = []string{}
		categories = append(categories, &cat)
		byID[cat.ID] = &cat
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// SQLite orders "Top 10" before "Top 2".
	sort.SliceStable(categories, func(i, j int) bool {
		return util.NaturalLess(categories[i].Name, categories[j].Name)
	})

	members, err := s.db.Query("SELECT category_id, novel_id FROM category_novels ORDER BY added_at, novel_id")
	if err != nil {
		return nil, err
	}
	defer members.Close()
	for members.Next() {
		var categoryID int64
		var novelID string
		if err := members.Scan(&categoryID, &novelID); err != nil {
			return nil, err
		}
		if cat, ok := byID[categoryID]; ok {
			cat.NovelIDs = append(cat.NovelIDs, novelID)
		}
	}
	return categories, members.Err()
}

// RenameCategory changes a category's name.
func (s *Store) RenameCategory(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	res, err := s.db.Exec("UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", ErrCategoryExists, name)
		}
		return err
	}
	return expectOneRow(res)
}

// DeleteCategory removes a category and its memberships.
func (s *Store) DeleteCategory(id int64) error {
	res, err := s.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// AddNovelsToCategory adds novel ids to a category in a single transaction.
// Ids that are already members are ignored.
func (s *Store) AddNovelsToCategory(categoryID int64, novelIDs ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT 1 FROM categories WHERE id = ?", categoryID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return ErrCategoryNotFound
		}
		return err
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO category_novels (category_id, novel_id, added_at) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, id := range novelIDs {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		if _, err := stmt.Exec(categoryID, id, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RemoveNovelFromCategory drops one membership. Removing a novel that is
// not in the category is not an error.
func (s *Store) RemoveNovelFromCategory(categoryID int64, novelID string) error {
	_, err := s.db.Exec("DELETE FROM category_novels WHERE category_id = ? AND novel_id = ?", categoryID, novelID)
	return err
}

// CategoryNovelIDs lists the novel ids in a category in the order they were added.
func (s *Store) CategoryNovelIDs(categoryID int64) ([]string, error) {
	rows, err := s.db.Query("SELECT novel_id FROM category_novels WHERE category_id = ? ORDER BY added_at, novel_id", categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CategoriesForNovel returns the names of the categories a novel belongs to.
func (s *Store) CategoriesForNovel(novelID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT c.name
		FROM categories c
		JOIN category_novels cn ON cn.category_id = c.id
		WHERE cn.novel_id = ?
		ORDER BY c.name COLLATE NOCASE`, novelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
