package store

import (
	"github.com/vrsandeep/novelshelf/internal/models"
)

// RecordDownload saves the outcome of a downloader run.
func (s *Store) RecordDownload(r *models.DownloadResult) error {
	res, err := s.db.Exec(`
        INSERT INTO downloads (novel_id, title, output_path, success, message, finished_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.NovelID, r.Title, r.OutputPath, r.Success, r.Message, r.FinishedAt,
	)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// ListDownloads returns the most recent downloads first. limit <= 0 means all.
func (s *Store) ListDownloads(limit int) ([]*models.DownloadResult, error) {
	query := `
		SELECT id, novel_id, title, output_path, success, message, finished_at
		FROM downloads
		ORDER BY finished_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*models.DownloadResult{}
	for rows.Next() {
		var r models.DownloadResult
		if err := rows.Scan(&r.ID, &r.NovelID, &r.Title, &r.OutputPath, &r.Success, &r.Message, &r.FinishedAt); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// LastDownload returns the latest result for a novel, or nil if it was
// never downloaded.
func (s *Store) LastDownload(novelID string) (*models.DownloadResult, error) {
	rows, err := s.db.Query(`
		SELECT id, novel_id, title, output_path, success, message, finished_at
		FROM downloads WHERE novel_id = ?
		ORDER BY finished_at DESC, id DESC LIMIT 1`, novelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var r models.DownloadResult
	if err := rows.Scan(&r.ID, &r.NovelID, &r.Title, &r.OutputPath, &r.Success, &r.Message, &r.FinishedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
