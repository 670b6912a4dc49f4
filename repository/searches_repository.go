package repository

import (
	"database/sql"
	"encoding/json"

	"homefolio-api/models"
)

type SearchesRepository struct {
	db *sql.DB
}

func NewSearchesRepository(db *sql.DB) *SearchesRepository {
	return &SearchesRepository{db: db}
}

func (r *SearchesRepository) Create(userID int, name, query string, params json.RawMessage, notificationsEnabled bool) (*models.SavedSearch, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO saved_search (user_id, name, query, params, notifications_enabled, is_deleted, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		RETURNING id`,
		userID, name, query, params, notificationsEnabled).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *SearchesRepository) Update(id int, name, query *string, params *json.RawMessage, notificationsEnabled *bool) error {
	_, err := r.db.Exec(`
		UPDATE saved_search SET
			name = COALESCE($2, name),
			query = COALESCE($3, query),
			params = COALESCE($4, params),
			notifications_enabled = COALESCE($5, notifications_enabled),
			modified_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id, name, query, params, notificationsEnabled)
	return err
}

func (r *SearchesRepository) SetDeleted(id int, isDeleted bool) error {
	_, err := r.db.Exec(`
		UPDATE saved_search SET is_deleted = $2, modified_at = NOW() WHERE id = $1`,
		id, isDeleted)
	return err
}

func (r *SearchesRepository) GetByID(id int) (*models.SavedSearch, error) {
	var s models.SavedSearch
	err := r.db.QueryRow(`
		SELECT id, user_id, name, query, params, notifications_enabled, is_deleted, created_at, modified_at
		FROM saved_search WHERE id = $1`, id).Scan(
		&s.ID, &s.UserID, &s.Name, &s.Query, &s.Params, &s.NotificationsEnabled,
		&s.IsDeleted, &s.CreatedAt, &s.ModifiedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SearchesRepository) ListByUser(userID int) ([]models.SavedSearch, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, name, query, params, notifications_enabled, is_deleted, created_at, modified_at
		FROM saved_search
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []models.SavedSearch
	for rows.Next() {
		var s models.SavedSearch
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Name, &s.Query, &s.Params, &s.NotificationsEnabled,
			&s.IsDeleted, &s.CreatedAt, &s.ModifiedAt); err != nil {
			return nil, err
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}
