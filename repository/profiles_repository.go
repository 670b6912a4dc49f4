package repository

import (
	"database/sql"

	"homefolio-api/models"
)

type ProfilesRepository struct {
	db *sql.DB
}

func NewProfilesRepository(db *sql.DB) *ProfilesRepository {
	return &ProfilesRepository{db: db}
}

func (r *ProfilesRepository) Save(userID int, profileID, displayName, headline, avatarURL string) (*models.SavedProfile, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO saved_profile (user_id, profile_id, display_name, headline, avatar_url, saved_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, NOW(), FALSE)
		ON CONFLICT (user_id, profile_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			headline = EXCLUDED.headline,
			avatar_url = EXCLUDED.avatar_url,
			saved_at = NOW(),
			is_deleted = FALSE
		RETURNING id`,
		userID, profileID, displayName, headline, avatarURL).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *ProfilesRepository) Unsave(userID int, profileID string) error {
	_, err := r.db.Exec(`
		UPDATE saved_profile SET is_deleted = TRUE
		WHERE user_id = $1 AND profile_id = $2`,
		userID, profileID)
	return err
}

func (r *ProfilesRepository) GetByID(id int) (*models.SavedProfile, error) {
	var p models.SavedProfile
	err := r.db.QueryRow(`
		SELECT id, user_id, profile_id, display_name, headline, avatar_url, saved_at, is_deleted
		FROM saved_profile WHERE id = $1`, id).Scan(
		&p.ID, &p.UserID, &p.ProfileID, &p.DisplayName, &p.Headline, &p.AvatarURL,
		&p.SavedAt, &p.IsDeleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfilesRepository) ListByUser(userID int) ([]models.SavedProfile, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, profile_id, display_name, headline, avatar_url, saved_at, is_deleted
		FROM saved_profile
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY saved_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.SavedProfile
	for rows.Next() {
		var p models.SavedProfile
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.ProfileID, &p.DisplayName, &p.Headline, &p.AvatarURL,
			&p.SavedAt, &p.IsDeleted); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
