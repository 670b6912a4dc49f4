package repository

import (
	"database/sql"
	"errors"

	"homefolio-api/models"
)

// ErrDefaultFolder is returned by destructive operations targeting the
// user's default folder, which must always exist.
var ErrDefaultFolder = errors.New("the default folder cannot be deleted")

type FoldersRepository struct {
	db *sql.DB
}

func NewFoldersRepository(db *sql.DB) *FoldersRepository {
	return &FoldersRepository{db: db}
}

// EnsureDefault creates the user's default folder if it is missing and
// returns it. Called at registration; the ON CONFLICT guard makes it safe to
// call again for accounts predating default folders.
func (r *FoldersRepository) EnsureDefault(userID int) (*models.Folder, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO folder (user_id, name, description, color, icon, is_default, is_deleted, created_at, modified_at)
		VALUES ($1, 'Quick Saves', '', '', '', TRUE, FALSE, NOW(), NOW())
		ON CONFLICT (user_id) WHERE is_default DO UPDATE SET is_default = TRUE
		RETURNING id`, userID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *FoldersRepository) Create(userID int, name, description, color, icon string) (*models.Folder, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO folder (user_id, name, description, color, icon, is_default, is_deleted, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, NOW(), NOW())
		RETURNING id`,
		userID, name, description, color, icon).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *FoldersRepository) Update(id int, name, description, color, icon *string) error {
	_, err := r.db.Exec(`
		UPDATE folder SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			color = COALESCE($4, color),
			icon = COALESCE($5, icon),
			modified_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id, name, description, color, icon)
	return err
}

// Delete soft-deletes a folder and reassigns its members to the user's
// default folder in the same transaction, so no property is ever orphaned.
// Deleting the default folder itself is refused.
func (r *FoldersRepository) Delete(userID, id int) error {
	folder, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if folder == nil {
		return sql.ErrNoRows
	}
	if folder.IsDefault {
		return ErrDefaultFolder
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var defaultID int
	err = tx.QueryRow(`
		SELECT id FROM folder
		WHERE user_id = $1 AND is_default = TRUE AND is_deleted = FALSE`,
		userID).Scan(&defaultID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE saved_property SET folder_id = $1, modified_at = NOW()
		WHERE user_id = $2 AND folder_id = $3`,
		defaultID, userID, id)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE folder SET is_deleted = TRUE, modified_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *FoldersRepository) GetByID(id int) (*models.Folder, error) {
	var f models.Folder
	err := r.db.QueryRow(`
		SELECT f.id, f.user_id, f.name, f.description, f.color, f.icon, f.is_default,
		       f.is_deleted, f.created_at, f.modified_at,
		       (SELECT COUNT(*) FROM saved_property p
		        WHERE p.folder_id = f.id AND p.is_deleted = FALSE) AS property_count
		FROM folder f
		WHERE f.id = $1`, id).Scan(
		&f.ID, &f.UserID, &f.Name, &f.Description, &f.Color, &f.Icon, &f.IsDefault,
		&f.IsDeleted, &f.CreatedAt, &f.ModifiedAt, &f.PropertyCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByUser returns the user's folders with membership counts recomputed
// per row; the stored count column is never trusted.
func (r *FoldersRepository) ListByUser(userID int) ([]models.Folder, error) {
	rows, err := r.db.Query(`
		SELECT f.id, f.user_id, f.name, f.description, f.color, f.icon, f.is_default,
		       f.is_deleted, f.created_at, f.modified_at,
		       COUNT(p.property_id) AS property_count
		FROM folder f
		LEFT JOIN saved_property p
		       ON p.folder_id = f.id AND p.is_deleted = FALSE
		WHERE f.user_id = $1 AND f.is_deleted = FALSE
		GROUP BY f.id
		ORDER BY f.is_default DESC, f.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.Name, &f.Description, &f.Color, &f.Icon, &f.IsDefault,
			&f.IsDeleted, &f.CreatedAt, &f.ModifiedAt, &f.PropertyCount); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}
