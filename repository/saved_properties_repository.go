package repository

import (
	"database/sql"

	"homefolio-api/models"

	"github.com/lib/pq"
)

type SavedPropertiesRepository struct {
	db *sql.DB
}

func NewSavedPropertiesRepository(db *sql.DB) *SavedPropertiesRepository {
	return &SavedPropertiesRepository{db: db}
}

const savedPropertyColumns = `
	property_id, user_id, title, street, city, state, rent_amount, rent_currency,
	property_type, bedrooms, bathrooms, images, saved_at, folder_id, notes,
	is_deleted, modified_at`

func scanSavedProperty(row interface{ Scan(...interface{}) error }) (*models.SavedProperty, error) {
	var p models.SavedProperty
	var folderID sql.NullInt64
	var savedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Address.Street, &p.Address.City, &p.Address.State,
		&p.Rent.Amount, &p.Rent.Currency, &p.Type, &p.Bedrooms, &p.Bathrooms,
		pq.Array(&p.Images), &savedAt, &folderID, &p.Notes, &p.IsDeleted, &p.ModifiedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if savedAt.Valid {
		t := savedAt.Time
		p.SavedAt = &t
	}
	if folderID.Valid {
		fid := int(folderID.Int64)
		p.FolderID = &fid
	}
	return &p, nil
}

// Save inserts a saved property, or revives a previously unsaved one keeping
// the same key. The listing snapshot is refreshed either way; notes are
// preserved on revival.
func (r *SavedPropertiesRepository) Save(userID int, p *models.SavedProperty) (*models.SavedProperty, error) {
	_, err := r.db.Exec(`
		INSERT INTO saved_property (
			property_id, user_id, title, street, city, state, rent_amount, rent_currency,
			property_type, bedrooms, bathrooms, images, saved_at, folder_id, notes,
			is_deleted, modified_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), $13, '', FALSE, NOW())
		ON CONFLICT (user_id, property_id) DO UPDATE SET
			title = EXCLUDED.title,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			rent_amount = EXCLUDED.rent_amount,
			rent_currency = EXCLUDED.rent_currency,
			property_type = EXCLUDED.property_type,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			images = EXCLUDED.images,
			folder_id = EXCLUDED.folder_id,
			saved_at = NOW(),
			is_deleted = FALSE,
			modified_at = NOW()`,
		p.ID, userID, p.Title, p.Address.Street, p.Address.City, p.Address.State,
		p.Rent.Amount, p.Rent.Currency, p.Type, p.Bedrooms, p.Bathrooms,
		pq.Array(p.Images), p.FolderID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(userID, p.ID)
}

func (r *SavedPropertiesRepository) GetByID(userID int, propertyID string) (*models.SavedProperty, error) {
	row := r.db.QueryRow(`
		SELECT `+savedPropertyColumns+`
		FROM saved_property
		WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	return scanSavedProperty(row)
}

// ListByUser returns the user's full non-deleted collection. The view
// pipeline filters and sorts in memory, so no SQL-side pagination here.
func (r *SavedPropertiesRepository) ListByUser(userID int) ([]models.SavedProperty, error) {
	rows, err := r.db.Query(`
		SELECT `+savedPropertyColumns+`
		FROM saved_property
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY saved_at DESC NULLS LAST`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []models.SavedProperty
	for rows.Next() {
		p, err := scanSavedProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

func (r *SavedPropertiesRepository) SetDeleted(userID int, propertyID string, isDeleted bool) error {
	_, err := r.db.Exec(`
		UPDATE saved_property SET is_deleted = $3, modified_at = NOW()
		WHERE user_id = $1 AND property_id = $2`,
		userID, propertyID, isDeleted)
	return err
}

func (r *SavedPropertiesRepository) UpdateNotes(userID int, propertyID, serializedNotes string) error {
	_, err := r.db.Exec(`
		UPDATE saved_property SET notes = $3, modified_at = NOW()
		WHERE user_id = $1 AND property_id = $2 AND is_deleted = FALSE`,
		userID, propertyID, serializedNotes)
	return err
}

func (r *SavedPropertiesRepository) SetFolder(userID int, propertyID string, folderID *int) error {
	_, err := r.db.Exec(`
		UPDATE saved_property SET folder_id = $3, modified_at = NOW()
		WHERE user_id = $1 AND property_id = $2 AND is_deleted = FALSE`,
		userID, propertyID, folderID)
	return err
}

func (r *SavedPropertiesRepository) TouchModified(userID int, propertyID string) error {
	_, err := r.db.Exec(`
		UPDATE saved_property SET modified_at = NOW()
		WHERE user_id = $1 AND property_id = $2`,
		userID, propertyID)
	return err
}
