package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Attachment is a user-uploaded photo tied to a saved property, e.g. pictures
// taken during a viewing. The binary lives in object storage under the
// attachment ID; this table holds the metadata.
type Attachment struct {
	ID         string
	UserID     int
	PropertyID string
	FileName   string
	FileType   string
	FileSize   int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type AttachmentsRepository struct {
	db *sql.DB
}

func NewAttachmentsRepository(db *sql.DB) *AttachmentsRepository {
	return &AttachmentsRepository{db: db}
}

func (r *AttachmentsRepository) Create(userID int, propertyID, fileName, fileType string, fileSize int64) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO attachments (id, user_id, property_id, file_name, file_type, file_size, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		id, userID, propertyID, fileName, fileType, fileSize)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *AttachmentsRepository) GetByID(attID string) (*Attachment, error) {
	var a Attachment
	err := r.db.QueryRow(`
		SELECT id, user_id, property_id, file_name, file_type, file_size, created_at, modified_at
		FROM attachments
		WHERE id = $1`, attID).Scan(
		&a.ID, &a.UserID, &a.PropertyID, &a.FileName, &a.FileType, &a.FileSize,
		&a.CreatedAt, &a.ModifiedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
