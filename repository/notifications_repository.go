package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// AlertNotification is a stored acknowledgment shown on the alerts screen,
// e.g. "alerts turned on for this search". Sticky ones survive until the
// user dismisses them explicitly; the rest are cleared by a bulk mark-read.
type AlertNotification struct {
	ID        int
	UserID    int
	Type      string
	Payload   json.RawMessage
	IsRead    bool
	Sticky    bool
	CreatedAt time.Time
}

type NotificationsRepository struct {
	db *sql.DB
}

func NewNotificationsRepository(db *sql.DB) *NotificationsRepository {
	return &NotificationsRepository{db: db}
}

func (r *NotificationsRepository) Create(userID int, notifType string, payload json.RawMessage, sticky bool) error {
	_, err := r.db.Exec(`
		INSERT INTO notifications (user_id, type, payload, sticky)
		VALUES ($1, $2, $3, $4)`,
		userID, notifType, []byte(payload), sticky)
	return err
}

// ListUnread returns pending acknowledgments, sticky ones first so they stay
// at the top of the alerts screen.
func (r *NotificationsRepository) ListUnread(userID int) ([]AlertNotification, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, type, payload, is_read, sticky, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY sticky DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AlertNotification
	for rows.Next() {
		var n AlertNotification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &payload, &n.IsRead, &n.Sticky, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Payload = json.RawMessage(payload)
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkRead clears the given notifications in one statement. IDs belonging to
// other users are simply not matched.
func (r *NotificationsRepository) MarkRead(userID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(`
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND id = ANY($2)`,
		userID, pq.Array(ids))
	return err
}
