package repository

import (
	"database/sql"
	"encoding/json"

	"growest_connect/db"
	"growest_connect/models"

	"github.com/google/uuid"
)

// InsertNotification writes one notification row. The caller treats failures
// as best-effort.
func InsertNotification(n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}

	_, err = db.DB.Exec(`
		INSERT INTO notifications (id, user_id, type, title, message, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, string(dataJSON))
	return err
}

// GetNotificationsForUser returns the user's newest notifications.
func GetNotificationsForUser(userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.DB.Query(`
		SELECT id, user_id, type, title, message, data, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		var dataJSON sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &dataJSON, &n.CreatedAt); err != nil {
			return nil, err
		}
		if dataJSON.Valid {
			if err := json.Unmarshal([]byte(dataJSON.String), &n.Data); err != nil {
				n.Data = models.NotificationData{}
			}
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
