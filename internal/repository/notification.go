package repository

import (
	"context"
	"time"

	"coursehub/internal/firebase"
	"coursehub/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// newNotification builds an embedded notification record. Notifications are
// created only inside enrollment transitions, in the same transaction as the
// status and membership writes, so a student can never be enrolled without
// one.
func newNotification(title string, courseID string, notificationType models.NotificationType) models.Notification {
	return models.Notification{
		ID:        uuid.New().String(),
		Title:     title,
		CourseID:  courseID,
		Timestamp: time.Now(),
		Type:      notificationType,
	}
}

// notificationValue converts a notification to its Firestore representation
// so it can be used with ArrayUnion inside batches and transactions.
func notificationValue(n models.Notification) map[string]interface{} {
	return map[string]interface{}{
		"id":        n.ID,
		"title":     n.Title,
		"courseId":  n.CourseID,
		"timestamp": n.Timestamp,
		"type":      n.Type,
	}
}

// ClearNotification dismisses one notification. Dismissal never alters the
// enrollment record that produced it.
func (fr *FirebaseRepository) ClearNotification(req *models.ClearNotificationRequest) error {
	profileRef := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(req.UserID)

	err := fr.firestoreClient.RunTransaction(firebase.Context, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(profileRef)
		if err != nil {
			return err
		}

		var profile models.Profile
		if err := mapstructure.Decode(doc.Data(), &profile); err != nil {
			return err
		}

		remaining := make([]map[string]interface{}, 0, len(profile.Notifications))
		for _, notification := range profile.Notifications {
			if notification.ID != req.NotificationID {
				remaining = append(remaining, notificationValue(notification))
			}
		}

		return tx.Update(profileRef, []firestore.Update{
			{Path: "notifications", Value: remaining},
		})
	})

	return commitError(err)
}

// ClearAllNotifications dismisses every notification for a user.
func (fr *FirebaseRepository) ClearAllNotifications(req *models.ClearAllNotificationsRequest) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(req.UserID).Update(firebase.Context, []firestore.Update{
		{Path: "notifications", Value: []map[string]interface{}{}},
	})

	return commitError(err)
}
