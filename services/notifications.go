package services

import (
	"encoding/json"
	"fmt"
	"log"

	"rental-units-server/models"
	"rental-units-server/storage"
	"rental-units-server/utils"
)

// NotificationService handles push notification delivery to users.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}
	return tokens, nil
}

// SendNotificationToUser sends a notification to every registered device of a user
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data map[string]string) error {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, data); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}
	return lastError
}

// SendReviewNotificationToRequester notifies a requester that their listing
// request was approved or rejected.
func (ns *NotificationService) SendReviewNotificationToRequester(requestID, requesterID uint, unitTitle, status string) error {
	var title, body string
	switch status {
	case models.StatusApproved:
		title = "Listing approved"
		body = fmt.Sprintf("Your listing %q is now live", unitTitle)
	case models.StatusRejected:
		title = "Listing rejected"
		body = fmt.Sprintf("Your listing request %q was not approved", unitTitle)
	default:
		return nil
	}

	data := map[string]string{
		"type":      "request_reviewed",
		"id":        fmt.Sprintf("%d", requestID),
		"status":    status,
		"requester": fmt.Sprintf("%d", requesterID),
		"screen":    "MyRequests",
	}

	err := ns.SendNotificationToUser(requesterID, title, body, data)
	if err != nil {
		log.Printf("Failed to send review notification for request %d: %v", requestID, err)
	}
	return err
}
