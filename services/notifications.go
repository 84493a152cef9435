package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Hood-Codivo/restar-africa/models"

	"gorm.io/gorm"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

var pushClient = &http.Client{Timeout: 10 * time.Second}

type expoPushMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// SendPushToUser delivers a push notification to all of a user's registered
// devices. Users who disabled notifications or have no tokens are silently
// skipped.
func SendPushToUser(db *gorm.DB, userID uint, title, body string, data map[string]string) error {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("push: user %d: %w", userID, err)
	}
	if user.AllowsNotifications != nil && !*user.AllowsNotifications {
		return nil
	}

	var tokens []string
	if len(user.PushTokens) > 0 {
		if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
			return fmt.Errorf("push: bad token list for user %d: %w", userID, err)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	return sendExpoPush(expoPushMessage{To: tokens, Title: title, Body: body, Data: data})
}

func sendExpoPush(msg expoPushMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, expoPushURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := pushClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.New("push: expo returned " + resp.Status)
	}
	return nil
}
