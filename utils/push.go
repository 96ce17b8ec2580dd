package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var pushClient = &http.Client{Timeout: 10 * time.Second}

// SendPushNotification posts a single push message to the push relay.
// PUSH_RELAY_URL defaults to the Expo push API.
func SendPushNotification(token, title, body string, data map[string]string) error {
	endpoint := os.Getenv("PUSH_RELAY_URL")
	if endpoint == "" {
		endpoint = "https://exp.host/--/api/v2/push/send"
	}

	message := map[string]interface{}{
		"to":    token,
		"title": title,
		"body":  body,
		"sound": "default",
	}
	if len(data) > 0 {
		message["data"] = data
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := pushClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("push relay returned status %d: %s", res.StatusCode, string(resBody))
	}
	return nil
}
