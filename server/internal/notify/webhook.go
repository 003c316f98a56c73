package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// deliver sends e to every target subscribed to its type.
// Errors are logged but do not affect the caller.
func (n *Notifier) deliver(e Event) {
	for _, wh := range n.webhooks {
		if !wh.Wants(e.Type) {
			continue
		}
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, e)
		case "teams":
			err = n.sendTeams(url, e)
		case "http":
			err = n.sendHTTP(url, e)
		default:
			slog.Warn("notify: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("notify: webhook delivery failed",
				"type", wh.Type,
				"event", e.Type,
				"err", err,
			)
		} else {
			slog.Debug("notify: webhook delivered",
				"type", wh.Type,
				"event", e.Type,
				"user", e.UserID,
			)
		}
	}
}

func (n *Notifier) sendSlack(url string, e Event) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*%s* %s", eventLabel(e.Type), e.Message),
	})
	return n.post(url, body)
}

func (n *Notifier) sendTeams(url string, e Event) error {
	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": eventColor(e.Type),
		"summary":    e.Type,
		"title":      fmt.Sprintf("Golf Coach: %s", eventLabel(e.Type)),
		"text":       e.Message,
	}
	body, _ := json.Marshal(payload)
	return n.post(url, body)
}

func (n *Notifier) sendHTTP(url string, e Event) error {
	body, _ := json.Marshal(map[string]interface{}{"event": e})
	return n.post(url, body)
}

func (n *Notifier) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func eventLabel(t string) string {
	switch t {
	case EventUserSignup:
		return "[SIGNUP]"
	case EventLevelChanged:
		return "[LEVEL]"
	case EventQuotaExhausted:
		return "[QUOTA]"
	default:
		return "[EVENT]"
	}
}

func eventColor(t string) string {
	switch t {
	case EventQuotaExhausted:
		return "FFAB40"
	case EventLevelChanged:
		return "F472B6"
	default:
		return "38BDF8"
	}
}
