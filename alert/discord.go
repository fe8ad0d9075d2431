package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Notifier posts messages to a Discord-compatible webhook.
type Notifier struct {
	Client *http.Client
}

func NewNotifier() *Notifier {
	return &Notifier{Client: &http.Client{Timeout: 10 * time.Second}}
}

type payload struct {
	Content string `json:"content"`
}

// Send posts msg to webhookURL. An empty URL is a no-op.
func (n *Notifier) Send(ctx context.Context, webhookURL, msg string) error {
	if webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(payload{Content: msg})
	if err != nil {
		return errors.Wrap(err, "encode webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
