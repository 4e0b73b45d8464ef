package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/julianstephens/goaltrack/internal/constants"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
)

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 4096

// Config describes the transactional email account reminders are sent from.
type Config struct {
	Endpoint  string
	APIKey    string
	FromEmail string
	FromName  string
}

// Message is one outgoing HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Notifier struct {
	cfg    Config
	client *http.Client
}

var _ Sender = (*Notifier)(nil)

func New(cfg Config) *Notifier {
	if cfg.Endpoint == "" {
		cfg.Endpoint = constants.DefaultEmailEndpoint
	}
	if cfg.FromName == "" {
		cfg.FromName = constants.DefaultSenderName
	}
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// WithClient replaces the HTTP client used for sends.
func (n *Notifier) WithClient(client *http.Client) *Notifier {
	n.client = client
	return n
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailPayload struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

// Send posts msg to the provider. The deadline of ctx bounds the whole
// request; any non-2xx answer is returned as a *errors.ProviderError.
func (n *Notifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return apperrors.NewValidation("recipient", "email address is empty")
	}

	payload := mailPayload{
		Personalizations: []personalization{{To: []address{{Email: msg.To}}}},
		From:             address{Email: n.cfg.FromEmail, Name: n.cfg.FromName},
		Subject:          msg.Subject,
		Content:          []content{{Type: "text/html", Value: msg.HTML}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return &apperrors.ProviderError{StatusCode: res.StatusCode, Body: string(body)}
}
