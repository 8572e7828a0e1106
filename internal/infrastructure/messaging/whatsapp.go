// Package messaging wraps the Twilio WhatsApp REST endpoint used for
// appointment reminders.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"cabinet-medical-api/config"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

var ErrNotConfigured = errors.New("whatsapp gateway is not configured")

// WhatsAppSender sends a WhatsApp message to a phone number.
type WhatsAppSender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioWhatsAppClient talks to the Twilio Messages API over HTTP.
type TwilioWhatsAppClient struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
}

// Option mutates the client; used by tests to point at a local server.
type Option func(*TwilioWhatsAppClient)

func WithBaseURL(baseURL string) Option {
	return func(c *TwilioWhatsAppClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *TwilioWhatsAppClient) {
		c.httpClient = httpClient
	}
}

func NewTwilioWhatsAppClient(cfg config.TwilioConfig, opts ...Option) *TwilioWhatsAppClient {
	client := &TwilioWhatsAppClient{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.WhatsAppNumber,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// IsConfigured reports whether gateway credentials are present.
func (c *TwilioWhatsAppClient) IsConfigured() bool {
	return c.accountSID != "" && c.authToken != "" && c.from != ""
}

func (c *TwilioWhatsAppClient) Send(ctx context.Context, to, body string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", FormatWhatsAppNumber(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return nil
}

var nonDialable = regexp.MustCompile(`[^\d+]`)

// FormatWhatsAppNumber normalizes a local phone number into the
// whatsapp:+E164 form Twilio expects. Numbers without a country code are
// assumed to be Moroccan.
func FormatWhatsAppNumber(phoneNumber string) string {
	cleaned := nonDialable.ReplaceAllString(strings.ReplaceAll(phoneNumber, " ", ""), "")

	if !strings.HasPrefix(cleaned, "+") {
		switch {
		case strings.HasPrefix(cleaned, "0"):
			cleaned = "+212" + cleaned[1:]
		case strings.HasPrefix(cleaned, "212"):
			cleaned = "+" + cleaned
		default:
			cleaned = "+212" + cleaned
		}
	}

	return "whatsapp:" + cleaned
}
