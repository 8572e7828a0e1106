package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cabinet-medical-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWhatsAppNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local with leading zero", "0612345678", "whatsapp:+212612345678"},
		{"country code without plus", "212612345678", "whatsapp:+212612345678"},
		{"already international", "+212612345678", "whatsapp:+212612345678"},
		{"bare subscriber number", "612345678", "whatsapp:+212612345678"},
		{"spaces and separators", "06 12 34-56.78", "whatsapp:+212612345678"},
		{"foreign number kept as is", "+33612345678", "whatsapp:+33612345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWhatsAppNumber(tt.input))
		})
	}
}

func TestSend_PostsToTwilio(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewTwilioWhatsAppClient(config.TwilioConfig{
		AccountSID:     "AC123",
		AuthToken:      "secret",
		WhatsAppNumber: "whatsapp:+14155238886",
	}, WithBaseURL(server.URL))

	err := client.Send(context.Background(), "0612345678", "Rappel de rendez-vous")
	require.NoError(t, err)

	assert.Equal(t, "/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, "whatsapp:+14155238886", gotFrom)
	assert.Equal(t, "whatsapp:+212612345678", gotTo)
	assert.Equal(t, "Rappel de rendez-vous", gotBody)
}

func TestSend_ReportsTwilioErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Authentication Error"}`))
	}))
	defer server.Close()

	client := NewTwilioWhatsAppClient(config.TwilioConfig{
		AccountSID:     "AC123",
		AuthToken:      "wrong",
		WhatsAppNumber: "whatsapp:+14155238886",
	}, WithBaseURL(server.URL))

	err := client.Send(context.Background(), "0612345678", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSend_NotConfigured(t *testing.T) {
	client := NewTwilioWhatsAppClient(config.TwilioConfig{})

	err := client.Send(context.Background(), "0612345678", "test")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
