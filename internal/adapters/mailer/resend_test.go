package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
)

type sentEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func TestResendMailerSend(t *testing.T) {
	var got sentEmail
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	m, err := NewResendMailer(ResendConfig{APIKey: "re_test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	err = m.Send(context.Background(), ports.Email{To: "firm@example.com", Subject: "New review", HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer re_test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if path != "/emails" {
		t.Fatalf("unexpected path %q", path)
	}
	if got.From != DefaultFrom || len(got.To) != 1 || got.To[0] != "firm@example.com" || got.Subject != "New review" || got.HTML != "<p>hi</p>" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestResendMailerSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"invalid to"}`))
	}))
	defer srv.Close()

	m, _ := NewResendMailer(ResendConfig{APIKey: "re_test", BaseURL: srv.URL})
	err := m.Send(context.Background(), ports.Email{To: "x@example.com", Subject: "s"})
	if err == nil || !strings.HasPrefix(err.Error(), "resend send") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestResendMailerRequiresKeyAndRecipient(t *testing.T) {
	if _, err := NewResendMailer(ResendConfig{}); err == nil {
		t.Fatal("expected missing key error")
	}
	m, _ := NewResendMailer(ResendConfig{APIKey: "k", BaseURL: "http://127.0.0.1:0"})
	if err := m.Send(context.Background(), ports.Email{}); err == nil {
		t.Fatal("expected missing recipient error")
	}
}
