package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/resend/resend-go/v2"
)

const DefaultFrom = "CampaignGrade <noreply@campaign-grade.com>"

type ResendConfig struct {
	APIKey string
	From   string
	// BaseURL overrides the Resend API root, e.g. for a local stub.
	BaseURL    string
	HTTPClient *http.Client
}

// ResendMailer delivers transactional email through Resend.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(cfg ResendConfig) (*ResendMailer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("resend api key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	client := resend.NewCustomClient(httpClient, cfg.APIKey)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse resend base url: %w", err)
		}
		client.BaseURL = base
	}
	from := cfg.From
	if from == "" {
		from = DefaultFrom
	}
	return &ResendMailer{client: client, from: from}, nil
}

func (m *ResendMailer) Send(ctx context.Context, email ports.Email) error {
	if strings.TrimSpace(email.To) == "" {
		return errors.New("recipient is required")
	}
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
