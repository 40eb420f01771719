package application

import (
	"bytes"
	"context"
	"html/template"

	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "verification_approved"}}<h2>Welcome, {{.Name}}!</h2>
<p>Your identity has been verified. You can now submit reviews on CampaignGrade.</p>
<p><a href="{{.AppURL}}/reviews/new">Submit your first review</a></p>
<p>Thank you for helping the political community make better vendor decisions.</p>{{end}}

{{define "verification_rejected"}}<h2>Hi {{.Name}},</h2>
<p>We were unable to verify your submission for the following reason:</p>
<blockquote>{{.Reason}}</blockquote>
<p>You can resubmit with additional documentation at <a href="{{.AppURL}}/verify">{{.AppURL}}/verify</a></p>
<p>If you have questions, contact us at {{.AdminEmail}}.</p>{{end}}

{{define "review_published"}}<h2>Hi {{.Name}},</h2>
<p>Your review of <strong>{{.FirmName}}</strong> has been reviewed and published on CampaignGrade.</p>
<p>Thank you for contributing to our community.</p>
<p><a href="{{.AppURL}}/dashboard">View your reviews</a></p>{{end}}

{{define "review_removed"}}<h2>Hi {{.Name}},</h2>
<p>Your review of <strong>{{.FirmName}}</strong> has been removed for the following reason:</p>
<blockquote>{{.Reason}}</blockquote>
<p>Please review our <a href="{{.AppURL}}/content-policy">content policy</a> for guidelines.</p>
<p>If you believe this decision was in error, contact us at {{.AdminEmail}}.</p>{{end}}

{{define "new_review"}}<h2>New Review on CampaignGrade</h2>
<p>A new review has been posted for <strong>{{.FirmName}}</strong>.</p>
<p><a href="{{.AppURL}}/firms/{{.FirmSlug}}">View the review</a></p>
<p><a href="{{.AppURL}}/firm-dashboard/reviews">Respond in your firm dashboard</a></p>{{end}}

{{define "flag_resolution"}}<h2>Hi {{.Name}},</h2>
<p>The review you flagged has been <strong>{{.Outcome}}</strong>.</p>
{{if .Upheld}}<p>The review has been removed from CampaignGrade.</p>{{else}}<p>The review remains published on CampaignGrade.</p>{{end}}
<p>Thank you for helping maintain the quality of our platform.</p>{{end}}

{{define "claim_approved"}}<h2>Claim Approved!</h2>
<p>Hi {{.Name}},</p>
<p>Your claim for <strong>{{.FirmName}}</strong> has been approved. You can now manage your firm's profile and respond to reviews.</p>
<p><a href="{{.AppURL}}/firm-dashboard">Go to Firm Dashboard</a></p>
<p>CampaignGrade · {{.AdminEmail}}</p>{{end}}

{{define "claim_rejected"}}<h2>Claim Not Approved</h2>
<p>Hi {{.Name}},</p>
<p>We were unable to approve your claim for the following reason:</p>
<blockquote>{{.Reason}}</blockquote>
<p>You can submit a new claim with additional documentation at <a href="{{.AppURL}}/firms/{{.FirmSlug}}">{{.AppURL}}/firms/{{.FirmSlug}}</a>.</p>
<p>Questions? Contact us at {{.AdminEmail}}.</p>{{end}}

{{define "firm_reviewed"}}<h2>Your firm was just reviewed on CampaignGrade</h2>
<p>A verified campaign principal has submitted a review of <strong>{{.FirmName}}</strong> on CampaignGrade.</p>
<p>As a firm representative you can claim your profile to respond to reviews and keep your firm information current.</p>
<p><a href="{{.AppURL}}/firms/{{.FirmSlug}}">View Your Firm Profile</a></p>
<p>To claim your firm profile, visit {{.AppURL}} or contact us at {{.AdminEmail}}.</p>{{end}}

{{define "password_reset"}}<h2>Hi {{.Name}},</h2>
<p>We received a request to reset your CampaignGrade password.</p>
<p><a href="{{.AppURL}}/update-password?token={{.Token}}">Choose a new password</a></p>
<p>If you did not request this, you can ignore this email.</p>{{end}}
`))

type emailData struct {
	Name       string
	FirmName   string
	FirmSlug   string
	Reason     string
	Outcome    string
	Upheld     bool
	Token      string
	AppURL     string
	AdminEmail string
}

// notify renders and sends one email. Failures are logged and never returned.
func (s *Service) notify(ctx context.Context, operation, templateName, to, subject string, data emailData) {
	if s.mailer == nil || to == "" {
		return
	}
	data.AppURL = s.cfg.AppURL
	data.AdminEmail = s.cfg.AdminEmail
	var body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&body, templateName, data); err != nil {
		s.logFailure(ctx, operation, "email render failed", err, "template", templateName)
		return
	}
	if err := s.mailer.Send(ctx, ports.Email{To: to, Subject: subject, HTML: body.String()}); err != nil {
		s.logFailure(ctx, operation, "email send failed", err, "template", templateName)
		return
	}
	appLogger().InfoContext(ctx, "email sent",
		"operation", operation,
		"outcome", "success",
		"template", templateName,
	)
}
