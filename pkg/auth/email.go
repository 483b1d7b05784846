// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth

import (
	"context"
	"html/template"
	"net/url"
	"strings"

	"github.com/samber/oops"
)

// Notifier delivers a notification email. Delivery is an external concern;
// the orchestrator calls Send best-effort and never surfaces its failures.
type Notifier interface {
	Send(ctx context.Context, toEmail, subject, htmlBody string) error
}

// Notification subjects.
const (
	SubjectConfirmEmail  = "Confirm your Ledgerline email"
	SubjectResetPassword = "Reset your Ledgerline password"
)

var confirmEmailTmpl = template.Must(template.New("confirm_email").Parse(`<html>
<body>
<p>Hi {{.Name}},</p>
<p>Welcome to Ledgerline! Please confirm your email address by following the link below.</p>
<p><a href="{{.Link}}">Confirm my email</a></p>
<p>If you did not create this account, you can ignore this message.</p>
<p>&mdash; {{.Sender}}</p>
</body>
</html>`))

var resetPasswordTmpl = template.Must(template.New("reset_password").Parse(`<html>
<body>
<p>Hi {{.Name}},</p>
<p>We received a request to reset your Ledgerline password. Follow the link below to choose a new one.</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>The link expires after a short while. If you did not request a reset, you can ignore this message.</p>
<p>&mdash; {{.Sender}}</p>
</body>
</html>`))

type emailData struct {
	Name   string
	Link   string
	Sender string
}

// actionLink appends the recipient email and token to a configured base URL.
func actionLink(base, email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

// renderEmail executes one of the notification templates.
func renderEmail(tmpl *template.Template, data emailData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", oops.Code("NOTIFY_RENDER_FAILED").
			With("template", tmpl.Name()).
			Wrap(err)
	}
	return b.String(), nil
}

// displayName picks the friendliest available name for the salutation.
func displayName(account *Account) string {
	if name := account.FullName(); name != "" {
		return name
	}
	return account.Username
}
