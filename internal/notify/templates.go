package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"
)

const (
	ResetPasswordSubject = "Reset Your Password - Screenly"
	WelcomeSubject       = "Welcome to Screenly!"
)

const resetPasswordHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Reset Your Password</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 0; background-color: #0f0f0f;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #1a1a1a;">
    <div style="background: linear-gradient(135deg, #E50914, #B20710); padding: 40px 20px; text-align: center;">
      <h1 style="color: white; font-size: 32px; margin: 0;">Screenly</h1>
      <p style="color: #ffcccc; margin: 10px 0 0 0;">Reset Your Password</p>
    </div>
    <div style="padding: 40px 20px; color: #ffffff;">
      <h2 style="margin-top: 0;">Password Reset Request</h2>
      <p>Hi there!</p>
      <p>We received a request to reset your password for your Screenly account. If you made this request, click the button below to reset your password:</p>
      <div style="text-align: center; margin: 30px 0;">
        <a href="{{.ResetURL}}" style="display: inline-block; background-color: #E50914; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold;">Reset My Password</a>
      </div>
      <div style="background-color: #2d1b1b; border-left: 4px solid #E50914; padding: 15px; margin: 20px 0; border-radius: 4px;">
        <p style="margin: 0; font-weight: bold;">Important Security Information:</p>
        <ul style="margin: 10px 0 0 0; padding-left: 20px;">
          <li>This link will expire in {{.ExpiresIn}}</li>
          <li>If you didn't request this reset, please ignore this email</li>
          <li>Never share this link with anyone</li>
        </ul>
      </div>
      <p>If the button doesn't work, copy and paste this link into your browser:</p>
      <p style="word-break: break-all; background-color: #2a2a2a; padding: 10px; border-radius: 4px; font-family: monospace;">{{.ResetURL}}</p>
      <p>Best regards,<br>The Screenly Team</p>
    </div>
    <div style="padding: 20px; text-align: center; color: #888; font-size: 14px; border-top: 1px solid #333;">
      <p>This is an automated email. Please do not reply to this message.</p>
    </div>
  </div>
</body>
</html>`

const resetPasswordText = `Reset Your Password - Screenly

Hi there!

We received a request to reset your password for your Screenly account.

Click this link to reset your password: {{.ResetURL}}

This link will expire in {{.ExpiresIn}}.

If you didn't request this reset, please ignore this email.

Best regards,
The Screenly Team
`

const welcomeHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Welcome to Screenly</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 0; background-color: #0f0f0f;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #1a1a1a;">
    <div style="background: linear-gradient(135deg, #E50914, #B20710); padding: 40px 20px; text-align: center;">
      <h1 style="color: white; font-size: 32px; margin: 0;">Screenly</h1>
      <p style="color: #ffcccc; margin: 10px 0 0 0;">Welcome to the Family!</p>
    </div>
    <div style="padding: 40px 20px; color: #ffffff;">
      <h2 style="margin-top: 0;">Welcome, {{.Name}}!</h2>
      <p>Thank you for joining Screenly! We're excited to have you as part of our movie-loving community.</p>
      <div style="background-color: #2a2a2a; padding: 20px; margin: 15px 0; border-radius: 8px;">
        <h3 style="color: #E50914; margin-top: 0;">What you can do now:</h3>
        <ul>
          <li>Browse thousands of movies from TMDB</li>
          <li>Create your personal watchlist</li>
          <li>Watch trailers and get movie details</li>
        </ul>
      </div>
      <div style="text-align: center; margin: 30px 0;">
        <a href="{{.AppURL}}" style="display: inline-block; background-color: #E50914; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold;">Start Watching Now</a>
      </div>
      <p>Happy watching!<br>The Screenly Team</p>
    </div>
  </div>
</body>
</html>`

const welcomeText = `Welcome to Screenly, {{.Name}}!

Thank you for joining Screenly. Browse movies, build your watchlist and watch trailers at {{.AppURL}}

Happy watching!
The Screenly Team
`

var (
	resetPasswordHTMLTmpl = htmltemplate.Must(htmltemplate.New("reset_html").Parse(resetPasswordHTML))
	resetPasswordTextTmpl = texttemplate.Must(texttemplate.New("reset_text").Parse(resetPasswordText))
	welcomeHTMLTmpl       = htmltemplate.Must(htmltemplate.New("welcome_html").Parse(welcomeHTML))
	welcomeTextTmpl       = texttemplate.Must(texttemplate.New("welcome_text").Parse(welcomeText))
)

type executor interface {
	Execute(w io.Writer, data any) error
}

// PasswordResetEmail renders the reset message pointing at resetURL.
func PasswordResetEmail(to, resetURL string, ttl time.Duration) (Message, error) {
	data := struct {
		ResetURL  string
		ExpiresIn string
	}{
		ResetURL:  resetURL,
		ExpiresIn: humanizeDuration(ttl),
	}

	return render(to, ResetPasswordSubject, resetPasswordHTMLTmpl, resetPasswordTextTmpl, data)
}

// WelcomeEmail renders the message sent after registration.
func WelcomeEmail(to, name, appURL string) (Message, error) {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	data := struct {
		Name   string
		AppURL string
	}{
		Name:   name,
		AppURL: appURL,
	}

	return render(to, WelcomeSubject, welcomeHTMLTmpl, welcomeTextTmpl, data)
}

func render(to, subject string, html, text executor, data any) (Message, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, data); err != nil {
		return Message{}, fmt.Errorf("render %q html: %w", subject, err)
	}
	if err := text.Execute(&textBuf, data); err != nil {
		return Message{}, fmt.Errorf("render %q text: %w", subject, err)
	}

	return Message{
		To:      to,
		Subject: subject,
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	}, nil
}

// humanizeDuration renders whole hours as "24 hours" and anything shorter
// in minutes.
func humanizeDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
