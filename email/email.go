package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer delivers the account emails. Handlers only see this interface.
type Mailer interface {
	SendVerification(to string, token string) error
	SendPasswordReset(to string, token string) error
}

// Resend sends mail through the Resend REST API. With no API key it logs
// instead of sending, which is what development wants.
type Resend struct {
	APIKey  string
	From    string
	BaseURL string

	client *http.Client
}

func NewResend(apiKey, from, baseURL string) *Resend {
	return &Resend{
		APIKey:  apiKey,
		From:    from,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (e *Resend) send(to, subject, html string) error {
	if e.APIKey == "" {
		log.Printf("Email would be sent to %s: %s", to, subject)
		return nil
	}

	body, marshalErr := json.Marshal(message{
		From:    e.From,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if marshalErr != nil {
		return marshalErr
	}

	req, reqErr := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if reqErr != nil {
		return reqErr
	}
	req.Header.Set("Authorization", "Bearer "+e.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, sendErr := e.client.Do(req)
	if sendErr != nil {
		return sendErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

func (e *Resend) SendVerification(to string, token string) error {
	url := fmt.Sprintf("%s/verify-email?token=%s", e.BaseURL, token)
	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Welcome to Paint Mix!</h2>
			<p>Please verify your email address by clicking the link below:</p>
			<p style="margin: 30px 0;"><a href="%s">Verify Email</a></p>
			<p style="color: #666; font-size: 14px;">This link expires in 24 hours.</p>
		</div>`, url)
	return e.send(to, "Verify your email - Paint Mix", html)
}

func (e *Resend) SendPasswordReset(to string, token string) error {
	url := fmt.Sprintf("%s/reset-password?token=%s", e.BaseURL, token)
	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Password Reset Request</h2>
			<p>Click the link below to reset your password:</p>
			<p style="margin: 30px 0;"><a href="%s">Reset Password</a></p>
			<p style="color: #666; font-size: 14px;">This link expires in 1 hour.</p>
			<p style="color: #666; font-size: 14px;">If you didn't request this, you can safely ignore this email.</p>
		</div>`, url)
	return e.send(to, "Reset your password - Paint Mix", html)
}
