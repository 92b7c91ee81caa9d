package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const postmarkAPI = "https://api.postmarkapp.com/email"

// Client sends transactional mail through Postmark. It is constructed
// once at startup and injected wherever mail gets sent.
type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	frontendURL string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(serverToken, fromEmail, baseURL, frontendURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     baseURL,
		frontendURL: frontendURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody,omitempty"`
	TextBody string `json:"TextBody,omitempty"`
}

// SendVerification emails the registration verification link. The token
// rides as a query parameter on the backend verify endpoint.
func (c *Client) SendVerification(toEmail, token string) error {
	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s", c.baseURL, token)
	htmlBody := fmt.Sprintf(
		`<h2>Email Verification</h2><p>Please click the button below to verify your email</p><a href="%s" style="padding:10px 15px;background:#0d6efd;color:#fff;text-decoration:none;border-radius:5px">Verify Email</a><p>This link will expire in 1 hour.</p>`,
		link,
	)
	textBody := fmt.Sprintf("Open the link below to verify your email:\n\n%s\n\nThis link will expire in 1 hour.", link)

	return c.send(postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Verify Your Email - Innovative Staffing Solution",
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
}

// SendPasswordReset emails the one-time reset link carrying the raw
// secret. The link points at the front end, which collects the new
// password and calls the reset endpoint.
func (c *Client) SendPasswordReset(toEmail, rawSecret string) error {
	link := fmt.Sprintf("%s/passwordreset/%s", c.frontendURL, rawSecret)
	htmlBody := fmt.Sprintf(
		`<h2>Password Reset</h2><p>Please click the button below to choose a new password</p><a href="%s" style="padding:10px 15px;background:#0d6efd;color:#fff;text-decoration:none;border-radius:5px">Reset Password</a><p>This link will expire in 1 hour.</p>`,
		link,
	)
	textBody := fmt.Sprintf("Open the link below to choose a new password:\n\n%s\n\nThis link will expire in 1 hour.", link)

	return c.send(postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Password Reset Request",
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
}

// SendContactNotification forwards a contact-form submission to the
// agency inbox.
func (c *Client) SendContactNotification(inbox, fullName, emailAddress, inquiryType, message string) error {
	textBody := fmt.Sprintf(
		"A new message has been submitted via the contact form.\n\nFull Name: %s\nEmail: %s\nInquiry Type: %s\nMessage:\n%s\n",
		fullName, emailAddress, inquiryType, message,
	)

	return c.send(postmarkEmail{
		From:     c.fromEmail,
		To:       inbox,
		Subject:  fmt.Sprintf("New Contact Form Submission: %s", inquiryType),
		TextBody: textBody,
	})
}

func (c *Client) send(payload postmarkEmail) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", postmarkAPI, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
