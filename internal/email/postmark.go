package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const postmarkURL = "https://api.postmarkapp.com/email"

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	apiURL      string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithAPIURL(u string) Option {
	return func(cl *Client) {
		cl.apiURL = u
	}
}

// NewClient builds a Postmark email client. baseURL is the frontend base used
// for confirmation and reset links.
func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     baseURL,
		apiURL:      postmarkURL,
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
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendConfirmation sends the signup confirmation email. The link embeds the
// encoded account id and the state-bound token.
func (c *Client) SendConfirmation(toEmail, firstName, uid, token string) error {
	link := fmt.Sprintf("%s/confirm-email/?uid=%s&token=%s", c.baseURL, uid, token)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nConfirm your email for Grocery Price Checker by opening the link below:\n\n%s\n\nIf you did not sign up, you can ignore this email.",
		firstName, link,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>Confirm your email for Grocery Price Checker:</p><p><a href="%s">Confirm email</a></p><p>If you did not sign up, you can ignore this email.</p>`,
		firstName, link,
	)
	return c.send(toEmail, "Confirm Your Email for Grocery Price Checker", htmlBody, textBody)
}

// SendPasswordReset sends the reset link for a forgot-password request.
func (c *Client) SendPasswordReset(toEmail, firstName, uid, token string) error {
	link := fmt.Sprintf("%s/reset-password/?uid=%s&token=%s", c.baseURL, uid, token)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nReset your Grocery Price Checker password by opening the link below:\n\n%s\n\nThe link stops working once your password changes.",
		firstName, link,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>Reset your Grocery Price Checker password:</p><p><a href="%s">Reset password</a></p><p>The link stops working once your password changes.</p>`,
		firstName, link,
	)
	return c.send(toEmail, "Reset Your Grocery Price Checker Password", htmlBody, textBody)
}

// SendContactNotification forwards a contact-us message to the configured
// recipient.
func (c *Client) SendContactNotification(toEmail, reference, fromName, fromEmail, subject, body string) error {
	textBody := fmt.Sprintf("New contact message %s\n\nFrom: %s <%s>\nSubject: %s\n\n%s",
		reference, fromName, fromEmail, subject, body)
	htmlBody := fmt.Sprintf(
		`<p>New contact message %s</p><p>From: %s &lt;%s&gt;<br>Subject: %s</p><p>%s</p>`,
		reference, fromName, fromEmail, subject, body,
	)
	return c.send(toEmail, "Contact: "+subject, htmlBody, textBody)
}

func (c *Client) send(toEmail, subject, htmlBody, textBody string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(body))
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
