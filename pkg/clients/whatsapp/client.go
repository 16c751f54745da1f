// Package whatsapp sends plain text messages through the WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/hivetool/internal/config"
)

// Client posts messages from one business phone number.
type Client struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient builds a client for cfg. Server errors are retried twice.
func NewClient(cfg config.WhatsAppConfig) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	rc := resty.New().
		SetBaseURL(base+"/"+cfg.APIVersion).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{http: rc, phoneNumberID: cfg.PhoneNumberID}
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type textMessage struct {
	Product string   `json:"messaging_product"`
	To      string   `json:"to"`
	Type    string   `json:"type"`
	Text    textBody `json:"text"`
}

type receipt struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError is the error object returned by the Cloud API.
type APIError struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.Status, e.Code, e.Message)
}

// SendText delivers body to the recipient and returns the message id.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", errors.New("whatsapp: empty recipient")
	}

	var (
		out     receipt
		failure struct {
			Error APIError `json:"error"`
		}
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(textMessage{Product: "whatsapp", To: to, Type: "text", Text: textBody{Body: body}}).
		SetResult(&out).
		SetError(&failure).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}
	if resp.IsError() {
		apiErr := failure.Error
		apiErr.Status = resp.StatusCode()
		return "", &apiErr
	}

	if len(out.Messages) == 0 {
		return "", nil
	}
	return out.Messages[0].ID, nil
}

// TextSender is the part of Client used by OperatorNotifier.
type TextSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// OperatorNotifier sends digest summaries to a single configured recipient.
type OperatorNotifier struct {
	sender   TextSender
	operator string
}

func NewOperatorNotifier(sender TextSender, operator string) *OperatorNotifier {
	return &OperatorNotifier{sender: sender, operator: operator}
}

// Notify sends text to the operator.
func (n *OperatorNotifier) Notify(ctx context.Context, text string) error {
	_, err := n.sender.SendText(ctx, n.operator, text)
	return err
}
