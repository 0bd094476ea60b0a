// Package whatsapp implements the outbound notification port against the
// WhatsApp Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Notifier sends messages through the WhatsApp Cloud API. It satisfies
// ports.Notifier; delivery failures surface as errors and the callers decide
// whether to retry or log and move on.
type Notifier struct {
	client      *http.Client
	apiURL      string
	accessToken string
}

// NewNotifier creates a notifier for the given phone-number endpoint.
// apiURL is the full messages endpoint, e.g.
// https://graph.facebook.com/v19.0/<phone_number_id>/messages.
func NewNotifier(apiURL, accessToken string) *Notifier {
	return &Notifier{
		client:      &http.Client{Timeout: defaultTimeout},
		apiURL:      apiURL,
		accessToken: accessToken,
	}
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type interactivePayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Interactive      interactiveBody `json:"interactive"`
}

type interactiveBody struct {
	Type   string            `json:"type"`
	Body   textBody          `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveAction struct {
	Buttons []interactiveButton `json:"buttons"`
}

type interactiveButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SendText implements ports.Notifier.
func (n *Notifier) SendText(ctx context.Context, to kernel.Phone, text string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to.String(),
		Type:             "text",
		Text:             textBody{Body: text},
	}
	return n.post(ctx, payload)
}

// SendChoicePrompt implements ports.Notifier. The option count is validated
// by the callers against ports.MaxChoiceOptions before reaching here.
func (n *Notifier) SendChoicePrompt(
	ctx context.Context, to kernel.Phone, body string, options []ports.ChoiceOption,
) error {
	buttons := make([]interactiveButton, 0, len(options))
	for _, option := range options {
		buttons = append(buttons, interactiveButton{
			Type:  "reply",
			Reply: buttonReply{ID: option.ID, Title: option.Title},
		})
	}

	payload := interactivePayload{
		MessagingProduct: "whatsapp",
		To:               to.String(),
		Type:             "interactive",
		Interactive: interactiveBody{
			Type:   "button",
			Body:   textBody{Body: body},
			Action: interactiveAction{Buttons: buttons},
		},
	}
	return n.post(ctx, payload)
}

func (n *Notifier) post(ctx context.Context, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+n.accessToken)

	response, err := n.client.Do(request)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return fmt.Errorf("whatsapp api returned %d: %s", response.StatusCode, detail)
	}
	return nil
}
