package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/flows"
)

// TurnProcessor is the slice of the dialogue engine the webhook needs.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, phone kernel.Phone, turn flows.Turn) error
}

// Webhook receives WhatsApp Cloud API callbacks and feeds them into the
// dialogue engine. The channel retries on non-200 responses, so inbound
// processing errors are logged and acknowledged rather than surfaced.
type Webhook struct {
	engine      TurnProcessor
	verifyToken string
	logger      *slog.Logger
}

// NewWebhook creates the webhook adapter.
func NewWebhook(engine TurnProcessor, verifyToken string, logger *slog.Logger) *Webhook {
	return &Webhook{engine: engine, verifyToken: verifyToken, logger: logger}
}

// RegisterRoutes mounts the webhook endpoints on an echo instance.
func (w *Webhook) RegisterRoutes(e *echo.Echo) {
	e.GET("/webhook", w.Verify)
	e.POST("/webhook", w.Receive)
}

// Verify handles the channel's subscription handshake.
func (w *Webhook) Verify(ctx echo.Context) error {
	mode := ctx.QueryParam("hub.mode")
	token := ctx.QueryParam("hub.verify_token")
	if mode != "subscribe" || token != w.verifyToken {
		return ctx.NoContent(http.StatusForbidden)
	}
	return ctx.String(http.StatusOK, ctx.QueryParam("hub.challenge"))
}

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []webhookMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		ButtonReply *struct {
			ID string `json:"id"`
		} `json:"button_reply"`
	} `json:"interactive"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// Receive handles inbound message callbacks. Every message in the batch runs
// through the engine; failures are logged per message and the batch is
// acknowledged regardless.
func (w *Webhook) Receive(ctx echo.Context) error {
	var payload webhookPayload
	if err := ctx.Bind(&payload); err != nil {
		w.logger.Warn("unreadable webhook payload", "error", err)
		return ctx.NoContent(http.StatusOK)
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, message := range change.Value.Messages {
				w.handleMessage(ctx.Request().Context(), message)
			}
		}
	}
	return ctx.NoContent(http.StatusOK)
}

func (w *Webhook) handleMessage(ctx context.Context, message webhookMessage) {
	phone, err := kernel.NewPhone(message.From)
	if err != nil {
		w.logger.Warn("webhook message with invalid sender", "from", message.From, "error", err)
		return
	}

	turn := turnFromMessage(message)
	if err := w.engine.ProcessTurn(ctx, phone, turn); err != nil {
		w.logger.Error("turn processing failed", "phone", phone.String(), "error", err)
	}
}

func turnFromMessage(message webhookMessage) flows.Turn {
	var turn flows.Turn
	switch message.Type {
	case "text":
		if message.Text != nil {
			turn.Text = message.Text.Body
		}
	case "interactive":
		if message.Interactive != nil && message.Interactive.ButtonReply != nil {
			turn.ButtonID = message.Interactive.ButtonReply.ID
		}
	case "location":
		if message.Location != nil {
			latitude := message.Location.Latitude
			longitude := message.Location.Longitude
			turn.Latitude = &latitude
			turn.Longitude = &longitude
		}
	}
	return turn
}
