// Package notify pushes farm notifications to the team's messaging channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	client "github.com/mamadbah2/dairyflow/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Notifier delivers outbound messages.
type Notifier interface {
	// Notify sends message to the default farm recipient.
	Notify(ctx context.Context, message string) error
	// Send delivers an explicit outbound message.
	Send(ctx context.Context, msg models.OutboundMessage) error
}

// WhatsApp delivers notifications through the WhatsApp Cloud API.
type WhatsApp struct {
	client    client.Client
	recipient string
	logger    *zap.Logger
}

// NewWhatsApp wires a WhatsApp notifier sending to recipient by default.
func NewWhatsApp(c client.Client, recipient string, logger *zap.Logger) *WhatsApp {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsApp{client: c, recipient: recipient, logger: logger}
}

// Notify sends message to the configured farm recipient.
func (w *WhatsApp) Notify(ctx context.Context, message string) error {
	return w.Send(ctx, models.OutboundMessage{To: w.recipient, Message: message})
}

// Send delivers msg; an empty recipient falls back to the farm recipient.
func (w *WhatsApp) Send(ctx context.Context, msg models.OutboundMessage) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		to = w.recipient
	}
	if to == "" {
		return errors.New("no recipient for outbound message")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := w.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       msg.Message,
		PreviewURL: msg.PreviewURL,
	})
	if err != nil {
		w.logger.Error("outbound message failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("notify %s: %w", to, err)
	}

	if len(resp.Messages) > 0 {
		w.logger.Debug("outbound message sent", zap.String("to", to), zap.String("message_id", resp.Messages[0].ID))
	}
	return nil
}

// Nop drops every message. It is used when no messaging channel is configured.
type Nop struct {
	logger *zap.Logger
}

// NewNop builds a notifier that only logs.
func NewNop(logger *zap.Logger) *Nop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Nop{logger: logger}
}

// Notify logs and discards message.
func (n *Nop) Notify(_ context.Context, message string) error {
	n.logger.Debug("notification dropped, no channel configured", zap.Int("length", len(message)))
	return nil
}

// Send logs and discards msg.
func (n *Nop) Send(ctx context.Context, msg models.OutboundMessage) error {
	return n.Notify(ctx, msg.Message)
}
