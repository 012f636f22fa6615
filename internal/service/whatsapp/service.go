// Package whatsapp handles the WhatsApp webhook: verification and inbound chat commands.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/service/commands"
	"github.com/mamadbah2/dairyflow/internal/service/notify"
)

const (
	seenMessageTTL = 24 * time.Hour
	failureReply   = "Something went wrong while saving. Please try again later."
	unknownReply   = "Sorry, this number is not registered with the farm. Ask the farm manager to add it."
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, msg models.OutboundMessage) error
}

// CommandHandler executes a parsed chat command.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service routes webhook messages to the command dispatcher and replies to the sender.
type Service struct {
	verifyToken string
	allowed     map[string]struct{}
	commands    CommandHandler
	notifier    notify.Notifier
	seen        *MessageTracker
	logger      *zap.Logger
}

// NewService wires the webhook service. Only messages from allowedSenders reach the
// command handler.
func NewService(verifyToken string, allowedSenders []string, handler CommandHandler, notifier notify.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewNop(logger)
	}
	allowed := make(map[string]struct{}, len(allowedSenders))
	for _, number := range allowedSenders {
		if number = normalizeNumber(number); number != "" {
			allowed[number] = struct{}{}
		}
	}
	return &Service{
		verifyToken: verifyToken,
		allowed:     allowed,
		commands:    handler,
		notifier:    notifier,
		seen:        NewMessageTracker(seenMessageTTL),
		logger:      logger,
	}
}

// VerifyWebhookToken validates the callback verification handshake.
func (s *Service) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}
	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}
	if s.verifyToken == "" || verifyToken != s.verifyToken {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

// HandleWebhook processes every inbound message of payload. Status callbacks are ignored
// and redelivered messages are skipped.
func (s *Service) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}
	s.seen.Prune(time.Now())
	return firstErr
}

func (s *Service) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if msg.ID != "" && !s.seen.MarkSeen(msg.ID, time.Now()) {
		s.logger.Debug("skipping redelivered message", zap.String("message_id", msg.ID))
		return nil
	}

	text := msg.Body()
	if text == "" {
		s.logger.Debug("ignoring unsupported message type", zap.String("type", msg.Type))
		return nil
	}

	if _, ok := s.allowed[normalizeNumber(msg.From)]; !ok {
		s.logger.Warn("rejected message from unregistered sender", zap.String("from", msg.From), zap.String("message_id", msg.ID))
		if err := s.notifier.Send(ctx, models.OutboundMessage{To: msg.From, Message: unknownReply}); err != nil {
			return fmt.Errorf("reply to %s: %w", msg.From, err)
		}
		return nil
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := s.commands.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		explained, ok := commands.Explain(err)
		if !ok {
			s.logger.Error("command failed", zap.Error(err), zap.String("command", string(cmd.Type)))
			explained = failureReply
		}
		reply = explained
	}

	if sendErr := s.notifier.Send(ctx, models.OutboundMessage{To: msg.From, Message: reply}); sendErr != nil {
		return fmt.Errorf("reply to %s: %w", msg.From, sendErr)
	}
	return nil
}

// normalizeNumber strips formatting so "+224 600-000" matches the "224600000" Meta sends.
func normalizeNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
}

// SendOutbound lets operators push a message through the farm's channel.
func (s *Service) SendOutbound(ctx context.Context, msg models.OutboundMessage) error {
	return s.notifier.Send(ctx, msg)
}
