package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository/memory"
	"github.com/mamadbah2/dairyflow/internal/service/commands"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/records"
	"github.com/mamadbah2/dairyflow/internal/service/reporting"
)

type recordingNotifier struct {
	sent []models.OutboundMessage
}

func (r *recordingNotifier) Notify(ctx context.Context, message string) error {
	return r.Send(ctx, models.OutboundMessage{Message: message})
}

func (r *recordingNotifier) Send(_ context.Context, msg models.OutboundMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

type stubHandler struct {
	calls int
	err   error
}

func (s *stubHandler) HandleCommand(_ context.Context, cmd models.Command, sender string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("%s from %s", cmd.Type, sender), nil
}

func textPayload(id, from, body string) models.WebhookPayload {
	return models.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []models.WebhookEntry{{
			Changes: []models.WebhookChange{{
				Field: "messages",
				Value: models.WebhookValue{Messages: []models.InboundMessage{{
					ID: id, From: from, Type: "text", Text: &models.TextContent{Body: body},
				}}},
			}},
		}},
	}
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := NewService("s3cret", nil, &stubHandler{}, &recordingNotifier{}, nil)

	got, err := svc.VerifyWebhookToken("subscribe", "s3cret", "12345")
	if err != nil || got != "12345" {
		t.Fatalf("VerifyWebhookToken = %q, %v", got, err)
	}
	if _, err := svc.VerifyWebhookToken("subscribe", "wrong", "1"); err == nil {
		t.Fatalf("expected invalid token error")
	}
	if _, err := svc.VerifyWebhookToken("unsubscribe", "s3cret", "1"); err == nil {
		t.Fatalf("expected unsupported mode error")
	}
}

func TestHandleWebhookRepliesOnceToSender(t *testing.T) {
	handler := &stubHandler{}
	notifier := &recordingNotifier{}
	svc := NewService("tok", []string{"+221 77 000 0000"}, handler, notifier, nil)
	payload := textPayload("wamid.1", "221770000000", "/summary")

	for i := 0; i < 2; i++ {
		if err := svc.HandleWebhook(context.Background(), payload); err != nil {
			t.Fatalf("HandleWebhook: %v", err)
		}
	}
	if handler.calls != 1 || len(notifier.sent) != 1 {
		t.Fatalf("redelivery must be ignored: calls=%d sent=%d", handler.calls, len(notifier.sent))
	}
	if notifier.sent[0].To != "221770000000" || notifier.sent[0].Message != "summary from 221770000000" {
		t.Fatalf("unexpected reply %+v", notifier.sent[0])
	}
}

func TestHandleWebhookExplainsErrors(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := &stubHandler{err: fmt.Errorf("%w, usage: /milk", commands.ErrInvalidArguments)}
	svc := NewService("tok", []string{"1"}, handler, notifier, nil)

	if err := svc.HandleWebhook(context.Background(), textPayload("a", "1", "/milk")); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if !strings.Contains(notifier.sent[0].Message, "usage: /milk") {
		t.Fatalf("unexpected reply %q", notifier.sent[0].Message)
	}

	handler.err = errors.New("store offline")
	if err := svc.HandleWebhook(context.Background(), textPayload("b", "1", "/milk")); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if notifier.sent[1].Message != failureReply {
		t.Fatalf("internal errors should get the generic reply, got %q", notifier.sent[1].Message)
	}
}

func TestHandleWebhookRejectsUnregisteredSender(t *testing.T) {
	handler := &stubHandler{}
	notifier := &recordingNotifier{}
	svc := NewService("tok", []string{"224600000000"}, handler, notifier, nil)

	if err := svc.HandleWebhook(context.Background(), textPayload("x", "999", "/expense 5000 fraud")); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if handler.calls != 0 {
		t.Fatalf("command from unregistered sender reached the handler")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].To != "999" || notifier.sent[0].Message != unknownReply {
		t.Fatalf("unexpected replies %+v", notifier.sent)
	}
}

func TestUnregisteredSenderCannotAppendRecords(t *testing.T) {
	ctx := context.Background()
	store := records.NewService(memory.NewStore(), ingestion.New(), nil)
	if _, err := store.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	before, _ := store.Transactions(ctx, records.TransactionFilter{})
	dispatcher := commands.NewDispatcher(store, reporting.NewService(store, nil), time.UTC, nil)
	svc := NewService("tok", []string{"224600000000"}, dispatcher, &recordingNotifier{}, nil)

	if err := svc.HandleWebhook(ctx, textPayload("wamid.x", "999", "/expense 5000 fraud")); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	after, _ := store.Transactions(ctx, records.TransactionFilter{})
	if len(after) != len(before) {
		t.Fatalf("unregistered sender appended a transaction: %d -> %d", len(before), len(after))
	}

	if err := svc.HandleWebhook(ctx, textPayload("wamid.y", "224600000000", "/expense 5000 fuel")); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	after, _ = store.Transactions(ctx, records.TransactionFilter{})
	if len(after) != len(before)+1 {
		t.Fatalf("registered sender should append a transaction: %d -> %d", len(before), len(after))
	}
}

func TestMessageTrackerExpiry(t *testing.T) {
	tr := NewMessageTracker(time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !tr.MarkSeen("m", now) || tr.MarkSeen("m", now.Add(time.Minute)) {
		t.Fatalf("second delivery within ttl should be rejected")
	}
	tr.Prune(now.Add(2 * time.Hour))
	if len(tr.seen) != 0 {
		t.Fatalf("expired id should be forgotten")
	}
	if !tr.MarkSeen("m", now.Add(2*time.Hour)) {
		t.Fatalf("expired id should be accepted again")
	}
}
