package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	client "github.com/mamadbah2/dairyflow/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

func TestWhatsAppNotifyUsesDefaultRecipient(t *testing.T) {
	fc := &fakeClient{}
	n := NewWhatsApp(fc, "224600000001", nil)

	if err := n.Notify(context.Background(), "Calving due"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if err := n.Send(context.Background(), models.OutboundMessage{To: "224600000002", Message: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(fc.sent) != 2 || fc.sent[0].To != "224600000001" || fc.sent[1].To != "224600000002" {
		t.Fatalf("unexpected deliveries %+v", fc.sent)
	}
}

func TestWhatsAppSendFailures(t *testing.T) {
	n := NewWhatsApp(&fakeClient{}, "", nil)
	if err := n.Notify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without recipient")
	}

	boom := errors.New("boom")
	n = NewWhatsApp(&fakeClient{err: boom}, "1", nil)
	if err := n.Notify(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func TestNopDiscards(t *testing.T) {
	if err := NewNop(nil).Send(context.Background(), models.OutboundMessage{Message: "x"}); err != nil {
		t.Fatalf("Nop.Send: %v", err)
	}
}
