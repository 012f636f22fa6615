package models

// WebhookPayload is the body of a WhatsApp Cloud API webhook callback.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry groups the changes for one business account.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange is one notification inside an entry.
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue holds inbound messages and delivery statuses. Only messages are acted on.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []WebhookContact `json:"contacts"`
	Messages         []InboundMessage `json:"messages"`
	Statuses         []MessageStatus  `json:"statuses"`
}

// WebhookContact identifies the farm worker who wrote in.
type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// InboundMessage is a message sent to the farm's business number.
type InboundMessage struct {
	ID          string              `json:"id"`
	From        string              `json:"from"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent is the body of a plain text message.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent carries a button or list reply.
type InteractiveContent struct {
	Type        string      `json:"type"`
	ButtonReply *ReplyToken `json:"button_reply,omitempty"`
	ListReply   *ReplyToken `json:"list_reply,omitempty"`
}

// ReplyToken is the selected option of an interactive message.
type ReplyToken struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MessageStatus is a delivery or read receipt.
type MessageStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// Body returns the command text of the message, or "" for unsupported message types.
func (m InboundMessage) Body() string {
	if m.Text != nil {
		return m.Text.Body
	}
	if m.Interactive != nil {
		if m.Interactive.ButtonReply != nil {
			return m.Interactive.ButtonReply.ID
		}
		if m.Interactive.ListReply != nil {
			return m.Interactive.ListReply.ID
		}
	}
	return ""
}
