package models

// OutboundMessage is a notification pushed to the farm team's messaging channel.
type OutboundMessage struct {
	To         string `json:"to"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
