// Package yatgtypes holds the subset of the Telegram Bot API object model the webhook
// ingests and the dispatcher routes on.
package yatgtypes

import "github.com/goccy/go-json"

// Kind names the payload variant carried by an Update.
type Kind string

const (
	KindMessage           Kind = "message"
	KindEditedMessage     Kind = "edited_message"
	KindChannelPost       Kind = "channel_post"
	KindEditedChannelPost Kind = "edited_channel_post"
	KindCallbackQuery     Kind = "callback_query"
	KindUnknown           Kind = "unknown"
)

// Update is one inbound event. Exactly one payload pointer is set for known kinds;
// unknown kinds keep the whole object in Raw.
type Update struct {
	ID                int64          `json:"update_id"`
	Message           *Message       `json:"message,omitempty"`
	EditedMessage     *Message       `json:"edited_message,omitempty"`
	ChannelPost       *Message       `json:"channel_post,omitempty"`
	EditedChannelPost *Message       `json:"edited_channel_post,omitempty"`
	CallbackQuery     *CallbackQuery `json:"callback_query,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type Message struct {
	MessageID      int64    `json:"message_id"`
	Date           int64    `json:"date"`
	Chat           Chat     `json:"chat"`
	From           *User    `json:"from,omitempty"`
	Text           string   `json:"text,omitempty"`
	Caption        string   `json:"caption,omitempty"`
	ReplyToMessage *Message `json:"reply_to_message,omitempty"`
}

type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// BotCommand is one entry of the command menu published with setMyCommands.
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// Kind classifies the update by its payload.
func (u *Update) Kind() Kind {
	switch {
	case u.Message != nil:
		return KindMessage
	case u.EditedMessage != nil:
		return KindEditedMessage
	case u.ChannelPost != nil:
		return KindChannelPost
	case u.EditedChannelPost != nil:
		return KindEditedChannelPost
	case u.CallbackQuery != nil:
		return KindCallbackQuery
	default:
		return KindUnknown
	}
}

// EffectiveMessage returns the message the update is about, if any. For callback
// queries it is the message the pressed button belongs to.
func (u *Update) EffectiveMessage() *Message {
	switch u.Kind() {
	case KindMessage:
		return u.Message
	case KindEditedMessage:
		return u.EditedMessage
	case KindChannelPost:
		return u.ChannelPost
	case KindEditedChannelPost:
		return u.EditedChannelPost
	case KindCallbackQuery:
		return u.CallbackQuery.Message
	default:
		return nil
	}
}

// EffectiveChat returns the chat of EffectiveMessage.
func (u *Update) EffectiveChat() *Chat {
	if msg := u.EffectiveMessage(); msg != nil {
		return &msg.Chat
	}

	return nil
}

// EffectiveUser returns the sender of the update, if known.
func (u *Update) EffectiveUser() *User {
	if u.CallbackQuery != nil {
		return &u.CallbackQuery.From
	}

	if msg := u.EffectiveMessage(); msg != nil {
		return msg.From
	}

	return nil
}

// Content returns the text of the message, falling back to the media caption.
func (m *Message) Content() string {
	if m.Text != "" {
		return m.Text
	}

	return m.Caption
}
