// Package models contains data types for the Samarth chat client.
package models

import "time"

// Sender identifies who produced a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind selects how a message body is rendered
type Kind string

const (
	KindText  Kind = "text"
	KindTable Kind = "table"
)

// Message represents one turn in the chat log.
// Messages are appended to the log and never mutated afterwards.
type Message struct {
	ID        string
	Sender    Sender
	Kind      Kind
	Text      string // Body for KindText
	Rows      Table  // Body for KindTable
	Error     bool   // Rendered with the error marker
	CreatedAt time.Time
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsTable reports whether the message renders as a table
func (m Message) IsTable() bool {
	return m.Kind == KindTable
}

// PlainText returns a text rendition of the message body,
// used for clipboard and file output
func (m Message) PlainText() string {
	if m.Kind == KindTable {
		return m.Rows.TSV()
	}
	return m.Text
}
