package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/samarth-qa/samarth/internal/models"
)

// CSS classes shared with the web front end
const (
	ClassMessage      = "message"
	ClassUserMessage  = "user-message"
	ClassBotMessage   = "bot-message"
	ClassContent      = "message-content"
	ClassText         = "message-text"
	ClassError        = "error-message"
	ClassTable        = "data-table"
	ClassLoading      = "loading"
	ClassChatMessages = "chat-messages"

	LoadingID = "loadingMessage"
)

// HTMLRenderer builds message bubbles as HTML node trees. All text is
// inserted as text nodes, so backend content is always escaped.
type HTMLRenderer struct {
	numbers *NumberFormatter
}

// NewHTMLRenderer returns a renderer formatting numbers for locale
func NewHTMLRenderer(locale string) *HTMLRenderer {
	return &HTMLRenderer{numbers: NewNumberFormatter(locale)}
}

// MessageNode builds the bubble for m
func (r *HTMLRenderer) MessageNode(m models.Message) *html.Node {
	textClass := ClassText
	if m.Error {
		textClass += " " + ClassError
	}

	body := elem(atom.Div, textClass)
	if m.IsTable() {
		body.AppendChild(r.tableNode(m.Rows))
	} else {
		body.AppendChild(paragraph(m.Text))
	}

	return bubble(m.IsUser(), "", body)
}

// LoadingNode builds the transient "typing" bubble
func (r *HTMLRenderer) LoadingNode() *html.Node {
	dots := elem(atom.Div, ClassLoading)
	for i := 0; i < 3; i++ {
		dots.AppendChild(elem(atom.Span, ""))
	}
	return bubble(false, LoadingID, elem(atom.Div, ClassText, dots))
}

// RenderMessage writes the HTML for one message
func (r *HTMLRenderer) RenderMessage(w io.Writer, m models.Message) error {
	return html.Render(w, r.MessageNode(m))
}

// RenderTranscript writes all messages inside the message list container
func (r *HTMLRenderer) RenderTranscript(w io.Writer, messages []models.Message) error {
	list := elem(atom.Div, ClassChatMessages)
	list.Attr = append(list.Attr, html.Attribute{Key: "id", Val: "chatMessages"})
	for _, m := range messages {
		list.AppendChild(r.MessageNode(m))
	}
	return html.Render(w, list)
}

// MessageHTML is RenderMessage into a string
func (r *HTMLRenderer) MessageHTML(m models.Message) string {
	var b strings.Builder
	if err := r.RenderMessage(&b, m); err != nil {
		return ""
	}
	return b.String()
}

func (r *HTMLRenderer) tableNode(rows models.Table) *html.Node {
	data := BuildTable(rows, r.numbers)
	if data.Empty() {
		return elem(atom.P, "", text(NoDataText))
	}

	headRow := elem(atom.Tr, "")
	for _, h := range data.Headers {
		headRow.AppendChild(elem(atom.Th, "", text(h)))
	}

	tbody := elem(atom.Tbody, "")
	for _, cells := range data.Rows {
		tr := elem(atom.Tr, "")
		for _, c := range cells {
			tr.AppendChild(elem(atom.Td, "", text(c)))
		}
		tbody.AppendChild(tr)
	}

	return elem(atom.Table, ClassTable, elem(atom.Thead, "", headRow), tbody)
}

// bubble wraps content with the avatar column
func bubble(user bool, id string, content *html.Node) *html.Node {
	side, avatarSide, icon := ClassBotMessage, "bot-avatar", "fa-robot"
	if user {
		side, avatarSide, icon = ClassUserMessage, "user-avatar", "fa-user"
	}

	root := elem(atom.Div, ClassMessage+" "+side)
	if id != "" {
		root.Attr = append(root.Attr, html.Attribute{Key: "id", Val: id})
	}

	avatar := elem(atom.Div, "avatar "+avatarSide, elem(atom.I, "fas "+icon))
	root.AppendChild(elem(atom.Div, ClassContent, avatar, content))
	return root
}

// paragraph renders text with each "\n" turned into <br>
func paragraph(s string) *html.Node {
	p := elem(atom.P, "")
	for i, line := range Lines(s) {
		if i > 0 {
			p.AppendChild(elem(atom.Br, ""))
		}
		if line != "" {
			p.AppendChild(text(line))
		}
	}
	return p
}

func elem(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
