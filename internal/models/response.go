package models

// Response types reported by the chat endpoint
const (
	ResponseTypeText  = "text"
	ResponseTypeTable = "table"
	ResponseTypeError = "error"
)

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Query string `json:"query"`
}

// Payload is the "response" field of a chat answer, which is either
// a string or an array of row objects
type Payload struct {
	Present bool   // Field was present and not null
	IsRows  bool   // Field was a JSON array
	Text    string // String payload
	Rows    Table  // Array payload
	Raw     string // Raw JSON of the field
}

// String returns the payload as display text
func (p Payload) String() string {
	if p.IsRows {
		return p.Raw
	}
	return p.Text
}

// ChatResponse is the decoded body of a chat answer
type ChatResponse struct {
	Success   bool
	Type      string
	Response  Payload
	QueryType string
}

// IsTable reports whether the answer should be rendered as a table
func (r *ChatResponse) IsTable() bool {
	return r.Type == ResponseTypeTable && r.Response.IsRows
}

// ExamplesResponse is the decoded body of GET /api/examples
type ExamplesResponse struct {
	Examples []string `json:"examples"`
}
