package api

import "encoding/json"

// RenderContext is the wire form of the record sent alongside a payload.
// Binary assets are base64 encoded.
type RenderContext struct {
	Registration string            `json:"registration"`
	DateOfCheck  string            `json:"date_of_check,omitempty"` // YYYY-MM-DD
	Reference    string            `json:"reference,omitempty"`
	Premium      bool              `json:"premium"`
	Package      string            `json:"package,omitempty"`
	Logo         []byte            `json:"logo,omitempty"`
	Images       map[string][]byte `json:"images,omitempty"`
}

type RenderRequest struct {
	Context RenderContext   `json:"context"`
	Payload json.RawMessage `json:"payload"`
}

type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type Section struct {
	Doc        string   `json:"doc"`
	Title      string   `json:"title"`
	Candidates []string `json:"candidates"`
	Free       bool     `json:"free"`
}

type Formats struct {
	Formats []string `json:"formats"`
}

type Error struct {
	Error string `json:"error"`
}
