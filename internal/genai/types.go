package genai

import "strings"

// Message is a single conversation turn sent to the generation API.
type Message struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one piece of a message: text or inline binary data.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inline_data,omitempty"`
}

// Blob carries base64-encoded inline data, e.g. an image for vision prompts.
type Blob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Text builds a text part.
func Text(s string) Part {
	return Part{Text: s}
}

// Image builds an inline-data part from base64-encoded bytes.
func Image(mimeType, base64Data string) Part {
	return Part{InlineData: &Blob{MIMEType: mimeType, Data: base64Data}}
}

// UserMessage builds a user-role message from parts.
func UserMessage(parts ...Part) Message {
	return Message{Role: "user", Parts: parts}
}

// GenerateRequest describes one generation call.
// GenerationConfig and SafetySettings are forwarded to the provider
// verbatim; this client adds no interpretation of its own.
type GenerateRequest struct {
	Model            string
	Contents         []Message
	GenerationConfig any
	SafetySettings   any
}

// generateBody is the provider wire format for generateContent.
type generateBody struct {
	Contents         []Message `json:"contents"`
	GenerationConfig any       `json:"generationConfig,omitempty"`
	SafetySettings   any       `json:"safetySettings,omitempty"`
}

// generateResponse is the provider wire format for a generation result
// (whole response or one streamed chunk).
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// text joins the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// errorResponse is the provider wire format for failures.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
