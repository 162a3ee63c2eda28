package api

import (
	"encoding/base64"
	"encoding/json/v2"
	"net/http"

	"github.com/gptdeskapp/gptdesk-server/internal/genai"
	"github.com/gptdeskapp/gptdesk-server/internal/http/response"
	"github.com/gptdeskapp/gptdesk-server/internal/id"
	"github.com/gptdeskapp/gptdesk-server/internal/sse"
)

// generateOptions tunes a generation call. GenerationConfig and
// SafetySettings are passed to the provider untouched.
type generateOptions struct {
	Model            string `json:"model,omitempty"`
	GenerationConfig any    `json:"generation_config,omitempty"`
	SafetySettings   any    `json:"safety_settings,omitempty"`
}

type chatRequest struct {
	Prompt  string           `json:"prompt"`
	History []genai.Message  `json:"history,omitempty"`
	Options *generateOptions `json:"options,omitempty"`
	Stream  bool             `json:"stream,omitempty"`
}

type visionRequest struct {
	Prompt      string           `json:"prompt"`
	ImageBase64 string           `json:"image_base64"`
	Options     *generateOptions `json:"options,omitempty"`
	Stream      bool             `json:"stream,omitempty"`
}

// textResponse is the non-streamed generation reply. Streamed replies
// send the same shape once per delta.
type textResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if req.Prompt == "" {
		response.BadRequest(w, "Prompt is required")
		return
	}

	contents := make([]genai.Message, 0, len(req.History)+1)
	contents = append(contents, req.History...)
	contents = append(contents, genai.UserMessage(genai.Text(req.Prompt)))

	genReq := genai.GenerateRequest{
		Model:    s.opts.ChatModel,
		Contents: contents,
	}
	applyOptions(&genReq, req.Options)

	s.logger.Info("generation request",
		"request_id", id.MustGenerate("gen"),
		"endpoint", "chat",
		"model", genReq.Model,
		"stream", req.Stream,
	)

	if req.Stream {
		s.streamGeneration(w, r, genReq)
		return
	}

	text, err := s.generator.Generate(r.Context(), genReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleVision(w http.ResponseWriter, r *http.Request) {
	var req visionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if req.Prompt == "" {
		response.BadRequest(w, "Prompt is required")
		return
	}
	if req.ImageBase64 == "" {
		response.BadRequest(w, "image_base64 is required")
		return
	}
	if _, err := base64.StdEncoding.DecodeString(req.ImageBase64); err != nil {
		response.BadRequest(w, "image_base64 is not valid base64")
		return
	}

	genReq := genai.GenerateRequest{
		Model: s.opts.VisionModel,
		Contents: []genai.Message{
			genai.UserMessage(
				genai.Text(req.Prompt),
				genai.Image("image/png", req.ImageBase64),
			),
		},
	}
	applyOptions(&genReq, req.Options)

	s.logger.Info("generation request",
		"request_id", id.MustGenerate("gen"),
		"endpoint", "vision",
		"model", genReq.Model,
		"stream", req.Stream,
	)

	if req.Stream {
		s.streamGeneration(w, r, genReq)
		return
	}

	text, err := s.generator.Generate(r.Context(), genReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, textResponse{Text: text})
}

// streamGeneration relays deltas as SSE events. The writer is created
// on the first delta so an upstream failure before any output can
// still produce a plain JSON error response.
func (s *Server) streamGeneration(w http.ResponseWriter, r *http.Request, req genai.GenerateRequest) {
	var writer *sse.Writer

	err := s.generator.GenerateStream(r.Context(), req, func(text string) error {
		if writer == nil {
			writer = sse.NewWriter(w)
		}
		return writer.SendJSON(textResponse{Text: text})
	})
	if err != nil {
		if writer == nil {
			response.HandleError(w, err)
			return
		}
		// Mid-stream failure: the client already got a 200, so all we
		// can do is log and terminate the stream.
		s.logger.Error("generation stream aborted", "model", req.Model, "error", err)
		_ = writer.SendDone()
		return
	}

	if writer == nil {
		writer = sse.NewWriter(w)
	}
	_ = writer.SendDone()
}

func applyOptions(req *genai.GenerateRequest, opts *generateOptions) {
	if opts == nil {
		return
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}
	req.GenerationConfig = opts.GenerationConfig
	req.SafetySettings = opts.SafetySettings
}
