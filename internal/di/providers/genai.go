package providers

import (
	"github.com/samber/do/v2"

	"github.com/gptdeskapp/gptdesk-server/internal/config"
	"github.com/gptdeskapp/gptdesk-server/internal/genai"
	"github.com/gptdeskapp/gptdesk-server/internal/logger"
)

// GenAIClientHandle wraps the generation client with shutdown capability.
type GenAIClientHandle struct {
	*genai.Client
}

// Shutdown implements do.Shutdownable.
func (h *GenAIClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideGenAIClient provides the generation API client.
func ProvideGenAIClient(i do.Injector) (*GenAIClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.GenAI.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set; generation endpoints will return errors")
	}

	client := genai.New(genai.Config{
		APIKey:  cfg.GenAI.APIKey,
		BaseURL: cfg.GenAI.BaseURL,
		Timeout: cfg.GenAI.Timeout,
		RPS:     cfg.GenAI.RPS,
		Burst:   cfg.GenAI.Burst,
	}, log.Logger)

	return &GenAIClientHandle{Client: client}, nil
}
