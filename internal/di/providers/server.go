package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/gptdeskapp/gptdesk-server/internal/api"
	"github.com/gptdeskapp/gptdesk-server/internal/config"
	"github.com/gptdeskapp/gptdesk-server/internal/logger"
	"github.com/gptdeskapp/gptdesk-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	genaiHandle := do.MustInvoke[*GenAIClientHandle](i)
	pinService := do.MustInvoke[*service.PinService](i)

	handler := api.NewServer(
		&api.Services{Pin: pinService},
		storeHandle.Store,
		genaiHandle.Client,
		api.Options{
			ChatModel:   cfg.GenAI.ChatModel,
			VisionModel: cfg.GenAI.VisionModel,
			CORSOrigins: cfg.Server.CORSOrigins,
		},
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
