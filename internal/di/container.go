// Package di provides dependency injection configuration for the GPTDesk server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/gptdeskapp/gptdesk-server/internal/catalog"
	"github.com/gptdeskapp/gptdesk-server/internal/config"
	"github.com/gptdeskapp/gptdesk-server/internal/di/providers"
	"github.com/gptdeskapp/gptdesk-server/internal/logger"
	"github.com/gptdeskapp/gptdesk-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Generation layer
	do.Provide(injector, providers.ProvideGenAIClient)

	// Business services
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvidePinService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.GenAIClientHandle](injector)
	_ = do.MustInvoke[*catalog.Catalog](injector)
	_ = do.MustInvoke[*service.PinService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
