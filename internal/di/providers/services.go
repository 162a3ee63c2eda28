package providers

import (
	"github.com/samber/do/v2"

	"github.com/gptdeskapp/gptdesk-server/internal/catalog"
	"github.com/gptdeskapp/gptdesk-server/internal/config"
	"github.com/gptdeskapp/gptdesk-server/internal/logger"
	"github.com/gptdeskapp/gptdesk-server/internal/service"
)

// ProvideCatalog provides the built-in GPT catalog.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	return catalog.Default(), nil
}

// ProvidePinService provides the pin business service.
func ProvidePinService(i do.Injector) (*service.PinService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cat := do.MustInvoke[*catalog.Catalog](i)

	return service.NewPinService(
		storeHandle.Store,
		cat,
		cfg.Pins.ConfigVersion,
		cfg.Pins.DefaultPinID,
		log.Logger,
	), nil
}
