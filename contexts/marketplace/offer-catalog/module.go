package offercatalog

import (
	"log/slog"

	httpadapter "servhub/contexts/marketplace/offer-catalog/adapters/http"
	"servhub/contexts/marketplace/offer-catalog/adapters/memory"
	"servhub/contexts/marketplace/offer-catalog/application"
	"servhub/contexts/marketplace/offer-catalog/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Repository  ports.Repository
	Dependents  []ports.Dependent
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Dependents:  deps.Dependents,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule wires the catalog against in-memory adapters for
// local runs and tests. Dependents receive offer-scoped cleanup when an
// offer is deleted.
func NewInMemoryModule(logger *slog.Logger, dependents ...ports.Dependent) Module {
	store := memory.NewStore()
	return NewModule(Dependencies{
		Repository:  store,
		Dependents:  dependents,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
}
