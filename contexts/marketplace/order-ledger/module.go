package orderledger

import (
	"log/slog"

	httpadapter "servhub/contexts/marketplace/order-ledger/adapters/http"
	"servhub/contexts/marketplace/order-ledger/adapters/memory"
	"servhub/contexts/marketplace/order-ledger/application"
	"servhub/contexts/marketplace/order-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Repository  ports.Repository
	Offers      ports.OfferResolver
	Policy      ports.TransitionPolicy
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Offers:      deps.Offers,
		Policy:      deps.Policy,
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

// NewInMemoryModule wires the ledger against in-memory adapters for
// local runs and tests. The resolver still comes from the caller so the
// catalog module backing it can share its store with the catalog routes.
func NewInMemoryModule(offers ports.OfferResolver, logger *slog.Logger) Module {
	store := memory.NewStore()
	return NewModule(Dependencies{
		Repository:  store,
		Offers:      offers,
		Policy:      ports.DefaultTransitionPolicy(),
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
}
