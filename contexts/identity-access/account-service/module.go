package accountservice

import (
	"log/slog"
	"time"

	httpadapter "servhub/contexts/identity-access/account-service/adapters/http"
	"servhub/contexts/identity-access/account-service/adapters/memory"
	passwordadapter "servhub/contexts/identity-access/account-service/adapters/password"
	tokenadapter "servhub/contexts/identity-access/account-service/adapters/token"
	"servhub/contexts/identity-access/account-service/application"
	"servhub/contexts/identity-access/account-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Repository  ports.Repository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenCodec
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Hasher:      deps.Hasher,
		Tokens:      deps.Tokens,
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

// NewInMemoryModule wires accounts against in-memory adapters for local
// runs and tests.
func NewInMemoryModule(secret []byte, logger *slog.Logger) Module {
	store := memory.NewStore()
	return NewModule(Dependencies{
		Repository:  store,
		Hasher:      passwordadapter.BcryptHasher{},
		Tokens:      tokenadapter.JWTCodec{Secret: secret, TTL: time.Hour},
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
}
