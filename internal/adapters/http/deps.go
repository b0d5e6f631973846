package http

import (
	"github.com/nats-io/nats.go"

	"github.com/roadbook/roadbook/internal/adapters/postgres"
	"github.com/roadbook/roadbook/internal/adapters/valkey"
	"github.com/roadbook/roadbook/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Documents  *usecases.DocumentService
	Generation *usecases.GenerationService
	Render     *usecases.RenderService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
