// Package carts provides shopping cart functionality.
// This is the public API for the carts bounded context.
package carts

import (
	"net/http"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/application/commands"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	httphandler "github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/infrastructure/http"
)

// Module is the public API for the carts bounded context.
type Module interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Config holds the module configuration.
type Config struct {
	Repository domain.CartRepository
}

type module struct {
	createCartHandler *commands.CreateCartHandler
	addItemHandler    *commands.AddItemHandler
}

// New creates a new carts module.
func New(cfg Config) Module {
	return &module{
		createCartHandler: commands.NewCreateCartHandler(cfg.Repository),
		addItemHandler:    commands.NewAddItemHandler(cfg.Repository),
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux) {
	httphandler.RegisterRoutes(mux, m.createCartHandler, m.addItemHandler)
}
