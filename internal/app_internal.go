package internal

import (
	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// AppInternal holds the fully wired application: every CLI controller,
// resolved with its command and infrastructure dependencies.
type AppInternal struct {
	controllers *[]entities.Controller
}

// NewAppInternal creates the application context from the aggregated controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: controllers}
}

// GetControllers returns all registered controllers.
func (it *AppInternal) GetControllers() []entities.Controller {
	return *it.controllers
}
