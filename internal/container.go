package internal

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/automigrate/internal/domain/commands"
	"github.com/rios0rios0/automigrate/internal/infrastructure/controllers"
	"github.com/rios0rios0/automigrate/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG container,
// bottom-up: infrastructure repositories -> domain commands -> controllers.
func RegisterProviders(container *dig.Container) error {
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	return container.Provide(NewAppInternal)
}
