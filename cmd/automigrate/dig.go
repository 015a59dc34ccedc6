package main

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/rios0rios0/automigrate/internal"
)

// injectAppContext builds one container for the whole process, so the run
// and repo controllers share the same lockfile cache.
func injectAppContext() (*internal.AppInternal, error) {
	container := dig.New()
	if err := internal.RegisterProviders(container); err != nil {
		return nil, fmt.Errorf("failed to register providers: %w", err)
	}

	var appContext *internal.AppInternal
	err := container.Invoke(func(resolved *internal.AppInternal) {
		appContext = resolved
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build application context: %w", dig.RootCause(err))
	}
	return appContext, nil
}
