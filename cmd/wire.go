package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	apiadapter "github.com/mkossman/noted-cli/internal/adapters/api"
	"github.com/mkossman/noted-cli/internal/adapters/session"
	"github.com/mkossman/noted-cli/internal/application"
	"github.com/mkossman/noted-cli/internal/ports"
)

type app struct {
	store      *session.Store
	bus        *application.Bus
	clock      ports.Clock
	httpClient *http.Client
	debug      *bool
}

func wireApp(debug *bool) (*app, error) {
	store, err := session.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	return &app{
		store:      store,
		bus:        application.NewBus(),
		clock:      ports.SystemClock{},
		httpClient: http.DefaultClient,
		debug:      debug,
	}, nil
}

// logger is resolved per command run, after cobra has parsed the --debug
// flag.
func (a *app) logger() *zap.Logger {
	if a.debug != nil && *a.debug {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (a *app) apiClient() *apiadapter.Client {
	client := apiadapter.NewClient(a.store, a.bus, a.logger())
	client.HTTPClient = a.httpClient
	return client
}

func (a *app) controller() *application.Controller {
	return application.NewController(a.apiClient(), a.store, a.bus, a.clock, a.logger())
}
