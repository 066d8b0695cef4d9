//go:build wireinject

package di

import (
	"github.com/google/wire"
)

// InitializeApp wires the client components together. The returned
// cleanup closes the store and the log file.
func InitializeApp(o Overrides) (*App, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideStore,
		provideEventRepo,
		provideTokenStore,
		provideClient,
		provideServices,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
