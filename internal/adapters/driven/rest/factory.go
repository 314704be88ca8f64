package rest

import (
	"context"
	"fmt"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ClientFactory = (*Factory)(nil)

// Factory selects REST clients by name. Each registered name carries a base
// configuration; per-call client options overlay its query parameters.
type Factory struct {
	configs     map[string]Config
	defaultName string
}

// NewFactory creates a client factory over the given named configurations.
// defaultName selects the client used when a sync names none.
func NewFactory(configs map[string]Config, defaultName string) *Factory {
	return &Factory{
		configs:     configs,
		defaultName: defaultName,
	}
}

// Client resolves the remote client serving the sync. An explicit cfg wins
// over the sync definition's own client selection, which wins over the
// factory default.
func (f *Factory) Client(ctx context.Context, sync *domain.SyncDefinition, cfg *domain.ClientConfig) (driven.RemoteClient, error) {
	selection := cfg
	if selection == nil && sync != nil {
		selection = sync.Remote.Client
	}

	name := f.defaultName
	if selection != nil && selection.Name != "" {
		name = selection.Name
	}

	base, ok := f.configs[name]
	if !ok {
		return nil, fmt.Errorf("unknown remote client %q: %w", name, domain.ErrConfiguration)
	}

	if selection != nil && len(selection.Options) > 0 {
		params := make(map[string]string, len(base.Params)+len(selection.Options))
		for k, v := range base.Params {
			params[k] = v
		}
		for k, v := range selection.Options {
			params[k] = v
		}
		base.Params = params
	}

	return NewClient(base), nil
}
