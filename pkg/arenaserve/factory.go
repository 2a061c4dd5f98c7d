package arenaserve

import (
	"github.com/ssargent/arenatree/pkg/arenaconfig"
	"github.com/ssargent/arenatree/pkg/arenastats"
	"github.com/ssargent/arenatree/pkg/arenatree"
)

// ServerFactory builds a Server, indirected so cmd/arenatree and tests can
// substitute a fake without constructing a real tree/metrics pair.
type ServerFactory interface {
	CreateServer(config *arenaconfig.Config) (*Server, error)
}

// DefaultServerFactory constructs a Server backed by a fresh
// Tree[string, string] and, when config.Metrics.Enabled, a registered
// Metrics instance.
type DefaultServerFactory struct{}

// NewServerFactory returns the default factory.
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServer builds the tree, metrics, and Server for config.
func (f *DefaultServerFactory) CreateServer(config *arenaconfig.Config) (*Server, error) {
	tree, err := arenatree.New[string, string](config.Capacity)
	if err != nil {
		return nil, err
	}
	var metrics *arenastats.Metrics
	if config.Metrics.Enabled {
		metrics = arenastats.NewMetrics()
	}
	return NewServer(tree, config, metrics), nil
}
