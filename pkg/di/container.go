// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/arenatree/pkg/arenaserve" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory arenaserve.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: arenaserve.NewServerFactory(),
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() arenaserve.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory arenaserve.ServerFactory) {
	c.serverFactory = factory
}
