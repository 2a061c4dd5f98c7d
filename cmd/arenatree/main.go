package main

import (
	"github.com/ssargent/arenatree/cmd/arenatree/cmd"
	"github.com/ssargent/arenatree/pkg/di"
)

func main() {
	container := di.NewContainer()
	cmd.SetContainer(container)
	cmd.Execute()
}
