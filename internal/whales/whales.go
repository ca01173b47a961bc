// Package whales provides a client for a container engine which is controlled through its CLI.
package whales

import (
	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/network"
	"github.com/KonishchevDmitry/whales/internal/system"
	"github.com/KonishchevDmitry/whales/internal/volume"
)

type Client struct {
	Volume  *volume.Client
	Network *network.Client
	System  *system.Client
}

func New(caller *engine.Caller) *Client {
	return &Client{
		Volume:  volume.NewClient(caller),
		Network: network.NewClient(caller),
		System:  system.NewClient(caller),
	}
}

// NewDefault creates a client which runs the engine with the specified global options via the real runner.
func NewDefault(engineCommand string, options engine.GlobalOptions, callerOptions ...engine.CallerOption) (*Client, error) {
	prefix, err := engine.ParsePrefix(engineCommand, options)
	if err != nil {
		return nil, err
	}
	return New(engine.NewCaller(engine.NewRunner(), prefix, callerOptions...)), nil
}
