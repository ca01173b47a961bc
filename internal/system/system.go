package system

import (
	"context"

	"github.com/samber/mo"

	"github.com/KonishchevDmitry/whales/internal/engine"
)

type ComponentVersion struct {
	Version    string
	APIVersion string
	OS         string `json:"Os"`
	Arch       string
}

// Version holds engine versions. Server version is absent when the engine daemon isn't reachable or the engine has no
// daemon at all.
type Version struct {
	Client ComponentVersion
	Server mo.Option[ComponentVersion]
}

type versionOutput struct {
	Client *ComponentVersion
	Server *ComponentVersion
}

type Client struct {
	caller *engine.Caller
}

func NewClient(caller *engine.Caller) *Client {
	return &Client{caller: caller}
}

func (c *Client) Version(ctx context.Context) (Version, error) {
	command := c.caller.Command("version", "--format", "{{json .}}")

	output, err := c.caller.Run(ctx, command)
	if err != nil {
		return Version{}, err
	}

	info, err := engine.Decode[versionOutput](command, output)
	if err != nil {
		return Version{}, err
	}

	var version Version
	if info.Client != nil {
		version.Client = *info.Client
	}
	if info.Server != nil && info.Server.Version != "" {
		version.Server = mo.Some(*info.Server)
	}

	return version, nil
}
