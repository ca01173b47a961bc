package volume

import (
	"context"
	"maps"
	"time"

	dockervolume "github.com/docker/docker/api/types/volume"
	"github.com/samber/mo"
	"golang.org/x/xerrors"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/resource"
)

type InspectResult struct {
	CreatedAt  time.Time
	Driver     string
	Labels     map[string]string
	Mountpoint string
	Name       string
	Options    map[string]string // nil if the engine reported null
	Scope      string
	Size       mo.Option[int64]
	RefCount   mo.Option[int64]
}

func (r *InspectResult) clone() InspectResult {
	result := *r
	result.Labels = maps.Clone(r.Labels)
	result.Options = maps.Clone(r.Options)
	return result
}

func parseInspectResult(command engine.Command, output string) (InspectResult, error) {
	info, err := engine.DecodeSingle[dockervolume.Volume](command, output)
	if err != nil {
		return InspectResult{}, err
	}

	var createdAt time.Time
	if info.CreatedAt != "" {
		createdAt, err = time.Parse(time.RFC3339, info.CreatedAt)
		if err != nil {
			return InspectResult{}, &engine.ParseError{
				Command: command,
				Output:  output,
				Err:     xerrors.Errorf("Invalid volume creation time: %w", err),
			}
		}
	}

	result := InspectResult{
		CreatedAt:  createdAt,
		Driver:     info.Driver,
		Labels:     info.Labels,
		Mountpoint: info.Mountpoint,
		Name:       info.Name,
		Options:    info.Options,
		Scope:      info.Scope,
	}

	// The engine reports -1 when usage data hasn't been calculated
	if usage := info.UsageData; usage != nil {
		if usage.Size >= 0 {
			result.Size = mo.Some(usage.Size)
		}
		if usage.RefCount >= 0 {
			result.RefCount = mo.Some(usage.RefCount)
		}
	}

	return result, nil
}

// Volume is a handle to an engine volume. Volume names are immutable, so the handle always inspects the volume by its
// name.
type Volume struct {
	*resource.Handle[InspectResult]
	client *Client
}

var _ engine.Reference = &Volume{}

func (v *Volume) Name() string {
	return v.Reference()
}

func (v *Volume) String() string {
	return v.Name()
}

func (v *Volume) CreatedAt(ctx context.Context) (time.Time, error) {
	return resource.Attribute(ctx, v.Handle, func(result *InspectResult) time.Time { return result.CreatedAt })
}

func (v *Volume) Driver(ctx context.Context) (string, error) {
	return resource.Attribute(ctx, v.Handle, func(result *InspectResult) string { return result.Driver })
}

func (v *Volume) Labels(ctx context.Context) (map[string]string, error) {
	return resource.Attribute(ctx, v.Handle, func(result *InspectResult) map[string]string { return result.Labels })
}

func (v *Volume) Mountpoint(ctx context.Context) (string, error) {
	return resource.Attribute(ctx, v.Handle, func(result *InspectResult) string { return result.Mountpoint })
}

func (v *Volume) Options(ctx context.Context) (map[string]string, error) {
	return resource.Attribute(ctx, v.Handle, func(result *InspectResult) map[string]string { return result.Options })
}

func (v *Volume) Scope(ctx context.Context) (string, error) {
	return resource.Attribute(ctx, v.Handle, func(result *InspectResult) string { return result.Scope })
}

func (v *Volume) Size(ctx context.Context) (mo.Option[int64], error) {
	return resource.Attribute(ctx, v.Handle, func(result *InspectResult) mo.Option[int64] { return result.Size })
}

func (v *Volume) Remove(ctx context.Context) error {
	_, err := v.client.Remove(ctx, RemoveOptions{}, v)
	return err
}
