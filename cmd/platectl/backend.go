package main

import (
	"context"

	"plate-service/internal/client"
	"plate-service/internal/config"
	"plate-service/internal/sidecode"
)

// backend answers plate questions either from a local registry or from a
// running plate service.
type backend interface {
	IsValidPlate(ctx context.Context, plate, country string, ignoreDashes bool) (bool, error)
	FormatPlate(ctx context.Context, plate, country string, ignoreDashes bool) (string, error)
	FindSideCode(ctx context.Context, plate, country string, ignoreDashes bool) (string, error)
	Countries(ctx context.Context) ([]string, error)
}

type localBackend struct {
	validator *sidecode.Validator
}

func newLocalBackend(sideCodesFile string) (*localBackend, error) {
	if sideCodesFile == "" {
		return &localBackend{validator: sidecode.New()}, nil
	}
	registry, err := config.LoadSideCodes(sideCodesFile)
	if err != nil {
		return nil, err
	}
	v, err := sidecode.NewWithRegistry(registry)
	if err != nil {
		return nil, err
	}
	return &localBackend{validator: v}, nil
}

func (b *localBackend) IsValidPlate(_ context.Context, plate, country string, ignoreDashes bool) (bool, error) {
	return b.validator.IsValidPlate(plate, country, ignoreDashes)
}

func (b *localBackend) FormatPlate(_ context.Context, plate, country string, ignoreDashes bool) (string, error) {
	return b.validator.FormatPlate(plate, country, ignoreDashes)
}

func (b *localBackend) FindSideCode(_ context.Context, plate, country string, ignoreDashes bool) (string, error) {
	return b.validator.FindSideCode(plate, country, ignoreDashes)
}

func (b *localBackend) Countries(context.Context) ([]string, error) {
	return b.validator.Countries(), nil
}

type remoteBackend struct {
	client *client.PlateClient
}

func (b *remoteBackend) IsValidPlate(ctx context.Context, plate, country string, ignoreDashes bool) (bool, error) {
	return b.client.IsValidPlate(ctx, plate, country, ignoreDashes)
}

func (b *remoteBackend) FormatPlate(ctx context.Context, plate, country string, ignoreDashes bool) (string, error) {
	res, err := b.client.FormatPlate(ctx, plate, country, ignoreDashes)
	if err != nil {
		return "", err
	}
	return res.Formatted, nil
}

func (b *remoteBackend) FindSideCode(ctx context.Context, plate, country string, ignoreDashes bool) (string, error) {
	return b.client.FindSideCode(ctx, plate, country, ignoreDashes)
}

func (b *remoteBackend) Countries(ctx context.Context) ([]string, error) {
	return b.client.Countries(ctx)
}
