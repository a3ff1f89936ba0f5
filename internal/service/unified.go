package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/indredK/history-sub002/internal/datasource"
	"github.com/indredK/history-sub002/internal/domain"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/indredK/history-sub002/internal/retry"
	"go.uber.org/zap"
)

var ErrGetByIDDisabled = errors.New("lookup by id is not enabled for this resource")

// ItemsFetcher reads a list of raw items from the history API.
type ItemsFetcher interface {
	GetItems(ctx context.Context, path string) ([]json.RawMessage, error)
}

// AssetLoader reads a list of raw items from the static JSON assets.
type AssetLoader interface {
	Load(ctx context.Context, name string) ([]json.RawMessage, error)
}

// Deps are shared by every resource service. Fallback is the single
// process-wide manager.
type Deps struct {
	Mode     datasource.Mode
	Fallback *fallback.Manager
	API      ItemsFetcher
	Assets   AssetLoader
	Retry    retry.Policy
	Logger   *zap.Logger
}

// Definition describes one resource service.
type Definition[T domain.Entity] struct {
	Resource      domain.Resource
	Transform     domain.Transformer[T]
	EnableGetByID bool
}

type ListResult[T any] struct {
	Data   []T               `json:"data"`
	Source datasource.Source `json:"source"`
}

type ItemResult[T any] struct {
	Data   *T                `json:"data"`
	Source datasource.Source `json:"source"`
}

// Unified serves one resource from the API or the assets depending on the
// data source mode, with the fallback manager guarding API reads.
type Unified[T domain.Entity] struct {
	deps   Deps
	def    Definition[T]
	logger *zap.Logger
}

func NewUnified[T domain.Entity](deps Deps, def Definition[T]) *Unified[T] {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Unified[T]{
		deps:   deps,
		def:    def,
		logger: logger.With(zap.String("resource", def.Resource.Name)),
	}
}

func (u *Unified[T]) Name() string {
	return u.def.Resource.Name
}

func (u *Unified[T]) GetAll(ctx context.Context) (ListResult[T], error) {
	if u.deps.Mode != datasource.ModeAPI {
		return ListResult[T]{Data: u.loadMock(ctx), Source: datasource.SourceMock}, nil
	}

	apiLoad := retry.Wrap(u.deps.Retry, func(ctx context.Context) (ListResult[T], error) {
		items, err := u.deps.API.GetItems(ctx, u.def.Resource.Endpoint)
		if err != nil {
			return ListResult[T]{}, err
		}
		return ListResult[T]{Data: u.transformAll(items), Source: datasource.SourceAPI}, nil
	})
	mockLoad := func(ctx context.Context) (ListResult[T], error) {
		return ListResult[T]{Data: u.loadMock(ctx), Source: datasource.SourceFallback}, nil
	}

	return fallback.Execute(ctx, u.deps.Fallback, apiLoad, mockLoad, u.def.Resource.Name+".getAll")
}

// GetByID returns nil data, not an error, when the id does not exist.
func (u *Unified[T]) GetByID(ctx context.Context, id string) (ItemResult[T], error) {
	if !u.def.EnableGetByID {
		return ItemResult[T]{}, ErrGetByIDDisabled
	}
	if u.deps.Mode != datasource.ModeAPI {
		return ItemResult[T]{Data: u.findMock(ctx, id), Source: datasource.SourceMock}, nil
	}

	apiLoad := retry.Wrap(u.deps.Retry, func(ctx context.Context) (ItemResult[T], error) {
		items, err := u.deps.API.GetItems(ctx, u.def.Resource.Endpoint+"/"+url.PathEscape(id))
		if err != nil {
			if isNotFound(err) {
				return ItemResult[T]{Source: datasource.SourceAPI}, nil
			}
			return ItemResult[T]{}, err
		}
		list := u.transformAll(items)
		if len(list) == 0 {
			return ItemResult[T]{Source: datasource.SourceAPI}, nil
		}
		return ItemResult[T]{Data: &list[0], Source: datasource.SourceAPI}, nil
	})
	mockLoad := func(ctx context.Context) (ItemResult[T], error) {
		return ItemResult[T]{Data: u.findMock(ctx, id), Source: datasource.SourceFallback}, nil
	}

	return fallback.Execute(ctx, u.deps.Fallback, apiLoad, mockLoad, u.def.Resource.Name+".getById")
}

// List and Get satisfy Resource for handlers that do not know T.

func (u *Unified[T]) List(ctx context.Context) (Payload, error) {
	res, err := u.GetAll(ctx)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Data: res.Data, Source: res.Source}, nil
}

func (u *Unified[T]) Get(ctx context.Context, id string) (Payload, error) {
	res, err := u.GetByID(ctx, id)
	if err != nil {
		return Payload{}, err
	}
	if res.Data == nil {
		return Payload{Data: nil, Source: res.Source}, nil
	}
	return Payload{Data: *res.Data, Source: res.Source}, nil
}

// loadMock never fails: a missing or broken asset is an empty collection.
func (u *Unified[T]) loadMock(ctx context.Context) []T {
	items, err := u.deps.Assets.Load(ctx, u.def.Resource.Asset)
	if err != nil {
		u.logger.Warn("failed to load asset, serving empty list", zap.Error(err))
		return []T{}
	}
	return u.transformAll(items)
}

func (u *Unified[T]) findMock(ctx context.Context, id string) *T {
	for _, item := range u.loadMock(ctx) {
		if string(item.EntityID()) == id {
			return &item
		}
	}
	return nil
}

func (u *Unified[T]) transformAll(items []json.RawMessage) []T {
	out := make([]T, 0, len(items))
	for i, raw := range items {
		v, err := u.def.Transform(raw, i)
		if err != nil {
			u.logger.Warn("skipping malformed item", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func isNotFound(err error) bool {
	var sc fallback.StatusCoder
	return errors.As(err, &sc) && sc.StatusCode() == http.StatusNotFound
}
