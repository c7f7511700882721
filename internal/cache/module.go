package cache

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/invoicedash/internal/config"
)

// Module provides the shared page cache.
var Module = fx.Provide(newPageCache)

type cacheParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPageCache(p cacheParams) *PageCache {
	return NewPageCache(p.Config.CacheTTL, p.Logger)
}
