package di

import (
	"github.com/polkiloo/invoicedash/internal/app"
	"github.com/polkiloo/invoicedash/internal/cache"
	"github.com/polkiloo/invoicedash/internal/config"
	"github.com/polkiloo/invoicedash/internal/logger"
	"github.com/polkiloo/invoicedash/internal/server/http/handlers"
	"github.com/polkiloo/invoicedash/internal/server/http/router"
	"github.com/polkiloo/invoicedash/internal/storage/postgres"
	"github.com/polkiloo/invoicedash/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		cache.Module,
		usecase.Module,
		fx.Provide(
			func(pages *cache.PageCache) usecase.Revalidator { return pages },
			func(pages *cache.PageCache) handlers.PageStore { return pages },
			func(storage *postgres.Storage) handlers.HealthChecker { return storage },
			func(facade *app.InvoiceFacade) handlers.InvoiceFacade { return facade },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
