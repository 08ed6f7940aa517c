package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Cristian668/VentaX/internal/catalog"
)

// CatalogWarmer refreshes both supplier views so the first shopper of the
// day hits a warm cache.
type CatalogWarmer struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewCatalogWarmer constructs the warmup handler.
func NewCatalogWarmer(service *catalog.Service, logger *slog.Logger) *CatalogWarmer {
	return &CatalogWarmer{service: service, logger: logger}
}

// Handle processes TaskCatalogWarmup tasks.
func (c *CatalogWarmer) Handle(ctx context.Context, t *asynq.Task) error {
	var payload CatalogWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	for _, view := range []catalog.Supplier{catalog.SupplierFirstParty, catalog.SupplierThirdParty} {
		if err := c.service.Warm(ctx, view); err != nil {
			c.logger.Warn("catalog warmup",
				slog.String("view", view.FilterParam()), slog.Any("error", err))
			return err
		}
	}
	c.logger.Info("catalog warmup done", slog.Duration("took", time.Since(start)))
	return nil
}
