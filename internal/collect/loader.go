package collect

import (
	"context"

	"geolist/internal/domain/content"
	"geolist/internal/logging"

	"go.uber.org/zap"
)

// Collector is anything that can answer a Request with an Envelope.
type Collector interface {
	Collect(ctx context.Context, req Request) Envelope
}

// CollectorFunc adapts a function to Collector.
type CollectorFunc func(ctx context.Context, req Request) Envelope

func (f CollectorFunc) Collect(ctx context.Context, req Request) Envelope { return f(ctx, req) }

// Loader turns envelopes into item lists, degrading every failure to an
// empty list so listing pages always render.
type Loader struct {
	c   Collector
	log *zap.Logger
}

func NewLoader(c Collector, log *zap.Logger) *Loader {
	return &Loader{c: c, log: logging.OrNop(log).Named("collect")}
}

func (l *Loader) Load(ctx context.Context, req Request) (items []*content.Item) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("collector panicked", zap.String("endpoint", req.Endpoint), zap.Any("panic", r))
			items = []*content.Item{}
		}
	}()

	env := l.c.Collect(ctx, req)
	if !env.Success {
		l.log.Warn("collection unavailable", zap.String("endpoint", req.Endpoint), zap.String("error", env.Error))
		return []*content.Item{}
	}
	items = ExtractCollection(env.Data, req.CollectionKeys...)
	if len(items) == 0 {
		l.log.Info("collection empty", zap.String("endpoint", req.Endpoint))
	}
	return items
}
