package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opd-ai/go-spacecombat/pkg/engine"

func defaultMeter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// worldMetrics holds the counters a World reports to. With no meter
// provider installed they are no-ops.
type worldMetrics struct {
	ticks      metric.Int64Counter
	fired      metric.Int64Counter
	collisions metric.Int64Counter
	removed    metric.Int64Counter
	damage     metric.Float64Counter
}

func newWorldMetrics(m metric.Meter) (*worldMetrics, error) {
	wm := &worldMetrics{}
	var err error

	wm.ticks, err = m.Int64Counter(
		"spacecombat.ticks",
		metric.WithDescription("Simulation ticks advanced"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	wm.fired, err = m.Int64Counter(
		"spacecombat.projectiles.fired",
		metric.WithDescription("Projectiles spawned by kind and owner"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fired counter: %w", err)
	}

	wm.collisions, err = m.Int64Counter(
		"spacecombat.collisions",
		metric.WithDescription("Resolved collisions by pair"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collisions counter: %w", err)
	}

	wm.removed, err = m.Int64Counter(
		"spacecombat.entities.removed",
		metric.WithDescription("Entities removed during compaction by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating removed counter: %w", err)
	}

	wm.damage, err = m.Float64Counter(
		"spacecombat.ship.damage",
		metric.WithDescription("Health lost by the player ship by cause"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating damage counter: %w", err)
	}

	return wm, nil
}

func (wm *worldMetrics) tick(ctx context.Context) {
	wm.ticks.Add(ctx, 1)
}

func (wm *worldMetrics) projectileFired(ctx context.Context, kind, owner string) {
	wm.fired.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("owner", owner),
	))
}

func (wm *worldMetrics) collision(ctx context.Context, a, b string) {
	wm.collisions.Add(ctx, 1, metric.WithAttributes(attribute.String("pair", a+"_"+b)))
}

func (wm *worldMetrics) entitiesRemoved(ctx context.Context, kind string, n int) {
	if n == 0 {
		return
	}
	wm.removed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
}

func (wm *worldMetrics) shipDamaged(ctx context.Context, cause string, amount float64) {
	wm.damage.Add(ctx, amount, metric.WithAttributes(attribute.String("cause", cause)))
}
