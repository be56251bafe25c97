package telemetry

import (
	"context"

	"threshctl/internal/controller"
)

// Collector defines the core domain interface. It embeds the controller's
// publish surface so a collector can be wired directly into a controller.
type Collector interface {
	controller.Publisher
	Record(ctx context.Context, snapshot controller.Snapshot) error
	Close() error
}
