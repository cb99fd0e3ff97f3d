package health

import "context"

// ArtifactPinger checks shard artifact storage availability.
type ArtifactPinger interface {
	Ping(ctx context.Context) error
}

// GeodataChecker checks the geo reference table.
type GeodataChecker interface {
	HealthCheck(ctx context.Context) error
}
