package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	artifacts ArtifactPinger
	geodata   GeodataChecker
}

// New creates a Service. geodata can be nil.
func New(artifacts ArtifactPinger, geodata GeodataChecker) *Service {
	return &Service{artifacts: artifacts, geodata: geodata}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.artifacts.Ping(ctx); err != nil {
		checks["artifacts"] = CheckError
	} else {
		checks["artifacts"] = CheckOK
	}

	if s.geodata != nil {
		if err := s.geodata.HealthCheck(ctx); err != nil {
			checks["geodata"] = CheckError
		} else {
			checks["geodata"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
