package client

// Health is the overall classification derived from a status snapshot.
type Health string

const (
	// HealthHealthy: connector RUNNING and every task RUNNING.
	HealthHealthy Health = "healthy"
	// HealthDegraded: connector up but at least one task not RUNNING, or the
	// connector itself paused, stopped or restarting.
	HealthDegraded Health = "degraded"
	// HealthDown: connector FAILED or UNASSIGNED, regardless of task states.
	HealthDown Health = "down"
)

// Health derives the overall health of a connector from a fetched status
// snapshot. Connector-level state takes precedence only for the down
// classification: a FAILED connector is down even with healthy tasks;
// otherwise task states decide between healthy and degraded. Pure: the
// snapshot is not mutated and nothing is cached.
func (s *ConnectorStatus) Health() Health {
	switch s.Connector.State {
	case StateFailed, StateUnassigned:
		return HealthDown
	}

	if s.Connector.State != StateRunning {
		return HealthDegraded
	}
	for i := range s.Tasks {
		if s.Tasks[i].State != StateRunning {
			return HealthDegraded
		}
	}
	return HealthHealthy
}
