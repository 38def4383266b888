package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// State is the lifecycle state reported by the Connect worker for a
// connector or one of its tasks.
type State string

const (
	StateUnassigned State = "UNASSIGNED"
	StateRunning    State = "RUNNING"
	StatePaused     State = "PAUSED"
	StateFailed     State = "FAILED"
	StateRestarting State = "RESTARTING"
	StateStopped    State = "STOPPED"
)

func (s State) valid() bool {
	switch s {
	case StateUnassigned, StateRunning, StatePaused, StateFailed, StateRestarting, StateStopped:
		return true
	}
	return false
}

// ConnectorStateInfo is the controller-level state of a connector,
// independent of its tasks.
type ConnectorStateInfo struct {
	State    State  `json:"state"`
	WorkerID string `json:"worker_id"`
	Trace    string `json:"trace,omitempty"`
}

// TaskStatus is the worker-level state of a single task. Trace carries the
// failure stack trace when the task is FAILED.
type TaskStatus struct {
	ID       int    `json:"id"`
	State    State  `json:"state"`
	WorkerID string `json:"worker_id"`
	Trace    string `json:"trace,omitempty"`
}

func (t *TaskStatus) validate() error {
	if t.ID < 0 {
		return fmt.Errorf("negative task id %d", t.ID)
	}
	if !t.State.valid() {
		return fmt.Errorf("task %d has unknown state %q", t.ID, t.State)
	}
	return nil
}

// ConnectorStatus is a point-in-time snapshot of a connector and its tasks.
// Connector and task states fail independently: a FAILED connector may still
// own RUNNING tasks and a RUNNING connector may own FAILED ones, so both
// levels are always surfaced. The snapshot is never cached: cluster state
// changes under rebalance outside the client's control.
type ConnectorStatus struct {
	Name      string             `json:"name"`
	Connector ConnectorStateInfo `json:"connector"`
	Tasks     []TaskStatus       `json:"tasks"`
	Type      string             `json:"type,omitempty"`
}

func (s *ConnectorStatus) validate() error {
	if s.Name == "" {
		return fmt.Errorf("connector status missing name")
	}
	if !s.Connector.State.valid() {
		return fmt.Errorf("connector %q has unknown state %q", s.Name, s.Connector.State)
	}
	for i := range s.Tasks {
		if err := s.Tasks[i].validate(); err != nil {
			return fmt.Errorf("connector %q: %w", s.Name, err)
		}
	}
	return nil
}

// taskInfo is one entry of GET /connectors/{name}/tasks.
type taskInfo struct {
	ID     TaskID            `json:"id"`
	Config map[string]string `json:"config"`
}

// GetConnectorStatus retrieves the current status of a connector and all of
// its tasks. Always re-fetched from the worker, never cached.
func (c *Client) GetConnectorStatus(ctx context.Context, name string) (*ConnectorStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, connectorPath(name, "status"), nil)
	if err != nil {
		return nil, err
	}

	var result ConnectorStatus
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to get connector status: %w", err)
	}

	return &result, nil
}

// GetTaskStatus retrieves the status of a single task.
func (c *Client) GetTaskStatus(ctx context.Context, id TaskID) (*TaskStatus, error) {
	path := connectorPath(id.Connector, fmt.Sprintf("tasks/%d/status", id.Task))
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result TaskStatus
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to get task status: %w", err)
	}

	return &result, nil
}

// ListTasks returns the task ids currently assigned to a connector.
func (c *Client) ListTasks(ctx context.Context, name string) ([]TaskID, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, connectorPath(name, "tasks"), nil)
	if err != nil {
		return nil, err
	}

	var tasks []taskInfo
	if err := c.handleResponse(ctx, resp, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	ids := make([]TaskID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids, nil
}

// PauseConnector asks the worker to pause a connector and its tasks. The
// worker applies the transition asynchronously: a nil return means the
// request was accepted, not that the connector is PAUSED yet.
func (c *Client) PauseConnector(ctx context.Context, name string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, connectorPath(name, "pause"), nil)
	if err != nil {
		return err
	}

	if err := c.handleResponse(ctx, resp, nil); err != nil {
		return fmt.Errorf("failed to pause connector: %w", err)
	}

	tflog.Info(ctx, "Pause accepted", map[string]any{"name": name})
	return nil
}

// ResumeConnector asks the worker to resume a paused or stopped connector.
// Asynchronous on the server, same as PauseConnector.
func (c *Client) ResumeConnector(ctx context.Context, name string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, connectorPath(name, "resume"), nil)
	if err != nil {
		return err
	}

	if err := c.handleResponse(ctx, resp, nil); err != nil {
		return fmt.Errorf("failed to resume connector: %w", err)
	}

	tflog.Info(ctx, "Resume accepted", map[string]any{"name": name})
	return nil
}

// StopConnector asks the worker to stop a connector, shutting down its tasks
// and releasing their resources while keeping the connector registered.
// Requires Connect 3.5+. Asynchronous on the server.
func (c *Client) StopConnector(ctx context.Context, name string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, connectorPath(name, "stop"), nil)
	if err != nil {
		return err
	}

	if err := c.handleResponse(ctx, resp, nil); err != nil {
		return fmt.Errorf("failed to stop connector: %w", err)
	}

	tflog.Info(ctx, "Stop accepted", map[string]any{"name": name})
	return nil
}

// RestartConnector restarts a connector, optionally including its tasks and
// optionally restricting the restart to FAILED instances. Workers answer 202
// with a status snapshot when the restart is processed asynchronously, and
// 200/204 without a body otherwise; the returned status is nil in the latter
// case.
func (c *Client) RestartConnector(ctx context.Context, name string, includeTasks, onlyFailed bool) (*ConnectorStatus, error) {
	query := url.Values{}
	query.Set("includeTasks", strconv.FormatBool(includeTasks))
	query.Set("onlyFailed", strconv.FormatBool(onlyFailed))

	resp, err := c.doRequest(ctx, http.MethodPost, connectorPath(name, "restart")+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusAccepted {
		var result ConnectorStatus
		if err := c.handleResponse(ctx, resp, &result); err != nil {
			return nil, fmt.Errorf("failed to restart connector: %w", err)
		}
		tflog.Info(ctx, "Restart accepted", map[string]any{"name": name})
		return &result, nil
	}

	if err := c.handleResponse(ctx, resp, nil); err != nil {
		return nil, fmt.Errorf("failed to restart connector: %w", err)
	}

	tflog.Info(ctx, "Restarted connector", map[string]any{"name": name})
	return nil, nil
}

// RestartTask restarts a single task in isolation.
func (c *Client) RestartTask(ctx context.Context, id TaskID) error {
	path := connectorPath(id.Connector, fmt.Sprintf("tasks/%d/restart", id.Task))
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}

	if err := c.handleResponse(ctx, resp, nil); err != nil {
		return fmt.Errorf("failed to restart task: %w", err)
	}

	tflog.Info(ctx, "Restarted task", map[string]any{"connector": id.Connector, "task": id.Task})
	return nil
}
