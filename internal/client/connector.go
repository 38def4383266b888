package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// TaskID identifies one task within a connector. Task numbers are assigned
// by the Connect worker, never by the client.
type TaskID struct {
	Connector string `json:"connector"`
	Task      int    `json:"task"`
}

// ConnectorInfo is the server's read-only snapshot of a connector: its name,
// its plugin-specific config, and the tasks currently assigned to it. Tasks
// populate asynchronously, so a freshly created connector may report none.
type ConnectorInfo struct {
	Name   string            `json:"name"`
	Config map[string]string `json:"config"`
	Tasks  []TaskID          `json:"tasks"`
	Type   string            `json:"type,omitempty"` // sink or source
}

func (i *ConnectorInfo) validate() error {
	if i.Name == "" {
		return fmt.Errorf("connector info missing name")
	}
	if i.Config == nil {
		return fmt.Errorf("connector %q missing config", i.Name)
	}
	for _, t := range i.Tasks {
		if t.Task < 0 {
			return fmt.Errorf("connector %q has negative task id %d", i.Name, t.Task)
		}
	}
	return nil
}

// connectorCreateRequest is the POST /connectors body.
type connectorCreateRequest struct {
	Name   string            `json:"name"`
	Config map[string]string `json:"config"`
}

// ConnectorExpansion is one entry of an expanded connector listing. Only the
// requested expansions are populated.
type ConnectorExpansion struct {
	Info   *ConnectorInfo   `json:"info,omitempty"`
	Status *ConnectorStatus `json:"status,omitempty"`
}

// connectorPath builds /connectors/{name}[/suffix] with the name escaped.
func connectorPath(name, suffix string) string {
	p := "/connectors/" + url.PathEscape(name)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// ListConnectors returns the names of all connectors in the cluster.
// Ordering is server-defined and not guaranteed sorted.
func (c *Client) ListConnectors(ctx context.Context) ([]string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/connectors", nil)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := c.handleResponse(ctx, resp, &names); err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}

	return names, nil
}

// ListConnectorsExpanded returns every connector keyed by name, with its
// info and/or status inlined. At least one expansion must be requested; for
// bare names use ListConnectors.
func (c *Client) ListConnectorsExpanded(ctx context.Context, expandInfo, expandStatus bool) (map[string]ConnectorExpansion, error) {
	query := url.Values{}
	if expandInfo {
		query.Add("expand", "info")
	}
	if expandStatus {
		query.Add("expand", "status")
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("at least one of info or status must be expanded")
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/connectors?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var result map[string]ConnectorExpansion
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}
	for name, exp := range result {
		if exp.Info != nil {
			if err := exp.Info.validate(); err != nil {
				return nil, &APIError{Kind: ErrMalformed, Message: fmt.Sprintf("connector %q: %v", name, err), Err: err}
			}
		}
		if exp.Status != nil {
			if err := exp.Status.validate(); err != nil {
				return nil, &APIError{Kind: ErrMalformed, Message: fmt.Sprintf("connector %q: %v", name, err), Err: err}
			}
		}
	}

	return result, nil
}

// GetConnector retrieves a connector by name.
func (c *Client) GetConnector(ctx context.Context, name string) (*ConnectorInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, connectorPath(name, ""), nil)
	if err != nil {
		return nil, err
	}

	var result ConnectorInfo
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to get connector: %w", err)
	}

	return &result, nil
}

// GetConnectorConfig retrieves only the config map of a connector.
func (c *Client) GetConnectorConfig(ctx context.Context, name string) (map[string]string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, connectorPath(name, "config"), nil)
	if err != nil {
		return nil, err
	}

	var config map[string]string
	if err := c.handleResponse(ctx, resp, &config); err != nil {
		return nil, fmt.Errorf("failed to get connector config: %w", err)
	}

	return config, nil
}

// CreateConnector creates a new connector via POST. The server answers 409
// if a connector with the same name exists or a rebalance is in progress;
// for idempotent create-or-update semantics use UpdateConnectorConfig.
func (c *Client) CreateConnector(ctx context.Context, name string, config map[string]string) (*ConnectorInfo, error) {
	req := connectorCreateRequest{Name: name, Config: config}
	resp, err := c.doRequest(ctx, http.MethodPost, "/connectors", req)
	if err != nil {
		return nil, err
	}

	var result ConnectorInfo
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	tflog.Info(ctx, "Created connector", map[string]any{"name": result.Name})
	return &result, nil
}

// UpdateConnectorConfig submits a connector config via PUT, creating the
// connector if absent and reconfiguring it if present. Whether an existing
// config is replaced or merged is decided by the Connect worker, not assumed
// here.
func (c *Client) UpdateConnectorConfig(ctx context.Context, name string, config map[string]string) (*ConnectorInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, connectorPath(name, "config"), config)
	if err != nil {
		return nil, err
	}

	var result ConnectorInfo
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to update connector config: %w", err)
	}

	tflog.Info(ctx, "Applied connector config", map[string]any{"name": result.Name})
	return &result, nil
}

// DeleteConnector deletes a connector by name. A 404 surfaces as a not_found
// error; tolerating already-deleted connectors is left to the caller.
func (c *Client) DeleteConnector(ctx context.Context, name string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, connectorPath(name, ""), nil)
	if err != nil {
		return err
	}

	if err := c.handleResponse(ctx, resp, nil); err != nil {
		return fmt.Errorf("failed to delete connector: %w", err)
	}

	tflog.Info(ctx, "Deleted connector", map[string]any{"name": name})
	return nil
}
