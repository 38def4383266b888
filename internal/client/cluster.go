package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// ClusterInfo identifies the Connect worker answering on the base address.
type ClusterInfo struct {
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	KafkaClusterID string `json:"kafka_cluster_id"`
}

func (i *ClusterInfo) validate() error {
	if i.Version == "" {
		return fmt.Errorf("cluster info missing version")
	}
	return nil
}

// ConnectorOffset is one committed offset entry. Partition and offset
// layouts are connector-plugin-specific, so both stay opaque maps.
type ConnectorOffset struct {
	Partition map[string]any `json:"partition"`
	Offset    map[string]any `json:"offset"`
}

// connectorOffsets is the GET /connectors/{name}/offsets body.
type connectorOffsets struct {
	Offsets []ConnectorOffset `json:"offsets"`
}

// connectorTopics is one entry of the GET /connectors/{name}/topics body.
type connectorTopics struct {
	Topics []string `json:"topics"`
}

// Info returns version and cluster identity of the Connect worker.
func (c *Client) Info(ctx context.Context) (*ClusterInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}

	var result ClusterInfo
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to get cluster info: %w", err)
	}

	return &result, nil
}

// GetConnectorTopics returns the set of topic names the connector has used
// since its creation or since the last topic reset.
func (c *Client) GetConnectorTopics(ctx context.Context, name string) ([]string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, connectorPath(name, "topics"), nil)
	if err != nil {
		return nil, err
	}

	var result map[string]connectorTopics
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to get connector topics: %w", err)
	}

	entry, ok := result[name]
	if !ok {
		err := fmt.Errorf("topics response missing connector %q", name)
		return nil, &APIError{Kind: ErrMalformed, Message: err.Error(), Err: err}
	}
	return entry.Topics, nil
}

// ResetConnectorTopics clears the worker's record of topics used by the
// connector.
func (c *Client) ResetConnectorTopics(ctx context.Context, name string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, connectorPath(name, "topics/reset"), nil)
	if err != nil {
		return err
	}

	if err := c.handleResponse(ctx, resp, nil); err != nil {
		return fmt.Errorf("failed to reset connector topics: %w", err)
	}

	tflog.Info(ctx, "Reset connector topics", map[string]any{"name": name})
	return nil
}

// GetConnectorOffsets returns the offsets committed by a connector.
func (c *Client) GetConnectorOffsets(ctx context.Context, name string) ([]ConnectorOffset, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, connectorPath(name, "offsets"), nil)
	if err != nil {
		return nil, err
	}

	var result connectorOffsets
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to get connector offsets: %w", err)
	}

	return result.Offsets, nil
}
