package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Plugin describes one connector plugin installed on the worker.
type Plugin struct {
	Class   string `json:"class"`
	Type    string `json:"type"` // sink or source
	Version string `json:"version,omitempty"`
}

func (p *Plugin) validate() error {
	if p.Class == "" {
		return fmt.Errorf("plugin descriptor missing class")
	}
	return nil
}

// ConfigValue is the validation outcome for a single config key.
type ConfigValue struct {
	Name              string   `json:"name"`
	Value             string   `json:"value"`
	RecommendedValues []string `json:"recommended_values"`
	Errors            []string `json:"errors"`
	Visible           bool     `json:"visible"`
}

// configValidationEntry wraps one config key result; the definition half of
// the wire format is plugin metadata the provider has no use for.
type configValidationEntry struct {
	Value ConfigValue `json:"value"`
}

// ConfigValidation is the worker's verdict on a candidate connector config.
// ErrorCount is zero when the config would be accepted.
type ConfigValidation struct {
	Name       string                  `json:"name"`
	ErrorCount int                     `json:"error_count"`
	Groups     []string                `json:"groups"`
	Configs    []configValidationEntry `json:"configs"`
}

func (v *ConfigValidation) validate() error {
	if v.Name == "" {
		return fmt.Errorf("config validation missing name")
	}
	return nil
}

// Values flattens the per-key validation results.
func (v *ConfigValidation) Values() []ConfigValue {
	values := make([]ConfigValue, len(v.Configs))
	for i, entry := range v.Configs {
		values[i] = entry.Value
	}
	return values
}

// ListPlugins returns the connector plugins installed on the worker.
func (c *Client) ListPlugins(ctx context.Context) ([]Plugin, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/connector-plugins", nil)
	if err != nil {
		return nil, err
	}

	var plugins []Plugin
	if err := c.handleResponse(ctx, resp, &plugins); err != nil {
		return nil, fmt.Errorf("failed to list plugins: %w", err)
	}
	for i := range plugins {
		if err := plugins[i].validate(); err != nil {
			return nil, &APIError{Kind: ErrMalformed, Message: err.Error(), Err: err}
		}
	}

	return plugins, nil
}

// ValidatePluginConfig asks the worker to validate a candidate config
// against a plugin class without creating anything.
func (c *Client) ValidatePluginConfig(ctx context.Context, class string, config map[string]string) (*ConfigValidation, error) {
	path := "/connector-plugins/" + url.PathEscape(class) + "/config/validate"
	resp, err := c.doRequest(ctx, http.MethodPut, path, config)
	if err != nil {
		return nil, err
	}

	var result ConfigValidation
	if err := c.handleResponse(ctx, resp, &result); err != nil {
		return nil, fmt.Errorf("failed to validate plugin config: %w", err)
	}

	return &result, nil
}
