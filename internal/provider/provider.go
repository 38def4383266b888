package provider

import (
	"context"
	"os"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/kafkaops/terraform-provider-kafkaconnect/internal/client"
	"github.com/kafkaops/terraform-provider-kafkaconnect/internal/datasources"
	"github.com/kafkaops/terraform-provider-kafkaconnect/internal/resources"
)

// Ensure the implementation satisfies the provider.Provider interface
var _ provider.Provider = &KafkaConnectProvider{}

// KafkaConnectProvider defines the provider implementation.
type KafkaConnectProvider struct {
	version string
}

// KafkaConnectProviderModel describes the provider data model.
type KafkaConnectProviderModel struct {
	Endpoint types.String `tfsdk:"endpoint"`
	Username types.String `tfsdk:"username"`
	Password types.String `tfsdk:"password"`
}

// New creates a new provider instance
func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &KafkaConnectProvider{
			version: version,
		}
	}
}

// Metadata returns the provider type name.
func (p *KafkaConnectProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "kafkaconnect"
	resp.Version = p.version
}

// Schema defines the provider-level schema for configuration data.
func (p *KafkaConnectProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Terraform provider for managing connectors through the Kafka Connect REST API.",
		Attributes: map[string]schema.Attribute{
			"endpoint": schema.StringAttribute{
				Description: "Kafka Connect REST endpoint URL, e.g. http://connect-api:8083. Can also be set via KAFKA_CONNECT_ENDPOINT environment variable.",
				Optional:    true,
			},
			"username": schema.StringAttribute{
				Description: "Basic auth username. Can also be set via KAFKA_CONNECT_USERNAME environment variable. Leave unset together with password for an unauthenticated cluster.",
				Optional:    true,
			},
			"password": schema.StringAttribute{
				Description: "Basic auth password. Can also be set via KAFKA_CONNECT_PASSWORD environment variable.",
				Optional:    true,
				Sensitive:   true,
			},
		},
	}
}

// Configure prepares the provider client for data sources and resources.
func (p *KafkaConnectProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	tflog.Info(ctx, "Configuring Kafka Connect provider")

	var config KafkaConnectProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &config)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Allow environment variables to override config
	endpoint := os.Getenv("KAFKA_CONNECT_ENDPOINT")
	username := os.Getenv("KAFKA_CONNECT_USERNAME")
	password := os.Getenv("KAFKA_CONNECT_PASSWORD")

	if !config.Endpoint.IsNull() {
		endpoint = config.Endpoint.ValueString()
	}
	if !config.Username.IsNull() {
		username = config.Username.ValueString()
	}
	if !config.Password.IsNull() {
		password = config.Password.ValueString()
	}

	if endpoint == "" {
		resp.Diagnostics.AddAttributeError(
			path.Root("endpoint"),
			"Missing Kafka Connect Endpoint",
			"The provider cannot create the Kafka Connect API client as there is a missing or empty value for the endpoint. "+
				"Set the endpoint value in the configuration or use the KAFKA_CONNECT_ENDPOINT environment variable. "+
				"If either is already set, ensure the value is not empty.",
		)
	}

	if resp.Diagnostics.HasError() {
		return
	}

	// Create API client; empty credentials mean an unauthenticated cluster
	c := client.New(endpoint, username, password, p.version)

	// Make the client available to resources and data sources
	resp.DataSourceData = c
	resp.ResourceData = c

	tflog.Info(ctx, "Configured Kafka Connect provider", map[string]any{
		"endpoint":      endpoint,
		"authenticated": username != "" || password != "",
	})
}

// Resources defines the resources implemented in the provider.
func (p *KafkaConnectProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		resources.NewConnectorResource,
	}
}

// DataSources defines the data sources implemented in the provider.
func (p *KafkaConnectProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		datasources.NewConnectorsDataSource,
		datasources.NewConnectorStatusDataSource,
		datasources.NewPluginsDataSource,
	}
}
