package datasources

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/kafkaops/terraform-provider-kafkaconnect/internal/client"
)

// Ensure the implementation satisfies expected interfaces
var (
	_ datasource.DataSource              = &PluginsDataSource{}
	_ datasource.DataSourceWithConfigure = &PluginsDataSource{}
)

// PluginsDataSource lists the connector plugins installed on the worker.
type PluginsDataSource struct {
	client *client.Client
}

// PluginModel describes one plugin in the data model
type PluginModel struct {
	Class   types.String `tfsdk:"class"`
	Type    types.String `tfsdk:"type"`
	Version types.String `tfsdk:"version"`
}

// PluginsDataSourceModel describes the data source data model
type PluginsDataSourceModel struct {
	Plugins []PluginModel `tfsdk:"plugins"`
}

// NewPluginsDataSource creates a new data source
func NewPluginsDataSource() datasource.DataSource {
	return &PluginsDataSource{}
}

// Metadata returns the data source type name
func (d *PluginsDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_plugins"
}

// Schema defines the data source schema
func (d *PluginsDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Lists the connector plugins installed on the Kafka Connect worker.",
		Attributes: map[string]schema.Attribute{
			"plugins": schema.ListNestedAttribute{
				Description: "Installed plugin descriptors.",
				Computed:    true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"class": schema.StringAttribute{
							Description: "Fully qualified connector class name.",
							Computed:    true,
						},
						"type": schema.StringAttribute{
							Description: "Plugin type: sink or source.",
							Computed:    true,
						},
						"version": schema.StringAttribute{
							Description: "Plugin version as reported by the worker.",
							Computed:    true,
						},
					},
				},
			},
		},
	}
}

// Configure adds the provider-configured client to the data source
func (d *PluginsDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	client, ok := req.ProviderData.(*client.Client)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *client.Client, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	d.client = client
}

// Read fetches the installed plugins from the API
func (d *PluginsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data PluginsDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	plugins, err := d.client.ListPlugins(ctx)
	if err != nil {
		resp.Diagnostics.AddError(
			"Error Listing Plugins",
			"Could not list connector plugins: "+err.Error(),
		)
		return
	}

	data.Plugins = make([]PluginModel, len(plugins))
	for i, p := range plugins {
		data.Plugins[i] = PluginModel{
			Class:   types.StringValue(p.Class),
			Type:    types.StringValue(p.Type),
			Version: types.StringValue(p.Version),
		}
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
