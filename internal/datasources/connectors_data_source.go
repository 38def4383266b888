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
	_ datasource.DataSource              = &ConnectorsDataSource{}
	_ datasource.DataSourceWithConfigure = &ConnectorsDataSource{}
)

// ConnectorsDataSource lists the connector names registered on the cluster.
type ConnectorsDataSource struct {
	client *client.Client
}

// ConnectorsDataSourceModel describes the data source data model
type ConnectorsDataSourceModel struct {
	Names types.List `tfsdk:"names"`
}

// NewConnectorsDataSource creates a new data source
func NewConnectorsDataSource() datasource.DataSource {
	return &ConnectorsDataSource{}
}

// Metadata returns the data source type name
func (d *ConnectorsDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_connectors"
}

// Schema defines the data source schema
func (d *ConnectorsDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Lists all connectors on the Kafka Connect cluster. Ordering is server-defined.",
		Attributes: map[string]schema.Attribute{
			"names": schema.ListAttribute{
				Description: "Connector names registered on the cluster.",
				Computed:    true,
				ElementType: types.StringType,
			},
		},
	}
}

// Configure adds the provider-configured client to the data source
func (d *ConnectorsDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
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

// Read fetches the connector names from the API
func (d *ConnectorsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data ConnectorsDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	names, err := d.client.ListConnectors(ctx)
	if err != nil {
		resp.Diagnostics.AddError(
			"Error Listing Connectors",
			"Could not list connectors: "+err.Error(),
		)
		return
	}

	list, diags := types.ListValueFrom(ctx, types.StringType, names)
	resp.Diagnostics.Append(diags...)
	data.Names = list

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
