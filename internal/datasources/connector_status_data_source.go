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
	_ datasource.DataSource              = &ConnectorStatusDataSource{}
	_ datasource.DataSourceWithConfigure = &ConnectorStatusDataSource{}
)

// ConnectorStatusDataSource reports the live status of one connector and its
// tasks, plus the aggregated health classification. Each read re-fetches
// from the worker; cluster state changes under rebalance at any time.
type ConnectorStatusDataSource struct {
	client *client.Client
}

// TaskStatusModel describes one task in the status data model
type TaskStatusModel struct {
	ID       types.Int64  `tfsdk:"id"`
	State    types.String `tfsdk:"state"`
	WorkerID types.String `tfsdk:"worker_id"`
	Trace    types.String `tfsdk:"trace"`
}

// ConnectorStatusDataSourceModel describes the data source data model
type ConnectorStatusDataSourceModel struct {
	Name     types.String      `tfsdk:"name"`
	State    types.String      `tfsdk:"state"`
	WorkerID types.String      `tfsdk:"worker_id"`
	Type     types.String      `tfsdk:"type"`
	Health   types.String      `tfsdk:"health"`
	Tasks    []TaskStatusModel `tfsdk:"tasks"`
}

// NewConnectorStatusDataSource creates a new data source
func NewConnectorStatusDataSource() datasource.DataSource {
	return &ConnectorStatusDataSource{}
}

// Metadata returns the data source type name
func (d *ConnectorStatusDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_connector_status"
}

// Schema defines the data source schema
func (d *ConnectorStatusDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Fetches the current status of a connector and its tasks. Connector and task states fail independently and are both surfaced; health condenses them into healthy, degraded or down.",
		Attributes: map[string]schema.Attribute{
			"name": schema.StringAttribute{
				Description: "Connector name to query.",
				Required:    true,
			},
			"state": schema.StringAttribute{
				Description: "Controller-level connector state: UNASSIGNED, RUNNING, PAUSED, FAILED, RESTARTING or STOPPED.",
				Computed:    true,
			},
			"worker_id": schema.StringAttribute{
				Description: "Worker currently hosting the connector.",
				Computed:    true,
			},
			"type": schema.StringAttribute{
				Description: "Connector type: sink or source.",
				Computed:    true,
			},
			"health": schema.StringAttribute{
				Description: "Aggregated health: healthy (connector and all tasks RUNNING), degraded (at least one task unhealthy), down (connector FAILED or UNASSIGNED).",
				Computed:    true,
			},
			"tasks": schema.ListNestedAttribute{
				Description: "Per-task status, in server order.",
				Computed:    true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id": schema.Int64Attribute{
							Description: "Task number within the connector.",
							Computed:    true,
						},
						"state": schema.StringAttribute{
							Description: "Worker-level task state.",
							Computed:    true,
						},
						"worker_id": schema.StringAttribute{
							Description: "Worker currently executing the task.",
							Computed:    true,
						},
						"trace": schema.StringAttribute{
							Description: "Failure stack trace when the task is FAILED.",
							Computed:    true,
						},
					},
				},
			},
		},
	}
}

// Configure adds the provider-configured client to the data source
func (d *ConnectorStatusDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
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

// Read fetches a fresh status snapshot from the API
func (d *ConnectorStatusDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data ConnectorStatusDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	name := data.Name.ValueString()
	status, err := d.client.GetConnectorStatus(ctx, name)
	if err != nil {
		resp.Diagnostics.AddError(
			"Error Reading Connector Status",
			"Could not read status of connector "+name+": "+err.Error(),
		)
		return
	}

	mapStatusToModel(status, &data)
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// mapStatusToModel maps a status snapshot to the data source model
func mapStatusToModel(status *client.ConnectorStatus, model *ConnectorStatusDataSourceModel) {
	model.Name = types.StringValue(status.Name)
	model.State = types.StringValue(string(status.Connector.State))
	model.WorkerID = types.StringValue(status.Connector.WorkerID)
	model.Type = types.StringValue(status.Type)
	model.Health = types.StringValue(string(status.Health()))

	model.Tasks = make([]TaskStatusModel, len(status.Tasks))
	for i, task := range status.Tasks {
		model.Tasks[i] = TaskStatusModel{
			ID:       types.Int64Value(int64(task.ID)),
			State:    types.StringValue(string(task.State)),
			WorkerID: types.StringValue(task.WorkerID),
			Trace:    types.StringValue(task.Trace),
		}
	}
}
