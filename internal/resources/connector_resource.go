package resources

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/booldefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/kafkaops/terraform-provider-kafkaconnect/internal/client"
)

// Ensure the implementation satisfies expected interfaces
var (
	_ resource.Resource                = &ConnectorResource{}
	_ resource.ResourceWithConfigure   = &ConnectorResource{}
	_ resource.ResourceWithImportState = &ConnectorResource{}
)

// ConnectorResource defines the resource implementation
type ConnectorResource struct {
	client *client.Client
}

// ConnectorResourceModel describes the resource data model
type ConnectorResourceModel struct {
	Name   types.String `tfsdk:"name"`
	Config types.Map    `tfsdk:"config"`
	Paused types.Bool   `tfsdk:"paused"`
	Type   types.String `tfsdk:"type"`
}

// NewConnectorResource creates a new resource
func NewConnectorResource() resource.Resource {
	return &ConnectorResource{}
}

// Metadata returns the resource type name
func (r *ConnectorResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_connector"
}

// Schema defines the resource schema
func (r *ConnectorResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a connector on a Kafka Connect cluster. The config is submitted via the idempotent PUT endpoint, so an existing connector with the same name is adopted and reconfigured rather than recreated.",
		Attributes: map[string]schema.Attribute{
			"name": schema.StringAttribute{
				Description: "Connector name, unique per Connect cluster. Immutable: changing it replaces the connector.",
				Required:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"config": schema.MapAttribute{
				Description: "Connector configuration as plugin-specific key/value pairs. Validated by the Connect worker, not by the provider.",
				Required:    true,
				ElementType: types.StringType,
			},
			"paused": schema.BoolAttribute{
				Description: "Pause the connector and its tasks. The worker applies pause/resume asynchronously; the provider only confirms the request was accepted.",
				Optional:    true,
				Computed:    true,
				Default:     booldefault.StaticBool(false),
			},
			"type": schema.StringAttribute{
				Description: "Connector type as reported by the worker: sink or source.",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
		},
	}
}

// Configure adds the provider-configured client to the resource
func (r *ConnectorResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	client, ok := req.ProviderData.(*client.Client)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *client.Client, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	r.client = client
}

// Create creates a new connector
func (r *ConnectorResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data ConnectorResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	name := data.Name.ValueString()
	config := expandConfig(ctx, data.Config, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	info, err := r.client.UpdateConnectorConfig(ctx, name, config)
	if err != nil {
		resp.Diagnostics.AddError(
			"Error Creating Connector",
			"Could not create connector "+name+": "+err.Error(),
		)
		return
	}

	if data.Paused.ValueBool() {
		if err := r.client.PauseConnector(ctx, name); err != nil {
			resp.Diagnostics.AddError(
				"Error Pausing Connector",
				"Connector "+name+" was created but could not be paused: "+err.Error(),
			)
			return
		}
	}

	r.mapInfoToModel(ctx, info, &data, &resp.Diagnostics)
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)

	tflog.Info(ctx, "Created connector resource", map[string]any{"name": name})
}

// Read refreshes the Terraform state with the latest data from the API
func (r *ConnectorResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data ConnectorResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	name := data.Name.ValueString()
	info, err := r.client.GetConnector(ctx, name)
	if err != nil {
		if client.IsNotFound(err) {
			// Connector was deleted outside Terraform
			tflog.Warn(ctx, "Connector not found, removing from state", map[string]any{"name": name})
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.AddError(
			"Error Reading Connector",
			"Could not read connector "+name+": "+err.Error(),
		)
		return
	}

	status, err := r.client.GetConnectorStatus(ctx, name)
	if err != nil {
		resp.Diagnostics.AddError(
			"Error Reading Connector Status",
			"Could not read status of connector "+name+": "+err.Error(),
		)
		return
	}

	r.mapInfoToModel(ctx, info, &data, &resp.Diagnostics)
	switch status.Connector.State {
	case client.StatePaused, client.StateStopped:
		data.Paused = types.BoolValue(true)
	default:
		data.Paused = types.BoolValue(false)
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// Update updates an existing connector
func (r *ConnectorResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var plan, state ConnectorResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	name := plan.Name.ValueString()
	config := expandConfig(ctx, plan.Config, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	info, err := r.client.UpdateConnectorConfig(ctx, name, config)
	if err != nil {
		resp.Diagnostics.AddError(
			"Error Updating Connector",
			"Could not update connector "+name+": "+err.Error(),
		)
		return
	}

	if plan.Paused.ValueBool() != state.Paused.ValueBool() {
		if plan.Paused.ValueBool() {
			err = r.client.PauseConnector(ctx, name)
		} else {
			err = r.client.ResumeConnector(ctx, name)
		}
		if err != nil {
			resp.Diagnostics.AddError(
				"Error Changing Connector Pause State",
				"Could not change pause state of connector "+name+": "+err.Error(),
			)
			return
		}
	}

	r.mapInfoToModel(ctx, info, &plan, &resp.Diagnostics)
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)

	tflog.Info(ctx, "Updated connector resource", map[string]any{"name": name})
}

// Delete deletes a connector
func (r *ConnectorResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data ConnectorResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	name := data.Name.ValueString()
	if err := r.client.DeleteConnector(ctx, name); err != nil {
		if client.IsNotFound(err) {
			tflog.Warn(ctx, "Connector already deleted", map[string]any{"name": name})
			return
		}
		resp.Diagnostics.AddError(
			"Error Deleting Connector",
			"Could not delete connector "+name+": "+err.Error(),
		)
		return
	}

	tflog.Info(ctx, "Deleted connector resource", map[string]any{"name": name})
}

// ImportState imports an existing connector by name
func (r *ConnectorResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	// Import by name: terraform import kafkaconnect_connector.example <connector-name>
	resource.ImportStatePassthroughID(ctx, path.Root("name"), req, resp)
}

// mapInfoToModel maps an API connector snapshot to the Terraform model
func (r *ConnectorResource) mapInfoToModel(ctx context.Context, info *client.ConnectorInfo, model *ConnectorResourceModel, diags *diag.Diagnostics) {
	model.Name = types.StringValue(info.Name)
	model.Config = flattenConfig(ctx, info.Config, diags)
	model.Type = types.StringValue(info.Type)
}
