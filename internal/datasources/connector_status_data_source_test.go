package datasources

import (
	"context"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/kafkaops/terraform-provider-kafkaconnect/internal/client"
)

func TestConnectorStatusDataSource_Configure(t *testing.T) {
	ctx := context.Background()
	ds := NewConnectorStatusDataSource().(*ConnectorStatusDataSource)

	mockClient := &client.Client{}
	configResp := &datasource.ConfigureResponse{}
	ds.Configure(ctx, datasource.ConfigureRequest{ProviderData: mockClient}, configResp)
	if configResp.Diagnostics.HasError() {
		t.Errorf("Configure() error: %v", configResp.Diagnostics.Errors())
	}
	if ds.client != mockClient {
		t.Error("Configure() did not set client")
	}
}

func TestConnectorStatusDataSource_Metadata(t *testing.T) {
	ctx := context.Background()
	ds := NewConnectorStatusDataSource().(*ConnectorStatusDataSource)

	resp := &datasource.MetadataResponse{}
	ds.Metadata(ctx, datasource.MetadataRequest{ProviderTypeName: "kafkaconnect"}, resp)

	if resp.TypeName != "kafkaconnect_connector_status" {
		t.Errorf("TypeName = %q, want kafkaconnect_connector_status", resp.TypeName)
	}
}

func TestConnectorStatusDataSource_Schema(t *testing.T) {
	ctx := context.Background()
	ds := NewConnectorStatusDataSource().(*ConnectorStatusDataSource)

	resp := &datasource.SchemaResponse{}
	ds.Schema(ctx, datasource.SchemaRequest{}, resp)

	if resp.Diagnostics.HasError() {
		t.Fatalf("Schema() error: %v", resp.Diagnostics.Errors())
	}

	expectedAttrs := []string{"name", "state", "worker_id", "type", "health", "tasks"}
	for _, attr := range expectedAttrs {
		if _, ok := resp.Schema.Attributes[attr]; !ok {
			t.Errorf("Schema() missing attribute: %s", attr)
		}
	}

	nameAttr, ok := resp.Schema.Attributes["name"]
	if !ok {
		t.Fatal("Schema() missing attribute: name")
	}
	if !nameAttr.IsRequired() {
		t.Error("name should be required")
	}
}

func TestMapStatusToModel(t *testing.T) {
	status := &client.ConnectorStatus{
		Name: "file-sink-1",
		Connector: client.ConnectorStateInfo{
			State:    client.StateRunning,
			WorkerID: "worker-1:8083",
		},
		Tasks: []client.TaskStatus{
			{ID: 0, State: client.StateRunning, WorkerID: "worker-1:8083"},
			{ID: 1, State: client.StateFailed, WorkerID: "worker-2:8083", Trace: "java.lang.NullPointerException"},
		},
		Type: "sink",
	}

	var model ConnectorStatusDataSourceModel
	mapStatusToModel(status, &model)

	if model.Name.ValueString() != "file-sink-1" {
		t.Errorf("Name = %q", model.Name.ValueString())
	}
	if model.State.ValueString() != "RUNNING" {
		t.Errorf("State = %q, want RUNNING", model.State.ValueString())
	}
	if model.Health.ValueString() != "degraded" {
		t.Errorf("Health = %q, want degraded (one task failed)", model.Health.ValueString())
	}
	if len(model.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(model.Tasks))
	}
	if model.Tasks[1].ID.ValueInt64() != 1 {
		t.Errorf("Tasks[1].ID = %d, want 1", model.Tasks[1].ID.ValueInt64())
	}
	if model.Tasks[1].State.ValueString() != "FAILED" {
		t.Errorf("Tasks[1].State = %q, want FAILED", model.Tasks[1].State.ValueString())
	}
	if model.Tasks[1].Trace.ValueString() == "" {
		t.Error("Tasks[1].Trace should carry the failure trace")
	}
}

func TestMapStatusToModel_HealthyConnector(t *testing.T) {
	status := &client.ConnectorStatus{
		Name: "source-1",
		Connector: client.ConnectorStateInfo{
			State:    client.StateRunning,
			WorkerID: "worker-1:8083",
		},
		Tasks: []client.TaskStatus{
			{ID: 0, State: client.StateRunning, WorkerID: "worker-1:8083"},
		},
		Type: "source",
	}

	var model ConnectorStatusDataSourceModel
	mapStatusToModel(status, &model)

	if model.Health.ValueString() != "healthy" {
		t.Errorf("Health = %q, want healthy", model.Health.ValueString())
	}
}
