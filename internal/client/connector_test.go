package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestListConnectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/connectors" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`["file-sink-1","jdbc-source-2"]`))
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	names, err := c.ListConnectors(context.Background())
	if err != nil {
		t.Fatalf("ListConnectors() error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"file-sink-1", "jdbc-source-2"}) {
		t.Errorf("names = %v", names)
	}
}

func TestListConnectorsExpanded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expand := r.URL.Query()["expand"]
		if len(expand) != 2 {
			t.Errorf("expand params = %v, want info and status", expand)
		}
		w.Write([]byte(`{
			"file-sink-1": {
				"info": {"name":"file-sink-1","config":{"topics":"t1"},"tasks":[{"connector":"file-sink-1","task":0}],"type":"sink"},
				"status": {"name":"file-sink-1","connector":{"state":"RUNNING","worker_id":"w1:8083"},"tasks":[],"type":"sink"}
			}
		}`))
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	result, err := c.ListConnectorsExpanded(context.Background(), true, true)
	if err != nil {
		t.Fatalf("ListConnectorsExpanded() error: %v", err)
	}
	exp, ok := result["file-sink-1"]
	if !ok {
		t.Fatal("missing file-sink-1 entry")
	}
	if exp.Info == nil || exp.Info.Config["topics"] != "t1" {
		t.Errorf("info = %+v", exp.Info)
	}
	if exp.Status == nil || exp.Status.Connector.State != StateRunning {
		t.Errorf("status = %+v", exp.Status)
	}
}

func TestListConnectorsExpanded_RequiresExpansion(t *testing.T) {
	c := New("http://unused", "", "", "1.0.0")
	_, err := c.ListConnectorsExpanded(context.Background(), false, false)
	if err == nil {
		t.Fatal("ListConnectorsExpanded() without expansions should error before any request")
	}
}

func TestGetConnector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/connectors/file-sink-1" {
			t.Errorf("path = %s, want /connectors/file-sink-1", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ConnectorInfo{
			Name:   "file-sink-1",
			Config: map[string]string{"connector.class": "FileStreamSink"},
			Tasks:  []TaskID{{Connector: "file-sink-1", Task: 0}},
			Type:   "sink",
		})
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	info, err := c.GetConnector(context.Background(), "file-sink-1")
	if err != nil {
		t.Fatalf("GetConnector() error: %v", err)
	}
	if info.Name != "file-sink-1" {
		t.Errorf("Name = %q", info.Name)
	}
	if len(info.Tasks) != 1 || info.Tasks[0].Task != 0 {
		t.Errorf("Tasks = %v", info.Tasks)
	}
}

func TestGetConnector_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error_code":404,"message":"Connector missing not found"}`))
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	_, err := c.GetConnector(context.Background(), "missing")
	if err == nil {
		t.Fatal("GetConnector() should return error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("error should be detected as not found: %v", err)
	}
	if IsMalformed(err) {
		t.Error("a 404 must never classify as malformed")
	}
}

func TestGetConnectorConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/connectors/file-sink-1/config" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"connector.class":"FileStreamSink","file":"/tmp/out"}`))
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	config, err := c.GetConnectorConfig(context.Background(), "file-sink-1")
	if err != nil {
		t.Fatalf("GetConnectorConfig() error: %v", err)
	}
	if config["file"] != "/tmp/out" {
		t.Errorf("config = %v", config)
	}
}

func TestCreateConnector(t *testing.T) {
	config := map[string]string{
		"connector.class": "FileStreamSink",
		"file":            "/tmp/out",
		"topics":          "t1",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/connectors" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}

		var req connectorCreateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Name != "file-sink-1" {
			t.Errorf("request name = %q", req.Name)
		}
		if !reflect.DeepEqual(req.Config, config) {
			t.Errorf("request config = %v", req.Config)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ConnectorInfo{
			Name:   req.Name,
			Config: req.Config,
			Tasks:  []TaskID{},
			Type:   "sink",
		})
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	info, err := c.CreateConnector(context.Background(), "file-sink-1", config)
	if err != nil {
		t.Fatalf("CreateConnector() error: %v", err)
	}
	if info.Name != "file-sink-1" {
		t.Errorf("Name = %q", info.Name)
	}
	// Tasks populate asynchronously after creation.
	if len(info.Tasks) != 0 {
		t.Errorf("Tasks = %v, want none immediately after creation", info.Tasks)
	}
	if !reflect.DeepEqual(info.Config, config) {
		t.Errorf("Config = %v, want submitted config round-tripped", info.Config)
	}
}

func TestCreateConnector_NameExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error_code":409,"message":"Connector file-sink-1 already exists"}`))
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	_, err := c.CreateConnector(context.Background(), "file-sink-1", map[string]string{})
	if !IsConflict(err) {
		t.Errorf("POST of an existing name should classify as conflict, got %v", err)
	}
}

func TestUpdateConnectorConfig_RoundTrip(t *testing.T) {
	config := map[string]string{"connector.class": "FileStreamSink", "topics": "t1"}
	store := map[string]map[string]string{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/connectors/file-sink-1/config":
			var cfg map[string]string
			json.NewDecoder(r.Body).Decode(&cfg)
			store["file-sink-1"] = cfg
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(ConnectorInfo{Name: "file-sink-1", Config: cfg, Tasks: []TaskID{}})
		case r.Method == http.MethodGet && r.URL.Path == "/connectors/file-sink-1":
			json.NewEncoder(w).Encode(ConnectorInfo{Name: "file-sink-1", Config: store["file-sink-1"], Tasks: []TaskID{}})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	if _, err := c.UpdateConnectorConfig(context.Background(), "file-sink-1", config); err != nil {
		t.Fatalf("UpdateConnectorConfig() error: %v", err)
	}
	info, err := c.GetConnector(context.Background(), "file-sink-1")
	if err != nil {
		t.Fatalf("GetConnector() error: %v", err)
	}
	if !reflect.DeepEqual(info.Config, config) {
		t.Errorf("Config = %v, want %v round-tripped", info.Config, config)
	}
}

func TestDeleteConnector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/connectors/file-sink-1" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	if err := c.DeleteConnector(context.Background(), "file-sink-1"); err != nil {
		t.Errorf("DeleteConnector() error: %v", err)
	}
}

func TestDeleteConnector_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error_code":404,"message":"Connector gone not found"}`))
	}))
	defer server.Close()

	c := New(server.URL, "", "", "1.0.0")
	err := c.DeleteConnector(context.Background(), "gone")
	if !IsNotFound(err) {
		t.Errorf("deleting an absent connector should surface not found, got %v", err)
	}
}

func TestConnectorPath_EscapesName(t *testing.T) {
	if got := connectorPath("weird name/1", "status"); got != "/connectors/weird%20name%2F1/status" {
		t.Errorf("connectorPath() = %q", got)
	}
}
