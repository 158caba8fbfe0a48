package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/rabbit-chase-game/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "Wolf and Rabbits Game Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	svc, err := initializeServices("configs")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Game.Close()

	if svc.Game == nil || svc.Sessions == nil || svc.Hub == nil {
		t.Fatalf("Expected every service to be initialized, got %+v", svc)
	}
	if svc.Sessions.Count() != 0 {
		t.Errorf("Expected no matches on start, got %d", svc.Sessions.Count())
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, err := initializeServices("/non/existent/path"); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestCommandFlagDefaults(t *testing.T) {
	cmd := newCommand()

	found := map[string]bool{}
	for _, f := range cmd.Flags {
		switch flag := f.(type) {
		case *cli.IntFlag:
			if flag.Name == "port" && flag.Value != 8080 {
				t.Errorf("Expected default port 8080, got %d", flag.Value)
			}
			found[flag.Name] = true
		case *cli.StringFlag:
			if flag.Name == "host" && flag.Value != "localhost" {
				t.Errorf("Expected default host localhost, got %s", flag.Value)
			}
			if flag.Name == "config-dir" && flag.Value != "configs" {
				t.Errorf("Expected default config dir configs, got %s", flag.Value)
			}
			found[flag.Name] = true
		case *cli.DurationFlag:
			found[flag.Name] = true
		case *cli.BoolFlag:
			found[flag.Name] = true
		}
	}

	for _, name := range []string{"port", "host", "config-dir", "match-ttl", "debug"} {
		if !found[name] {
			t.Errorf("Missing flag %s", name)
		}
	}
}

func TestCommandModes(t *testing.T) {
	cmd := newCommand()

	modes := map[string][]string{}
	for _, sub := range cmd.Commands {
		modes[sub.Name] = sub.Aliases
	}

	if aliases, ok := modes["server"]; !ok || len(aliases) != 1 || aliases[0] != "http" {
		t.Errorf("Expected server mode with alias http, got %v", aliases)
	}
	if aliases, ok := modes["stdio-mcp"]; !ok || len(aliases) != 2 {
		t.Errorf("Expected stdio-mcp mode with two aliases, got %v", aliases)
	}
	if cmd.Action == nil {
		t.Error("Root command should run the server by default")
	}
}

func TestOptionsAddr(t *testing.T) {
	opts := options{Host: "127.0.0.1", Port: 9090}
	if got := opts.addr(); got != "127.0.0.1:9090" {
		t.Errorf("Expected 127.0.0.1:9090, got %s", got)
	}
}

func TestMCPHandler(t *testing.T) {
	handler := mcpHandler(mcp.NewClient("http://127.0.0.1:1"))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	handler(rec, httptest.NewRequest(http.MethodPost, "/mcp", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for ping, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON response, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `"jsonrpc":"2.0"`) {
		t.Errorf("Expected a JSON-RPC response, got %s", rec.Body.String())
	}
}

func TestRouterAndHealthProbe(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	svc, err := initializeServices("configs")
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Game.Close()

	ts := httptest.NewServer(newRouter(svc, mcp.NewClient("http://127.0.0.1:1")))

	resp, err := http.Get(ts.URL + "/api/configs")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from /api/configs, got %d", resp.StatusCode)
	}

	if !externalAPIAvailable(ts.URL) {
		t.Error("Expected the running server to answer the health probe")
	}

	ts.Close()
	if externalAPIAvailable(ts.URL) {
		t.Error("Expected a closed server to fail the health probe")
	}
}
