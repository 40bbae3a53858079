package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/config"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"serve", "process", "notion-check", "version"} {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected subcommand %q", name)
			}
		}
	})

	t.Run("has env flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("env")
		if flag == nil {
			t.Fatal("expected env flag")
		}
		if flag.Shorthand != "e" {
			t.Errorf("expected shorthand 'e', got %q", flag.Shorthand)
		}
	})
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "snapnote version ") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestProcessCmd_RequiresImage(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"process"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without an image argument")
	}
}

func TestProcessCmd_MissingFile(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"process", filepath.Join(t.TempDir(), "absent.png")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "read image") {
		t.Fatalf("expected read image error, got %v", err)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{}
	cfg.Notion.EnvFile = filepath.Join(t.TempDir(), "absent.env")
	cfg.Notion.APIKeyEnv = "SNAPNOTE_TEST_NOTION_KEY_UNSET"
	cfg.Notion.DatabaseIDEnv = "SNAPNOTE_TEST_NOTION_DB_UNSET"
	cfg.ApplyDefaults()
	return cfg
}

func TestBuildApp_HealthWithoutCredentials(t *testing.T) {
	a, err := buildApp(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without credentials, got %d", rr.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" {
		t.Errorf("expected error status, got %q", body.Status)
	}
	for _, name := range []string{"ocr", "summarizer", "notion"} {
		if body.Checks[name] != "error" {
			t.Errorf("expected %s error, got %q", name, body.Checks[name])
		}
	}
}

func TestBuildApp_NotionWithoutCredentials(t *testing.T) {
	a, err := buildApp(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/notion", strings.NewReader(`{"title":"X"}`))
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for missing configuration, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBuildApp_UnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.OCR.Engine = "paddle"

	if _, err := buildApp(cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rt := &runtimeEnv{env: "local", cfg: testConfig(t), logger: zap.NewNop()}

	done := make(chan error, 1)
	go func() { done <- runServe(ctx, rt, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
