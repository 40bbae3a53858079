package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/snapnote/internal/domain"
)

// mockSecrets resolves names from a map.
type mockSecrets struct {
	values map[string]string
}

func (m *mockSecrets) Lookup(name string) (string, error) {
	if v, ok := m.values[name]; ok {
		return v, nil
	}
	return "", domain.NewMissingConfig(name)
}

func newFactory(baseURL string, secrets SecretSource) *Factory {
	return NewFactory(secrets, nil, FactoryConfig{
		BaseURL:       baseURL,
		Version:       "2022-06-28",
		Timeout:       5 * time.Second,
		APIKeyEnv:     "NOTION_API_KEY",
		DatabaseIDEnv: "NOTION_DB_ID",
		Properties:    Properties{Title: "Title", Summary: "Summary", Tags: "Tags"},
	})
}

func validSecrets() *mockSecrets {
	return &mockSecrets{values: map[string]string{
		"NOTION_API_KEY": "secret_test",
		"NOTION_DB_ID":   "db-1",
	}}
}

type pageRequest struct {
	Parent struct {
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
	Properties map[string]map[string][]textSegment `json:"properties"`
}

func TestClient_CreatePage(t *testing.T) {
	const created = `{"object":"page","id":"page-1","url":"https://www.notion.so/page-1","properties":{}}`
	var got pageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/pages" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret_test" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Notion-Version") != "2022-06-28" {
			t.Errorf("unexpected version header: %s", r.Header.Get("Notion-Version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(created))
	}))
	defer server.Close()

	store, err := newFactory(server.URL, validSecrets()).Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	page, err := store.CreatePage(context.Background(), "X", "Y", "a, b, c")
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}
	if string(page.Raw()) != created {
		t.Errorf("descriptor must be returned untouched, got %s", page.Raw())
	}
	if page.ID() != "page-1" {
		t.Errorf("expected page-1, got %q", page.ID())
	}

	if got.Parent.DatabaseID != "db-1" {
		t.Errorf("expected database db-1, got %q", got.Parent.DatabaseID)
	}
	if c := got.Properties["Title"]["title"]; len(c) != 1 || c[0].Text.Content != "X" {
		t.Errorf("unexpected title property: %+v", got.Properties["Title"])
	}
	if c := got.Properties["Summary"]["rich_text"]; len(c) != 1 || c[0].Text.Content != "Y" {
		t.Errorf("unexpected summary property: %+v", got.Properties["Summary"])
	}
	if c := got.Properties["Tags"]["rich_text"]; len(c) != 1 || c[0].Text.Content != "a, b, c" {
		t.Errorf("unexpected tags property: %+v", got.Properties["Tags"])
	}
}

func TestClient_CreatePage_NoDeduplication(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		_, _ = w.Write([]byte(`{"object":"page","id":"p` + string(rune('0'+n)) + `"}`))
	}))
	defer server.Close()

	store, err := newFactory(server.URL, validSecrets()).Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for range 2 {
		if _, err := store.CreatePage(context.Background(), "same", "same", ""); err != nil {
			t.Fatalf("CreatePage failed: %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find database"}`))
	}))
	defer server.Close()

	store, err := newFactory(server.URL, validSecrets()).Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, err = store.CreatePage(context.Background(), "t", "s", "")
	if !errors.Is(err, domain.ErrPageStoreProvider) {
		t.Fatalf("expected ErrPageStoreProvider, got %v", err)
	}
	if !strings.Contains(err.Error(), "object_not_found") {
		t.Errorf("expected notion code in error, got %v", err)
	}
}

func TestClient_PropertyNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/databases/db-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"object":"database","properties":{"Tags":{},"Title":{},"Summary":{}}}`))
	}))
	defer server.Close()

	store, err := newFactory(server.URL+"/", validSecrets()).Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	names, err := store.PropertyNames(context.Background())
	if err != nil {
		t.Fatalf("PropertyNames failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Summary", "Tags", "Title"}) {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestFactory_MissingSecrets(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		missing string
	}{
		{"no key", map[string]string{"NOTION_DB_ID": "db"}, "NOTION_API_KEY"},
		{"no database", map[string]string{"NOTION_API_KEY": "k"}, "NOTION_DB_ID"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFactory("http://127.0.0.1:1", &mockSecrets{values: tc.values})

			_, err := f.Open(context.Background())
			var mce *domain.MissingConfigError
			if !errors.As(err, &mce) || mce.Name != tc.missing {
				t.Fatalf("expected missing %s, got %v", tc.missing, err)
			}
		})
	}
}

func TestFactory_ReadsSecretsOnEveryOpen(t *testing.T) {
	secrets := validSecrets()
	f := newFactory("http://example.invalid", secrets)

	first, err := f.open()
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	secrets.values["NOTION_DB_ID"] = "db-2"
	second, err := f.open()
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if first.databaseID != "db-1" || second.databaseID != "db-2" {
		t.Errorf("expected fresh credentials, got %q then %q", first.databaseID, second.databaseID)
	}
	if first.http != second.http {
		t.Error("expected the http client to be shared")
	}
}

func TestRichText_Chunks(t *testing.T) {
	if got := richText(""); len(got) != 0 {
		t.Errorf("expected no segments for empty text, got %d", len(got))
	}

	long := strings.Repeat("é", maxTextLen*2+5)
	segments := richText(long)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	var joined strings.Builder
	for _, s := range segments {
		if n := len([]rune(s.Text.Content)); n > maxTextLen {
			t.Errorf("segment too long: %d runes", n)
		}
		joined.WriteString(s.Text.Content)
	}
	if joined.String() != long {
		t.Error("segments must concatenate back to the input")
	}
}

func TestParseAPIError_NonJSON(t *testing.T) {
	err := parseAPIError(http.StatusBadGateway, []byte("bad gateway\n"))
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("expected ErrUpstream in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "502: bad gateway") {
		t.Errorf("unexpected message: %v", err)
	}
}
