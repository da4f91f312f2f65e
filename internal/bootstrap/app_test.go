package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outreach-backend/internal/history"
	"outreach-backend/internal/profiles"
	"outreach-backend/internal/shared/config"
)

func TestBuildWithoutDatabaseUsesDocumentStorage(t *testing.T) {
	app, err := Build(config.Config{LocalStoreDir: t.TempDir(), LLMProvider: "openai"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if _, ok := app.ProfilesRepo.(*profiles.DocumentRepo); !ok {
		t.Fatalf("expected document profiles repo, got %T", app.ProfilesRepo)
	}
	if _, ok := app.HistoryRepo.(*history.DocumentRepo); !ok {
		t.Fatalf("expected document history repo, got %T", app.HistoryRepo)
	}
	if _, ok := app.Search.Get(); ok {
		t.Fatalf("expected search to be absent without a key")
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/history/u1", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"history":[]`) {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestBuildWithSearchKeyEnablesCapability(t *testing.T) {
	app, err := Build(config.Config{LocalStoreDir: t.TempDir(), ExaAPIKey: "exa-test"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()
	if _, ok := app.Search.Get(); !ok {
		t.Fatalf("expected search capability to be present")
	}
}

func TestGenerateWithoutProviderReturnsBadGateway(t *testing.T) {
	app, err := Build(config.Config{LocalStoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/user/profile", strings.NewReader(`{"uuid":"u1","profile_text":"Jane Doe, engineer"}`))
	req.Header.Set("Content-Type", "application/json")
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 from placeholder client, got %d %s", resp.Code, resp.Body.String())
	}
}
