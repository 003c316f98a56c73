package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylab/golfcoach/server/internal/config"
	"github.com/fairwaylab/golfcoach/server/internal/swing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "golfcoach-server dev\n", out)
}

func TestAnalyze_PrintsEngineResult(t *testing.T) {
	out, err := run(t, "analyze", "--name", "slice_fix.mp4", "--size", "2048", "--type", "video/mp4")
	require.NoError(t, err)

	var got analyzeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	want, err := swing.Analyze(swing.ArtifactDescriptor{Name: "slice_fix.mp4", SizeBytes: 2048, MimeType: "video/mp4"}, swing.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, want.Seed, got.Seed)
	assert.Equal(t, want.Metrics, got.Metrics)
	assert.Equal(t, want.Result, got.Result)
	assert.Equal(t, "slice_fix.mp4", got.FileName)
}

func TestAnalyze_RejectsBadInput(t *testing.T) {
	_, err := run(t, "analyze", "--name", "a.mp4", "--size", "-5")
	assert.ErrorIs(t, err, swing.ErrInvalidInput)

	_, err = run(t, "analyze", "--name", "a.mp4", "--lang", "fr")
	assert.ErrorIs(t, err, swing.ErrInvalidInput)
}

func TestServe_MissingConfigFile(t *testing.T) {
	_, err := run(t, "serve", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestChatRules(t *testing.T) {
	rules, fallback := chatRules(config.ChatConfig{}, "ko")
	assert.NotEmpty(t, rules)
	assert.Contains(t, fallback, "죄송합니다")

	rules, fallback = chatRules(config.ChatConfig{
		Fallback: "Ask your pro.",
		Rules:    []config.ChatRule{{Name: "grip", Keywords: []string{"grip"}, Reply: "Hold it like a bird."}},
	}, "en")
	require.Len(t, rules, 1)
	assert.Equal(t, "grip", rules[0].Name)
	assert.Equal(t, "Ask your pro.", fallback)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("Debug").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}

func TestBuild_NotionNeedsEnv(t *testing.T) {
	cfg := config.Default().Server
	cfg.Repository.Backend = "notion"
	cfg.Notion.TokenEnv = "GOLFCOACH_TEST_UNSET_TOKEN"
	cfg.Notion.UsersDBEnv = "GOLFCOACH_TEST_UNSET_USERS"
	cfg.Notion.AnalysesDBEnv = "GOLFCOACH_TEST_UNSET_ANALYSES"

	_, err := build(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOLFCOACH_TEST_UNSET_TOKEN")
}

func newTestApp(t *testing.T, mutate func(*config.ServerConfig)) *app {
	t.Helper()
	cfg := config.Default().Server
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestHandler_RoutesAPIAndMetrics(t *testing.T) {
	a := newTestApp(t, func(c *config.ServerConfig) {
		c.Storage.Backend = "sqlite"
		c.Storage.Path = filepath.Join(t.TempDir(), "golfcoach.db")
	})
	h := a.handler("")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"storage":"sqlite"`)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "golfcoach_http_requests_total")
}

func TestHandler_ServesUIWithFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>coach</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	h := newTestApp(t, nil).handler(dir)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/42", nil))
	assert.Contains(t, rr.Body.String(), "coach")
}

func TestReload_SwitchesLocaleAndRules(t *testing.T) {
	a := newTestApp(t, nil)
	h := a.handler("")

	cfg := config.Default().Server
	cfg.Locale = "ko"
	cfg.Chat.Rules = []config.ChatRule{{Name: "grip", Keywords: []string{"grip"}, Reply: "그립을 가볍게 잡으세요."}}
	a.reload(cfg)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"my grip is tight"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"rule":"grip"`)

	board, err := a.missions.Board(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "로그인 후 출석체크", board.Missions[2].Text)
}
