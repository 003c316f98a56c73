package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fairwaylab/golfcoach/server/internal/api"
	"github.com/fairwaylab/golfcoach/server/internal/auth"
	"github.com/fairwaylab/golfcoach/server/internal/chat"
	"github.com/fairwaylab/golfcoach/server/internal/config"
	"github.com/fairwaylab/golfcoach/server/internal/dashboard"
	"github.com/fairwaylab/golfcoach/server/internal/notify"
	"github.com/fairwaylab/golfcoach/server/internal/notion"
	"github.com/fairwaylab/golfcoach/server/internal/quota"
	"github.com/fairwaylab/golfcoach/server/internal/repo"
	"github.com/fairwaylab/golfcoach/server/internal/store"
	"github.com/fairwaylab/golfcoach/server/internal/swing"
	"github.com/fairwaylab/golfcoach/server/internal/telemetry"
	"github.com/fairwaylab/golfcoach/server/internal/ws"
)

// usageStore is a store backend: quota counters, mission completions and
// background pruning.
type usageStore interface {
	quota.Counter
	dashboard.Tracker
	Run(ctx context.Context)
}

// roster is a repository backend.
type roster interface {
	repo.UserRepository
	repo.AnalysisRepository
}

// app holds every long-lived component of a running server.
type app struct {
	cfg      config.ServerConfig
	store    usageStore
	repo     roster
	missions *dashboard.Service
	chat     *chat.Responder
	notifier *notify.Notifier
	metrics  *telemetry.Registry
	hub      *ws.Hub
	api      *api.Handler

	closers []func() error
}

// build constructs the components described by cfg. Call close when done.
func build(ctx context.Context, cfg config.ServerConfig) (*app, error) {
	a := &app{cfg: cfg}
	loc := cfg.Location()

	st, err := a.openStore(ctx, cfg.Storage, loc)
	if err != nil {
		return nil, err
	}
	a.store = st

	r, err := openRepository(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.repo = r

	rules, fallback := chatRules(cfg.Chat, cfg.Locale)
	a.chat = chat.NewResponder(rules, fallback, cfg.Chat.Delay)
	a.missions = dashboard.NewService(st, loc, cfg.Locale)
	a.notifier = notify.New(cfg.Notify)
	a.metrics = telemetry.New()
	a.hub = ws.New(r, cfg.Hub.Interval)

	a.api = api.New(api.Deps{
		Users:          r,
		Analyses:       r,
		Gate:           quota.NewGate(st, quota.Policy{FreeDailyLimit: cfg.Quota.FreeDailyLimit}, loc),
		Missions:       a.missions,
		Chat:           a.chat,
		Metrics:        a.metrics,
		Hub:            a.hub,
		Events:         a.notifier,
		Admin:          auth.HTTPMiddleware(cfg.Auth.Mode, cfg.Auth.EffectiveHeader(), cfg.Auth.Key()),
		Locale:         swing.Language(cfg.Locale),
		MaxUsers:       cfg.Signup.MaxUsers,
		RepositoryName: cfg.Repository.Backend,
		StorageName:    cfg.Storage.Backend,
		Location:       loc,
	})
	return a, nil
}

func (a *app) openStore(ctx context.Context, c config.StorageConfig, loc *time.Location) (usageStore, error) {
	switch c.Backend {
	case "sqlite":
		s, err := store.OpenSQLite(ctx, c.Path, c.Retention, loc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		slog.Info("store: sqlite opened", "path", c.Path, "retention", c.Retention)
		return s, nil
	default:
		return store.NewMemory(c.Retention, loc), nil
	}
}

func openRepository(ctx context.Context, cfg config.ServerConfig) (roster, error) {
	if cfg.Repository.Backend != "notion" {
		slog.Warn("repository: using in-memory roster; users are lost on restart")
		return repo.NewMemory(), nil
	}

	n := cfg.Notion
	token, users, analyses := n.Token(), n.UsersDB(), n.AnalysesDB()
	var missing []string
	for env, val := range map[string]string{n.TokenEnv: token, n.UsersDBEnv: users, n.AnalysesDBEnv: analyses} {
		if val == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("repository: notion backend needs %s set", strings.Join(missing, ", "))
	}

	client, err := notion.NewClient(token, notion.Options{BaseURL: n.BaseURL, Version: n.Version, Timeout: n.Timeout})
	if err != nil {
		return nil, err
	}
	r := notion.NewRepository(client, notion.Databases{Users: users, Analyses: analyses})
	if err := r.Check(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// chatRules converts configured rules, falling back to the built-in rules for
// locale when none are set.
func chatRules(c config.ChatConfig, locale string) ([]chat.Rule, string) {
	rules, fallback := chat.DefaultRules(locale)
	if len(c.Rules) > 0 {
		rules = make([]chat.Rule, len(c.Rules))
		for i, r := range c.Rules {
			rules[i] = chat.Rule{Name: r.Name, Keywords: r.Keywords, Reply: r.Reply}
		}
	}
	if c.Fallback != "" {
		fallback = c.Fallback
	}
	return rules, fallback
}

// reload applies the hot-reloadable parts of cfg.
func (a *app) reload(cfg config.ServerConfig) {
	rules, fallback := chatRules(cfg.Chat, cfg.Locale)
	a.chat.SetRules(rules, fallback)
	a.api.SetLocale(swing.Language(cfg.Locale))
	a.missions.SetLocale(cfg.Locale)
	logLevel.Set(parseLevel(cfg.Log.Level))
	slog.Info("config: applied", "locale", cfg.Locale, "chat_rules", len(rules), "log_level", cfg.Log.Level)
}

// handler returns the top-level HTTP mux.
func (a *app) handler(uiDir string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", a.api)
	mux.Handle("/ws/stream", a.hub)
	mux.Handle("/metrics", a.metrics.Handler())

	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if uiDir != "" {
		fs := http.FileServer(http.Dir(uiDir))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := filepath.Join(uiDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				http.ServeFile(w, r, filepath.Join(uiDir, "index.html"))
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", uiDir)
	}
	return mux
}

// close releases store handles and waits for pending webhook deliveries.
func (a *app) close() {
	if a.notifier != nil {
		a.notifier.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("shutdown: close failed", "err", err)
		}
	}
}
