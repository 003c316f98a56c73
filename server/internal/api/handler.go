package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fairwaylab/golfcoach/pkg/types"
	"github.com/fairwaylab/golfcoach/server/internal/chat"
	"github.com/fairwaylab/golfcoach/server/internal/dashboard"
	"github.com/fairwaylab/golfcoach/server/internal/notify"
	"github.com/fairwaylab/golfcoach/server/internal/quota"
	"github.com/fairwaylab/golfcoach/server/internal/repo"
	"github.com/fairwaylab/golfcoach/server/internal/swing"
	"github.com/fairwaylab/golfcoach/server/internal/telemetry"
	"github.com/fairwaylab/golfcoach/server/internal/ws"
)

const maxBodyBytes = 1 << 20

// Publisher pushes live events to connected dashboards. *ws.Hub satisfies it.
type Publisher interface {
	Publish(event string, data any)
}

// EventSink receives roster notifications. *notify.Notifier satisfies it.
type EventSink interface {
	Emit(e notify.Event)
	Recent(limit int) []notify.Event
}

// Deps are the collaborators a Handler needs. Hub, Events and Admin are
// optional.
type Deps struct {
	Users    repo.UserRepository
	Analyses repo.AnalysisRepository
	Gate     *quota.Gate
	Missions *dashboard.Service
	Chat     *chat.Responder
	Metrics  *telemetry.Registry
	Hub      Publisher
	Events   EventSink
	// Admin wraps admin-only routes, usually auth.HTTPMiddleware.
	Admin    func(http.Handler) http.Handler

	Locale         swing.Language
	MaxUsers       int
	RepositoryName string
	StorageName    string
	Location       *time.Location
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	deps Deps
	mux  *http.ServeMux
	now  func() time.Time

	mu     sync.RWMutex
	locale swing.Language
}

// New creates a Handler from deps and registers all routes.
func New(deps Deps) *Handler {
	if deps.Admin == nil {
		deps.Admin = func(next http.Handler) http.Handler { return next }
	}
	if deps.Metrics == nil {
		deps.Metrics = telemetry.New()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Locale == "" {
		deps.Locale = swing.LangEnglish
	}
	h := &Handler{deps: deps, mux: http.NewServeMux(), now: time.Now, locale: deps.Locale}

	h.handle("/api/v1/health", h.health)
	h.handle("/api/v1/users", h.users)
	h.mux.HandleFunc("/api/v1/users/", h.userSubtree) // subtree, extracts {id}
	h.handle("/api/v1/analyze", h.analyze)
	h.handle("/api/v1/score", h.score)
	h.handle("/api/v1/chat", h.chat)
	h.mux.Handle("/api/v1/events", h.instrument("/api/v1/events", h.deps.Admin(http.HandlerFunc(h.events))))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// SetLocale switches the default comment and message language.
func (h *Handler) SetLocale(l swing.Language) {
	h.mu.Lock()
	h.locale = l
	h.mu.Unlock()
}

func (h *Handler) currentLocale() swing.Language {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.locale
}

func (h *Handler) handle(route string, fn http.HandlerFunc) {
	h.mux.Handle(route, h.instrument(route, fn))
}

func (h *Handler) instrument(route string, next http.Handler) http.Handler {
	return h.deps.Metrics.Instrument(route, next)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:     "OK",
		Message:    "Golf AI System is running",
		Repository: h.deps.RepositoryName,
		Storage:    h.deps.StorageName,
	})
}

// users serves GET /api/v1/users[?name=] and POST /api/v1/users.
func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if name := r.URL.Query().Get("name"); name != "" {
			u, err := h.deps.Users.FindByName(r.Context(), name)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			jsonResp(w, http.StatusOK, u)
			return
		}
		list, err := h.deps.Users.List(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if list == nil {
			list = []types.User{}
		}
		jsonResp(w, http.StatusOK, list)
	case http.MethodPost:
		h.signup(w, r)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// signup handles POST /api/v1/users. A name already on the roster returns
// that user; a full roster returns 403 LIMIT_REACHED.
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonErr(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx := r.Context()
	roster, err := h.deps.Users.List(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for _, u := range roster {
		if strings.EqualFold(u.Name, name) {
			jsonResp(w, http.StatusOK, UserResponse{Message: "User exists", User: u})
			return
		}
	}
	if h.deps.MaxUsers > 0 && len(roster) >= h.deps.MaxUsers {
		jsonResp(w, http.StatusForbidden, limitResponse{
			Error:   "LIMIT_REACHED",
			Message: h.limitMessage(),
		})
		return
	}

	u, err := h.deps.Users.Create(ctx, name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.deps.Metrics.IncSignup()
	h.emit(notify.Event{
		Type:     notify.EventUserSignup,
		UserID:   u.ID,
		UserName: u.Name,
		Message:  fmt.Sprintf("%s joined the roster (%d/%d)", u.Name, len(roster)+1, h.deps.MaxUsers),
	})
	slog.Info("api: user created", "user", u.ID, "name", u.Name)
	jsonResp(w, http.StatusCreated, UserResponse{Message: "User created", User: u})
}

// userSubtree dispatches /api/v1/users/{id}[/...].
func (h *Handler) userSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/users/"), "/")
	if rest == "" {
		// Bare /api/v1/users/ behaves like the collection.
		h.instrument("/api/v1/users", http.HandlerFunc(h.users)).ServeHTTP(w, r)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]

	var route string
	var next http.Handler
	switch {
	case len(parts) == 1:
		route, next = "/api/v1/users/{id}", h.withUser(id, h.getUser)
	case len(parts) == 2 && parts[1] == "level":
		route, next = "/api/v1/users/{id}/level", h.deps.Admin(h.withID(id, h.updateLevel))
	case len(parts) == 2 && parts[1] == "dashboard":
		route, next = "/api/v1/users/{id}/dashboard", h.withUser(id, h.dashboard)
	case len(parts) == 2 && parts[1] == "missions":
		route, next = "/api/v1/users/{id}/missions", h.withUser(id, h.missions)
	case len(parts) == 2 && parts[1] == "usage":
		route, next = "/api/v1/users/{id}/usage", h.withUser(id, h.usage)
	case len(parts) == 4 && parts[1] == "missions" && parts[3] == "complete":
		mission := parts[2]
		route = "/api/v1/users/{id}/missions/{mission}/complete"
		next = h.withUser(id, func(w http.ResponseWriter, r *http.Request, u types.User) {
			h.completeMission(w, r, u, mission)
		})
	default:
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}
	h.instrument(route, next).ServeHTTP(w, r)
}

// withID adapts a handler that needs only the path id.
func (h *Handler) withID(id string, fn func(http.ResponseWriter, *http.Request, string)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { fn(w, r, id) })
}

// withUser resolves the path id to a user before calling fn. Unknown ids get 404.
func (h *Handler) withUser(id string, fn func(http.ResponseWriter, *http.Request, types.User)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := h.deps.Users.Get(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		fn(w, r, u)
	})
}

// getUser returns GET /api/v1/users/{id}.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, u types.User) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, u)
}

// updateLevel handles PATCH /api/v1/users/{id}/level (admin).
func (h *Handler) updateLevel(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req LevelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !types.ValidLevel(req.Level) {
		jsonErr(w, http.StatusBadRequest, fmt.Sprintf("level %q unknown: want one of %s", req.Level, strings.Join(types.Levels, ", ")))
		return
	}

	u, err := h.deps.Users.UpdateLevel(r.Context(), id, req.Level)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.emit(notify.Event{
		Type:     notify.EventLevelChanged,
		UserID:   u.ID,
		UserName: u.Name,
		Message:  fmt.Sprintf("%s is now %s", u.Name, u.Level),
	})
	h.publish(ws.EventLevelChanged, u)
	slog.Info("api: level updated", "user", u.ID, "level", u.Level)
	jsonResp(w, http.StatusOK, UserResponse{Message: "Level updated", User: u})
}

// dashboard returns GET /api/v1/users/{id}/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request, u types.User) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()
	board, err := h.deps.Missions.Board(ctx, u.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	usage, err := h.deps.Gate.Usage(ctx, u.ID, quota.TierForLevel(u.Level))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, DashboardResponse{
		User:     u,
		Radar:    dashboard.ComputeRadar(u.GrowthIndex),
		Missions: board,
		Usage:    usage,
		Insight:  dashboard.EliteInsight(u.Level, string(h.currentLocale())),
	})
}

// missions returns GET /api/v1/users/{id}/missions.
func (h *Handler) missions(w http.ResponseWriter, r *http.Request, u types.User) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	board, err := h.deps.Missions.Board(r.Context(), u.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, board)
}

// completeMission handles POST /api/v1/users/{id}/missions/{mission}/complete
// and returns the updated board.
func (h *Handler) completeMission(w http.ResponseWriter, r *http.Request, u types.User, mission string) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := strconv.Atoi(mission)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "mission id must be an integer")
		return
	}
	ctx := r.Context()
	if err := h.deps.Missions.Complete(ctx, u.ID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	board, err := h.deps.Missions.Board(ctx, u.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, board)
}

// usage returns GET /api/v1/users/{id}/usage.
func (h *Handler) usage(w http.ResponseWriter, r *http.Request, u types.User) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	usage, err := h.deps.Gate.Usage(r.Context(), u.ID, quota.TierForLevel(u.Level))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, usage)
}

// analyze handles POST /api/v1/analyze: quota gate, seed, metrics, score,
// persist, mission 1, then broadcast.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		jsonErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	lang, err := h.language(req.Lang)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	desc := swing.ArtifactDescriptor{Name: req.FileName, SizeBytes: req.FileSize, MimeType: req.MimeType}
	if err := desc.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	u, err := h.deps.Users.Get(ctx, req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tier := quota.TierForLevel(u.Level)
	dec, err := h.deps.Gate.Admit(ctx, u.ID, tier)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	usage := h.deps.Gate.Report(u.ID, tier, dec.NewCount)
	if !dec.Allowed {
		h.deps.Metrics.IncQuotaDenied()
		h.emit(notify.Event{
			Type:     notify.EventQuotaExhausted,
			UserID:   u.ID,
			UserName: u.Name,
			Message:  fmt.Sprintf("%s used all %d free analyses today", u.Name, usage.Limit),
		})
		jsonResp(w, http.StatusTooManyRequests, QuotaErrorResponse{
			Error:   "QUOTA_EXCEEDED",
			Message: h.quotaMessage(usage.Limit, lang),
			Usage:   usage,
		})
		return
	}

	a, err := swing.Analyze(desc, lang)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	rec := types.AnalysisRecord{
		UserID:           u.ID,
		Level:            u.Level,
		Name:             "Analysis " + now.In(h.deps.Location).Format("2006-01-02 15:04:05"),
		FileName:         desc.Name,
		FileSize:         desc.SizeBytes,
		MimeType:         desc.MimeType,
		Seed:             uint32(a.Seed),
		AddressScore:     a.Metrics.AddressScore,
		BalanceScore:     a.Metrics.BalanceScore,
		SwingPath:        a.Metrics.SwingPath.String(),
		ImpactTiming:     a.Metrics.ImpactTiming.String(),
		ConsistencyScore: a.Result.ConsistencyScore,
		Comment:          a.Result.Comment,
		CreatedAt:        now,
	}
	id, err := h.deps.Analyses.SaveAnalysis(ctx, rec)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.deps.Missions.Complete(ctx, u.ID, dashboard.MissionAnalyze); err != nil {
		slog.Warn("api: mission update failed", "user", u.ID, "mission", dashboard.MissionAnalyze, "err", err)
	}
	h.deps.Metrics.IncAnalysis(a.Metrics.SwingPath.String())

	resp := AnalyzeResponse{
		ID:       id,
		UserID:   u.ID,
		FileName: desc.Name,
		Seed:     a.Seed,
		Metrics:  a.Metrics,
		Result:   a.Result,
		Insight:  dashboard.EliteInsight(u.Level, string(lang)),
		Usage:    usage,
	}
	h.publish(ws.EventAnalysis, resp)
	slog.Info("api: analysis saved",
		"user", u.ID,
		"analysis", id,
		"score", a.Result.ConsistencyScore,
		"path", a.Metrics.SwingPath.String(),
	)
	jsonResp(w, http.StatusOK, resp)
}

// score handles POST /api/v1/score for caller-supplied metrics.
func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req ScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AddressScore == nil || req.BalanceScore == nil {
		jsonErr(w, http.StatusBadRequest, "address_score and balance_score are required")
		return
	}
	if req.SwingPath == "" {
		req.SwingPath = swing.PathNeutral.String()
	}
	if req.ImpactTiming == "" {
		req.ImpactTiming = swing.TimingGood.String()
	}
	path, err := swing.ParseSwingPath(req.SwingPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	timing, err := swing.ParseImpactTiming(req.ImpactTiming)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	lang, err := h.language(req.Lang)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	m := swing.Metrics{
		AddressScore: *req.AddressScore,
		BalanceScore: *req.BalanceScore,
		SwingPath:    path,
		ImpactTiming: timing,
	}
	if err := m.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, swing.ScoreIn(lang, m))
}

// chat handles POST /api/v1/chat. A known user_id also completes mission 2.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		jsonErr(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()
	if req.UserID != "" {
		if _, err := h.deps.Users.Get(ctx, req.UserID); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	ans, err := h.deps.Chat.Reply(ctx, req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.deps.Metrics.IncChatReply(ans.Rule)

	if req.UserID != "" {
		if err := h.deps.Missions.Complete(ctx, req.UserID, dashboard.MissionAskCoach); err != nil {
			slog.Warn("api: mission update failed", "user", req.UserID, "mission", dashboard.MissionAskCoach, "err", err)
		}
	}
	jsonResp(w, http.StatusOK, ChatResponse{Reply: ans.Reply, Rule: ans.Rule})
}

// events returns GET /api/v1/events[?limit=] (admin): recent notifications,
// newest first.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.deps.Events == nil {
		jsonResp(w, http.StatusOK, []notify.Event{})
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			jsonErr(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	jsonResp(w, http.StatusOK, h.deps.Events.Recent(limit))
}

// --- helpers ----------------------------------------------------------------

func (h *Handler) language(s string) (swing.Language, error) {
	if s == "" {
		return h.currentLocale(), nil
	}
	return swing.ParseLanguage(s)
}

func (h *Handler) emit(e notify.Event) {
	if h.deps.Events != nil {
		h.deps.Events.Emit(e)
	}
}

func (h *Handler) publish(event string, data any) {
	if h.deps.Hub != nil {
		h.deps.Hub.Publish(event, data)
	}
}

func (h *Handler) limitMessage() string {
	if h.currentLocale() == swing.LangKorean {
		return fmt.Sprintf("선착순 %d명 모집이 마감되었습니다. 다음 기수를 기다려주세요!", h.deps.MaxUsers)
	}
	return fmt.Sprintf("All %d spots are taken. Please wait for the next cohort!", h.deps.MaxUsers)
}

func (h *Handler) quotaMessage(limit int, lang swing.Language) string {
	if lang == swing.LangKorean {
		return fmt.Sprintf("무료 회원은 하루 %d회까지만 분석이 가능합니다. Pro로 업그레이드하고 무제한 분석을 경험하세요!", limit)
	}
	return fmt.Sprintf("Free members can run %d analyses per day. Upgrade to Pro for unlimited analyses!", limit)
}

// fail maps err to a status code. Persistence failures are logged and
// reported generically.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, swing.ErrInvalidInput), errors.Is(err, quota.ErrInvalidInput):
		jsonErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrUserNotFound):
		jsonErr(w, http.StatusNotFound, "user not found")
	case errors.Is(err, dashboard.ErrUnknownMission):
		jsonErr(w, http.StatusNotFound, "mission not found")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		slog.Debug("api: request cancelled", "path", r.URL.Path)
	default:
		slog.Error("api: backend failure", "method", r.Method, "path", r.URL.Path, "err", err)
		jsonErr(w, http.StatusBadGateway, "backend unavailable")
	}
}

// decodeBody decodes a JSON request body into v. On failure it writes 400 and
// returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
