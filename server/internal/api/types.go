package api

import (
	"github.com/fairwaylab/golfcoach/pkg/types"
	"github.com/fairwaylab/golfcoach/server/internal/dashboard"
	"github.com/fairwaylab/golfcoach/server/internal/quota"
	"github.com/fairwaylab/golfcoach/server/internal/swing"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Repository string `json:"repository"`
	Storage    string `json:"storage"`
}

// SignupRequest is the body of POST /api/v1/users.
type SignupRequest struct {
	Name string `json:"name"`
}

// LevelRequest is the body of PATCH /api/v1/users/{id}/level.
type LevelRequest struct {
	Level string `json:"level"`
}

// UserResponse wraps a user with a status message.
type UserResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze. It describes the
// uploaded swing video; the video itself is never sent.
type AnalyzeRequest struct {
	UserID   string `json:"user_id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
	Lang     string `json:"lang,omitempty"`
}

// AnalyzeResponse is the payload for POST /api/v1/analyze.
type AnalyzeResponse struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	FileName string            `json:"file_name"`
	Seed     swing.Seed        `json:"seed"`
	Metrics  swing.Metrics     `json:"metrics"`
	Result   swing.Result      `json:"result"`
	Insight  dashboard.Insight `json:"insight"`
	Usage    quota.Usage       `json:"usage"`
}

// QuotaErrorResponse is the 429 payload when the daily quota is spent.
type QuotaErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Usage   quota.Usage `json:"usage"`
}

// ScoreRequest is the body of POST /api/v1/score. Empty swing_path means
// Neutral and empty impact_timing means Good.
type ScoreRequest struct {
	AddressScore *int   `json:"address_score"`
	BalanceScore *int   `json:"balance_score"`
	SwingPath    string `json:"swing_path"`
	ImpactTiming string `json:"impact_timing"`
	Lang         string `json:"lang,omitempty"`
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse is the payload for POST /api/v1/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
	Rule  string `json:"rule"`
}

// DashboardResponse is the payload for GET /api/v1/users/{id}/dashboard.
type DashboardResponse struct {
	User     types.User        `json:"user"`
	Radar    dashboard.Radar   `json:"radar"`
	Missions dashboard.Board   `json:"missions"`
	Usage    quota.Usage       `json:"usage"`
	Insight  dashboard.Insight `json:"insight"`
}

// limitResponse is the 403 payload when the roster is full.
type limitResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorResponse is the standard error body.
type errorResponse struct {
	Error string `json:"error"`
}
