package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/fairwaylab/golfcoach/pkg/types"
	"github.com/fairwaylab/golfcoach/server/internal/repo"
)

// Users database property names.
const (
	propName        = "Name"
	propLevel       = "Level"
	propLevelStatus = "Level Status"
	propGrowth      = "Growth Index"
)

// Swing Analysis database property names.
const (
	propUser         = "User"
	propAnalysisName = "Analysis Name"
	propAddress      = "Address Angle"
	propBalance      = "Balance Score"
	propSwingPath    = "Swing Path"
	propImpact       = "Impact Timing"
	propConsistency  = "Consistency Score"
	propComment      = "AI Comment"
)

const defaultUserName = "Unnamed"

// Databases names the Notion databases the repository reads and writes.
type Databases struct {
	Users    string
	Analyses string
}

// Repository implements repo.UserRepository and repo.AnalysisRepository on
// Notion databases.
type Repository struct {
	client *notionapi.Client
	dbs    Databases
	now    func() time.Time
}

// NewRepository returns a Repository backed by client.
func NewRepository(client *notionapi.Client, dbs Databases) *Repository {
	return &Repository{client: client, dbs: dbs, now: time.Now}
}

// Check retrieves the users database and logs its property names and row
// count. It is run once at startup.
func (r *Repository) Check(ctx context.Context) error {
	db, err := r.client.Database.Get(ctx, notionapi.DatabaseID(r.dbs.Users))
	if err != nil {
		return fmt.Errorf("notion: retrieve users database: %w", err)
	}
	names := make([]string, 0, len(db.Properties))
	for name := range db.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	pages, err := r.queryAll(ctx, r.dbs.Users, nil)
	if err != nil {
		return fmt.Errorf("notion: query users database: %w", err)
	}
	slog.Info("notion: users database reachable",
		"database", r.dbs.Users,
		"properties", names,
		"rows", len(pages),
	)
	return nil
}

// queryAll follows next_cursor until has_more is false.
func (r *Repository) queryAll(ctx context.Context, db string, sorts []notionapi.SortObject) ([]notionapi.Page, error) {
	req := &notionapi.DatabaseQueryRequest{Sorts: sorts, PageSize: maxPageSize}
	var pages []notionapi.Page
	for {
		resp, err := r.client.Database.Query(ctx, notionapi.DatabaseID(db), req)
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

func (r *Repository) List(ctx context.Context) ([]types.User, error) {
	pages, err := r.queryAll(ctx, r.dbs.Users, []notionapi.SortObject{
		{Property: propName, Direction: notionapi.SortOrderASC},
	})
	if err != nil {
		return nil, fmt.Errorf("notion: list users: %w", err)
	}
	users := make([]types.User, len(pages))
	for i, p := range pages {
		users[i] = userFromPage(p)
	}
	return users, nil
}

func (r *Repository) Get(ctx context.Context, id string) (types.User, error) {
	p, err := r.userPage(ctx, id, "get user")
	if err != nil {
		return types.User{}, err
	}
	return userFromPage(*p), nil
}

// userPage retrieves id and rejects pages outside the users database.
func (r *Repository) userPage(ctx context.Context, id, op string) (*notionapi.Page, error) {
	p, err := r.client.Page.Get(ctx, notionapi.PageID(id))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("notion: %s: %w", op, repo.ErrUserNotFound)
		}
		return nil, fmt.Errorf("notion: %s: %w", op, err)
	}
	if p.Parent.Type != notionapi.ParentTypeDatabaseID || !sameID(string(p.Parent.DatabaseID), r.dbs.Users) {
		return nil, fmt.Errorf("notion: %s: page %s is not in the users database: %w", op, id, repo.ErrUserNotFound)
	}
	return p, nil
}

// FindByName lists the roster and matches names case-insensitively; the
// title filter in the Notion API is case-sensitive.
func (r *Repository) FindByName(ctx context.Context, name string) (types.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return types.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, name) {
			return u, nil
		}
	}
	return types.User{}, repo.ErrUserNotFound
}

func (r *Repository) Create(ctx context.Context, name string) (types.User, error) {
	p, err := r.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: notionapi.DatabaseID(r.dbs.Users)},
		Properties: notionapi.Properties{
			propName:        titleProp(name),
			propLevel:       selectProp(types.LevelDefault),
			propLevelStatus: selectProp(types.StatusInProgress),
			propGrowth:      numberProp(0),
		},
	})
	if err != nil {
		return types.User{}, fmt.Errorf("notion: create user: %w", err)
	}
	return userFromPage(*p), nil
}

func (r *Repository) UpdateLevel(ctx context.Context, id, level string) (types.User, error) {
	if _, err := r.userPage(ctx, id, "update level"); err != nil {
		return types.User{}, err
	}
	p, err := r.client.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{propLevel: selectProp(level)},
	})
	if err != nil {
		if isNotFound(err) {
			return types.User{}, fmt.Errorf("notion: update level: %w", repo.ErrUserNotFound)
		}
		return types.User{}, fmt.Errorf("notion: update level: %w", err)
	}
	return userFromPage(*p), nil
}

// SaveAnalysis creates a Swing Analysis page related to rec.UserID. The
// analyses database stores Level as a number, so a non-numeric level is
// left empty. Failures, including a missing database, are backend errors.
func (r *Repository) SaveAnalysis(ctx context.Context, rec types.AnalysisRecord) (string, error) {
	created := rec.CreatedAt
	if created.IsZero() {
		created = r.now()
	}
	name := rec.Name
	if name == "" {
		name = "Analysis " + created.Format("2006-01-02 15:04:05")
	}
	level := rec.Level
	if level == "" {
		level = types.LevelDefault
	}

	props := notionapi.Properties{
		propUser:         relationProp(rec.UserID),
		propAnalysisName: titleProp(name),
		propAddress:      numberProp(float64(rec.AddressScore)),
		propBalance:      numberProp(float64(rec.BalanceScore)),
		propSwingPath:    selectProp(rec.SwingPath),
		propImpact:       selectProp(rec.ImpactTiming),
		propConsistency:  numberProp(float64(rec.ConsistencyScore)),
		propComment:      textProp(rec.Comment),
	}
	if n, err := strconv.Atoi(level); err == nil {
		props[propLevel] = numberProp(float64(n))
	}

	p, err := r.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent:     notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: notionapi.DatabaseID(r.dbs.Analyses)},
		Properties: props,
	})
	if err != nil {
		return "", fmt.Errorf("notion: save analysis: %w", err)
	}
	return string(p.ID), nil
}

func userFromPage(p notionapi.Page) types.User {
	u := types.User{
		ID:          string(p.ID),
		Name:        plainText(p.Properties[propName]),
		Level:       selectName(p.Properties[propLevel]),
		Status:      selectName(p.Properties[propLevelStatus]),
		GrowthIndex: numberValue(p.Properties[propGrowth]),
	}
	if u.Name == "" {
		u.Name = defaultUserName
	}
	if u.Level == "" {
		u.Level = types.LevelDefault
	}
	if u.Status == "" {
		u.Status = types.StatusInProgress
	}
	return u
}

// isNotFound reports whether err is a Notion "object_not_found" response.
func isNotFound(err error) bool {
	var apiErr *notionapi.Error
	return errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Code == "object_not_found")
}
