package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"civic-reporter-api/controllers"
	"civic-reporter-api/models"
	"civic-reporter-api/routes"
	"civic-reporter-api/store"
	"civic-reporter-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memIssueStore is an in-memory IssueStore implementing the same filter
// semantics as the Mongo store, plus call recording for assertions.
type memIssueStore struct {
	issues           []models.Issue
	lastFilter       store.ListFilter
	lastAddressQuery string
	updateCalls      int
}

func (s *memIssueStore) Insert(_ context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	s.issues = append(s.issues, *issue)
	return nil
}

func (s *memIssueStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	for i := range s.issues {
		if s.issues[i].ID == id {
			out := s.issues[i]
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (s *memIssueStore) Find(_ context.Context, f store.ListFilter) ([]models.Issue, error) {
	s.lastFilter = f

	out := []models.Issue{}
	for _, issue := range s.issues {
		if f.Category != "" && issue.Category != f.Category {
			continue
		}
		if f.Status != "" && issue.Status != f.Status {
			continue
		}
		if f.Owner != nil && (issue.CreatedBy == nil || *issue.CreatedBy != *f.Owner) {
			continue
		}
		if f.Search != "" &&
			!containsFold(issue.Title, f.Search) &&
			!containsFold(issue.Description, f.Search) &&
			!containsFold(issue.Address, f.Search) {
			continue
		}
		out = append(out, issue)
	}

	asc := f.Ordering == store.OrderOldest
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memIssueStore) FindByAddress(_ context.Context, query string) ([]models.Issue, error) {
	s.lastAddressQuery = query

	out := []models.Issue{}
	for _, issue := range s.issues {
		if query == "" || containsFold(issue.Address, query) {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (s *memIssueStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Issue, error) {
	s.updateCalls++
	for i := range s.issues {
		if s.issues[i].ID == id {
			s.issues[i].Status = status
			out := s.issues[i]
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

type memUserStore struct {
	users []models.User
}

func (s *memUserStore) Insert(_ context.Context, user *models.User) error {
	for i := range s.users {
		if s.users[i].Username == user.Username {
			return store.ErrDuplicateUsername
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			out := s.users[i]
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range s.users {
		if s.users[i].Username == username {
			out := s.users[i]
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

// newTestServer wires the real routes and middlewares over in-memory
// stores. Redis is not configured in tests, so the rate limiter is a
// pass-through.
func newTestServer(t *testing.T, issues *memIssueStore, users *memUserStore, policy models.StatusPolicy) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	routes.AuthRoutes(r, controllers.NewAuthController(users))
	routes.IssueRoutes(r, controllers.NewIssueController(issues, policy, t.TempDir()))
	return r
}

func seedUser(t *testing.T, users *memUserStore, username, password string, role models.Role) models.User {
	t.Helper()
	user := models.User{Username: username, Password: password, Role: role, CreatedAt: time.Now()}
	require.NoError(t, user.HashPassword())
	require.NoError(t, users.Insert(context.Background(), &user))
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
