package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rushteam/pathwise/config"
	_ "github.com/rushteam/pathwise/config/builders"
	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/service"
	"github.com/rushteam/pathwise/store"
)

var datasets = map[string]string{
	"career":    "../service/testdata/career.csv",
	"education": "../service/testdata/education.csv",
	"tesda":     "../service/testdata/tesda.csv",
}

type testServer struct {
	router   *gin.Engine
	registry *model.Registry
	tokens   *TokenIssuer
}

func newTestServer(t *testing.T, loadBundles bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	log := logger.NewTest(t)

	db, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	sql := store.NewSQLStore(db, log)
	require.NoError(t, sql.Migrate(ctx))
	t.Cleanup(func() { _ = sql.Close() })
	kv := store.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })

	bundles := store.NewKVBundleStore(kv, "test:")
	trainer := &service.Trainer{Datasets: datasets, Store: bundles}
	reg := model.NewRegistry(bundles, log)
	if loadBundles {
		for _, p := range core.Pathways() {
			_, err := trainer.Retrain(ctx, p.String())
			require.NoError(t, err)
		}
		require.Equal(t, 3, reg.LoadAll(ctx))
	}

	cfg, err := config.LoadPipelines("")
	require.NoError(t, err)
	pipelines, err := config.BuildPipelines(cfg)
	require.NoError(t, err)

	tokens := NewTokenIssuer("test-secret", time.Hour)
	h := &Handler{
		Recommender: &service.Recommender{
			Registry: reg, Pipelines: pipelines, Responses: sql, Saved: sql, Popular: kv, Prefix: "test:", Log: log,
		},
		Accounts: &service.Accounts{Users: sql, Cost: bcrypt.MinCost},
		Profiles: &service.Profiles{Store: sql},
		Admin: &service.Admin{
			Users: sql, Store: sql, Popular: kv, Prefix: "test:", Trainer: trainer, Registry: reg,
			Username: "admin", Password: "admin-pw", Log: log,
		},
		Registry: reg,
		Tokens:   tokens,
		Log:      log,
	}
	return &testServer{router: NewRouter(h, RouterConfig{}), registry: reg, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	out := map[string]any{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (s *testServer) userToken(t *testing.T, username string) string {
	t.Helper()
	w, _ := s.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username, "password": "pw", "confirm_password": "pw",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w, body := s.do(t, http.MethodPost, "/login", "", map[string]string{"username": username, "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	return body["token"].(string)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, true)

	w, body := s.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "maria", "password": "a", "confirm_password": "b",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "passwords do not match", body["message"])

	token := s.userToken(t, "maria")

	w, _ = s.do(t, http.MethodPost, "/login", "", map[string]string{"username": "maria", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/my_recommendations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = s.do(t, http.MethodGet, "/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, "/admin/login", "", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitPathway(t *testing.T) {
	s := newTestServer(t, true)
	token := s.userToken(t, "maria")

	w, body := s.do(t, http.MethodPost, "/submit_pathway", token, map[string]any{
		"pathway":   "career",
		"responses": map[string]string{"primary_skills": "technical", "industry": "tech"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	recs := body["recommendations"].([]any)
	require.Len(t, recs, 2)
	first := recs[0].(map[string]any)
	assert.Equal(t, "QA Engineer", first["title"])
	assert.Equal(t, 95.0, first["match"])
	assert.Contains(t, first, "metadata")
	assert.NotEmpty(t, w.Header().Get(headerRequestID))

	// 表单里的数字、布尔值按字符串处理，嵌套值被忽略
	w, body = s.do(t, http.MethodPost, "/submit_pathway", token, map[string]any{
		"pathway": "career",
		"responses": map[string]any{
			"primary_skills":   "technical",
			"industry":         "tech",
			"years_experience": 3,
			"relocate":         true,
			"tags":             []string{"qa"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "QA Engineer", body["recommendations"].([]any)[0].(map[string]any)["title"])

	w, body = s.do(t, http.MethodPost, "/submit_pathway", token, map[string]any{
		"pathway":   "education",
		"responses": map[string]string{"education_level": "high_school", "program_type": "graduate"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []any{"shs", "college", "als"}, body["allowed"])

	w, body = s.do(t, http.MethodPost, "/submit_pathway", token, map[string]any{
		"pathway":   "education",
		"responses": map[string]string{"education_level": "graduate", "program_type": "graduate"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "no programs matched")

	w, body = s.do(t, http.MethodPost, "/submit_pathway", token, map[string]any{"pathway": "foo"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["recommendations"])
}

func TestSubmitPathway_ModelsNotReady(t *testing.T) {
	s := newTestServer(t, false)
	token := s.userToken(t, "maria")

	w, body := s.do(t, http.MethodPost, "/submit_pathway", token, map[string]any{"pathway": "tesda"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, body["message"], "try again")

	w, _ = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSavedRecommendations(t *testing.T) {
	s := newTestServer(t, true)
	maria := s.userToken(t, "maria")
	jose := s.userToken(t, "jose")

	w, body := s.do(t, http.MethodPost, "/save_recommendation", maria, map[string]any{
		"pathway":        "tesda",
		"recommendation": map[string]any{"title": "Cookery NC II", "match": 87.5, "metadata": map[string]string{"budget": "free"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	saved := body["saved"].(map[string]any)
	id := int(saved["id"].(float64))

	w, body = s.do(t, http.MethodGet, "/my_recommendations", maria, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := body["recommendations"].([]any)
	require.Len(t, list, 1)
	rec := list[0].(map[string]any)["recommendation"].(map[string]any)
	assert.Equal(t, "Cookery NC II", rec["title"])

	path := "/recommendations/" + itoa(id)
	w, _ = s.do(t, http.MethodDelete, path, jose, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(t, http.MethodDelete, path, maria, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/recommendations/abc", maria, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t, true)
	token := s.userToken(t, "maria")

	w, _ := s.do(t, http.MethodGet, "/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body := s.do(t, http.MethodPost, "/profile", token, map[string]any{"age": 130, "education_level": "senior_high"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["message"], "Age")
	w, _ = s.do(t, http.MethodPost, "/profile", token, map[string]any{"age": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/profile", token, map[string]any{"age": 18, "education_level": "senior_high"})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = s.do(t, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "senior_high", profile["education_level"])
}

func TestAdmin(t *testing.T) {
	s := newTestServer(t, true)
	maria := s.userToken(t, "maria")
	w, _ := s.do(t, http.MethodPost, "/save_recommendation", maria, map[string]any{
		"pathway": "career", "recommendation": map[string]any{"title": "Nurse", "match": 70},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := s.do(t, http.MethodPost, "/admin/login", "", map[string]string{"username": "admin", "password": "admin-pw"})
	require.Equal(t, http.StatusOK, w.Code)
	admin := body["token"].(string)

	w, _ = s.do(t, http.MethodGet, "/my_recommendations", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodGet, "/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, 1.0, stats["total_users"])
	assert.Equal(t, 1.0, stats["total_recommendations"])

	w, body = s.do(t, http.MethodGet, "/admin/recommendations", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recs := body["recommendations"].([]any)
	require.Len(t, recs, 1)
	rec := recs[0].(map[string]any)
	assert.Equal(t, "maria", rec["username"])
	assert.Equal(t, "career", rec["pathway"])
	assert.Equal(t, "Nurse", rec["recommendation"].(map[string]any)["title"])
	recID := int(rec["id"].(float64))

	w, body = s.do(t, http.MethodGet, "/admin/recommendations?pathway=tesda", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["recommendations"])
	w, _ = s.do(t, http.MethodGet, "/admin/recommendations?pathway=nursing", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w, _ = s.do(t, http.MethodGet, "/admin/recommendations", maria, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/admin/recommendation/"+itoa(recID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, body = s.do(t, http.MethodGet, "/admin/recommendations", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["recommendations"])

	w, body = s.do(t, http.MethodGet, "/admin/users?search=mar", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "PasswordHash")

	before, _ := s.registry.Get(core.PathwayCareer)
	w, body = s.do(t, http.MethodPost, "/admin/retrain", admin, map[string]string{"model_type": "career"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"career"}, body["retrained"])
	after, _ := s.registry.Get(core.PathwayCareer)
	assert.NotSame(t, before, after)

	w, _ = s.do(t, http.MethodPost, "/admin/retrain", admin, map[string]string{"model_type": "nursing"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/admin/user/maria", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/admin/user/maria", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenIssuer(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Minute)
	raw, err := tokens.Issue(42, RoleUser)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, RoleUser, claims.Role)

	other := NewTokenIssuer("other", time.Minute)
	_, err = other.Parse(raw)
	assert.Error(t, err)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Parse(raw)
	assert.Error(t, err, "expired")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, true)
	w, _ := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func itoa(n int) string { return strconv.Itoa(n) }
