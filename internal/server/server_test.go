package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/intellihire/internal/config"
	"github.com/jonathan/intellihire/internal/db/sqlite"
	"github.com/jonathan/intellihire/internal/server/ratelimit"
	"github.com/jonathan/intellihire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

type stubGrader struct {
	transcripts [][]types.TranscriptEntry
}

func (g *stubGrader) Generate(_ context.Context, transcript []types.TranscriptEntry) (*types.GeneratedFeedback, error) {
	g.transcripts = append(g.transcripts, transcript)
	return &types.GeneratedFeedback{
		TotalScore: 71,
		CategoryScores: types.CategoryScores{
			{Name: types.CategoryCommunication, Score: 80, Comment: "Clear"},
		},
		Strengths:           types.TextListFromString("Structure\n\nExamples"),
		AreasForImprovement: types.TextListOf("Depth"),
		FinalAssessment:     "Good",
	}, nil
}

type stubQuestioner struct{}

func (stubQuestioner) Generate(_ context.Context, req types.GenerateInterviewRequest) ([]string, error) {
	questions := make([]string, req.Amount)
	for i := range questions {
		questions[i] = "Question about " + req.Role
	}
	return questions, nil
}

type testEnv struct {
	server *Server
	store  *sqlite.Store
	grader *stubGrader
}

type serverOption func(*Config, *Deps)

func withoutGenerators() serverOption {
	return func(_ *Config, d *Deps) {
		d.Grader = nil
		d.Questioner = nil
	}
}

func withRateLimit(rl *ratelimit.Config) serverOption {
	return func(c *Config, _ *Deps) { c.RateLimit = rl }
}

func newTestEnv(t *testing.T, opts ...serverOption) *testEnv {
	t.Helper()
	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	grader := &stubGrader{}
	cfg := Config{
		Port:                  0,
		LatestInterviewsLimit: 20,
		JWT:                   &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1},
		Password:              &config.PasswordConfig{BcryptCost: 10},
		RateLimit:             &ratelimit.Config{Enabled: false},
	}
	deps := Deps{Store: st, Grader: grader, Questioner: stubQuestioner{}}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}

	srv, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(srv.rateLimiter.Stop)
	return &testEnv{server: srv, store: st, grader: grader}
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

// signUp registers a user through the API and returns the session.
func (e *testEnv) signUp(t *testing.T, name, email string) types.SessionResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Success bool                  `json:"success"`
		Data    types.SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env.Data
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) types.Result {
	t.Helper()
	var result types.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), rec.Body.String())
	return result
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) (T, bool) {
	t.Helper()
	var env struct {
		Success bool   `json:"success"`
		Data    T      `json:"data"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data, env.Success
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateInterview_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/interviews", "", map[string]any{"role": "Backend"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"User not authenticated"}`, rec.Body.String())

	latest, err := env.store.ListFinalizedInterviews(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestCreateAndGetInterview(t *testing.T) {
	env := newTestEnv(t)
	session := env.signUp(t, "Ada", "ada@example.com")

	rec := env.do(t, http.MethodPost, "/v1/interviews", session.Token, map[string]any{
		"role":      "Backend Engineer",
		"type":      "Technical",
		"level":     "Senior",
		"techstack": []string{"Go"},
		"questions": []string{"What is a goroutine?"},
		"finalized": true,
		// Ownership always comes from the session
		"userId": "someone-else",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	require.True(t, result.Success, result.Error)
	require.NotEmpty(t, result.ID)

	rec = env.do(t, http.MethodGet, "/v1/interviews/"+result.ID, "", nil)
	interview, ok := decodeData[*types.Interview](t, rec)
	require.True(t, ok)
	require.NotNil(t, interview)
	assert.Equal(t, "Backend Engineer", interview.Role)
	assert.Equal(t, session.User.ID.String(), interview.UserID)
	assert.False(t, interview.CreatedAt.IsZero())
}

func TestGetInterview_Missing(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/interviews/does-not-exist", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":null}`, rec.Body.String())
}

func TestCreateInterview_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	session := env.signUp(t, "Ada", "ada@example.com")

	rec := env.do(t, http.MethodPost, "/v1/interviews", session.Token, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"data":null,"error":"Invalid request body"}`, rec.Body.String())

	tooLong := make([]byte, 201)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	rec = env.do(t, http.MethodPost, "/v1/interviews", session.Token, map[string]any{"role": string(tooLong)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation error: Role - max")
}

func TestLatestInterviews(t *testing.T) {
	env := newTestEnv(t)
	ada := env.signUp(t, "Ada", "ada@example.com")
	bob := env.signUp(t, "Bob", "bob@example.com")

	for _, tc := range []struct {
		token     string
		role      string
		finalized bool
	}{
		{ada.Token, "ada-final", true},
		{ada.Token, "ada-draft", false},
		{bob.Token, "bob-final", true},
		{bob.Token, "bob-draft", false},
	} {
		rec := env.do(t, http.MethodPost, "/v1/interviews", tc.token, map[string]any{"role": tc.role, "finalized": tc.finalized})
		require.True(t, decodeResult(t, rec).Success)
	}

	// Session user is the default caller
	rec := env.do(t, http.MethodGet, "/v1/interviews/latest", ada.Token, nil)
	latest, ok := decodeData[[]types.Interview](t, rec)
	require.True(t, ok)
	require.Len(t, latest, 1)
	assert.Equal(t, "bob-final", latest[0].Role)

	// Explicit userId wins
	rec = env.do(t, http.MethodGet, "/v1/interviews/latest?userId="+bob.User.ID.String(), ada.Token, nil)
	latest, _ = decodeData[[]types.Interview](t, rec)
	require.Len(t, latest, 1)
	assert.Equal(t, "ada-final", latest[0].Role)

	rec = env.do(t, http.MethodGet, "/v1/interviews/latest?limit=1", "", nil)
	latest, _ = decodeData[[]types.Interview](t, rec)
	assert.Len(t, latest, 1)

	for _, bad := range []string{"0", "abc", "101"} {
		rec = env.do(t, http.MethodGet, "/v1/interviews/latest?limit="+bad, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestUserInterviews(t *testing.T) {
	env := newTestEnv(t)
	ada := env.signUp(t, "Ada", "ada@example.com")
	rec := env.do(t, http.MethodPost, "/v1/interviews", ada.Token, map[string]any{"role": "Go"})
	require.True(t, decodeResult(t, rec).Success)

	rec = env.do(t, http.MethodGet, "/v1/users/"+ada.User.ID.String()+"/interviews", "", nil)
	interviews, ok := decodeData[[]types.Interview](t, rec)
	require.True(t, ok)
	require.Len(t, interviews, 1)
	assert.Equal(t, "Go", interviews[0].Role)

	rec = env.do(t, http.MethodGet, "/v1/users/nobody/interviews", "", nil)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestGenerateInterview(t *testing.T) {
	env := newTestEnv(t)
	ada := env.signUp(t, "Ada", "ada@example.com")

	body := map[string]any{"role": "SRE", "level": "Mid", "type": "Technical", "techstack": []string{"Linux"}, "amount": 3}

	rec := env.do(t, http.MethodPost, "/v1/interviews/generate", "", body)
	assert.JSONEq(t, `{"success":false,"error":"User not authenticated"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/v1/interviews/generate", ada.Token, body)
	result := decodeResult(t, rec)
	require.True(t, result.Success, result.Error)

	interview, err := env.store.GetInterview(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, interview)
	assert.True(t, interview.Finalized)
	assert.Len(t, interview.Questions, 3)
	assert.NotEmpty(t, interview.CoverImage)

	rec = env.do(t, http.MethodPost, "/v1/interviews/generate", ada.Token, map[string]any{"role": "SRE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateInterview_NoModel(t *testing.T) {
	env := newTestEnv(t, withoutGenerators())
	ada := env.signUp(t, "Ada", "ada@example.com")

	rec := env.do(t, http.MethodPost, "/v1/interviews/generate", ada.Token,
		map[string]any{"role": "SRE", "level": "Mid", "type": "Technical", "amount": 1})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"generation is not configured"}`, rec.Body.String())
}

func TestFeedbackFlow(t *testing.T) {
	env := newTestEnv(t)
	ada := env.signUp(t, "Ada", "ada@example.com")

	transcript := []map[string]string{
		{"role": "interviewer", "content": "Hi"},
		{"role": "candidate", "content": "Hello"},
	}
	rec := env.do(t, http.MethodPost, "/v1/feedback", ada.Token, map[string]any{
		"interviewId": "iv-1",
		"transcript":  transcript,
	})
	result := decodeResult(t, rec)
	require.True(t, result.Success, result.Error)
	require.NotEmpty(t, result.FeedbackID)
	require.Len(t, env.grader.transcripts, 1)
	assert.Equal(t, "Hello", env.grader.transcripts[0][1].Content)

	rec = env.do(t, http.MethodGet, "/v1/interviews/iv-1/feedback", ada.Token, nil)
	feedback, ok := decodeData[*types.Feedback](t, rec)
	require.True(t, ok)
	require.NotNil(t, feedback)
	assert.Equal(t, result.FeedbackID, feedback.ID)
	assert.Equal(t, ada.User.ID.String(), feedback.UserID)
	assert.Equal(t, []string{"Structure", "Examples"}, feedback.Strengths)

	// Regenerating into the same ID overwrites the record
	rec = env.do(t, http.MethodPost, "/v1/feedback", ada.Token, map[string]any{
		"interviewId": "iv-1",
		"feedbackId":  result.FeedbackID,
		"transcript":  transcript,
	})
	assert.Equal(t, result.FeedbackID, decodeResult(t, rec).FeedbackID)

	// Someone else's feedback is not visible
	rec = env.do(t, http.MethodGet, "/v1/interviews/iv-1/feedback?userId=other", "", nil)
	assert.JSONEq(t, `{"success":true,"data":null}`, rec.Body.String())
}

func TestFeedback_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/feedback", "", map[string]any{"transcript": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Anonymous without an explicit userId
	rec = env.do(t, http.MethodPost, "/v1/feedback", "", map[string]any{"interviewId": "iv-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/interviews/iv-1/feedback", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ada := env.signUp(t, "Ada", "ada@example.com")
	bob := env.signUp(t, "Bob", "bob@example.com")
	env.do(t, http.MethodPost, "/v1/interviews", ada.Token, map[string]any{"role": "mine"})
	env.do(t, http.MethodPost, "/v1/interviews", bob.Token, map[string]any{"role": "theirs", "finalized": true})

	rec := env.do(t, http.MethodGet, "/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/dashboard", ada.Token, nil)
	dashboard, ok := decodeData[types.Dashboard](t, rec)
	require.True(t, ok)
	require.Len(t, dashboard.UserInterviews, 1)
	assert.Equal(t, "mine", dashboard.UserInterviews[0].Role)
	require.Len(t, dashboard.LatestInterviews, 1)
	assert.Equal(t, "theirs", dashboard.LatestInterviews[0].Role)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, withRateLimit(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/v1/feedback", Method: http.MethodPost, Limit: 2, Window: time.Hour, Burst: 2},
		},
	}))

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/v1/feedback", "", "{}")
		assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := env.do(t, http.MethodPost, "/v1/feedback", "", "{}")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_SharedAcrossPathIDs(t *testing.T) {
	env := newTestEnv(t, withRateLimit(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  3,
		DefaultWindow: time.Hour,
	}))

	for _, id := range []string{"a", "b", "c"} {
		rec := env.do(t, http.MethodGet, "/v1/interviews/"+id, "", nil)
		assert.NotEqual(t, http.StatusTooManyRequests, rec.Code, id)
	}

	rec := env.do(t, http.MethodGet, "/v1/interviews/d", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other routes keep their own bucket
	rec = env.do(t, http.MethodGet, "/v1/users/u1/interviews", "", nil)
	assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
}

func TestRoutePath(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/v1/interviews/123", "/v1/interviews/{id}"},
		{http.MethodGet, "/v1/interviews/latest", "/v1/interviews/latest"},
		{http.MethodGet, "/v1/users/u1/interviews", "/v1/users/{id}/interviews"},
		{http.MethodPost, "/v1/feedback", "/v1/feedback"},
		{http.MethodGet, "/health", "/health"},
		{http.MethodGet, "/no/such/route", unmatchedRoute},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			assert.Equal(t, tt.want, env.server.routePath(req))
		})
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodOptions, "/v1/interviews", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	env.server.allowedOrigins = []string{"https://app.example"}
	req := httptest.NewRequest(http.MethodOptions, "/v1/interviews", nil)
	req.Header.Set("Origin", "https://app.example")
	rec = httptest.NewRecorder()
	env.server.withCORS(http.NotFoundHandler()).ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	env.server.withCORS(http.NotFoundHandler()).ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
