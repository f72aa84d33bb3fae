package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"lore-server/internal/aiclient"
	"lore-server/internal/analysis"
	"lore-server/internal/authutils"
	"lore-server/internal/mocks"
	"lore-server/internal/models"
	"lore-server/internal/quota"
	"lore-server/internal/ratelimit"
	"lore-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-test-secret"

type harness struct {
	router     *gin.Engine
	locations  *mocks.MockLocationRepository
	factions   *mocks.MockFactionRepository
	items      *mocks.MockItemRepository
	characters *mocks.MockCharacterRepository
	stories    *mocks.MockStoryRepository
	client     *mocks.MockAIClient
	ledger     *quota.MemoryLedger
}

func liveConfig() analysis.Config {
	return analysis.Config{
		Enabled:          true,
		Credentialed:     true,
		Model:            "gpt-4o-mini",
		MaxOutputTokens:  600,
		MaxInputChars:    8000,
		DailyTokenBudget: 1000,
	}
}

func newHarness(t *testing.T, cfg analysis.Config, rate ratelimit.Rate) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	h := &harness{
		locations:  new(mocks.MockLocationRepository),
		factions:   new(mocks.MockFactionRepository),
		items:      new(mocks.MockItemRepository),
		characters: new(mocks.MockCharacterRepository),
		stories:    new(mocks.MockStoryRepository),
		client:     mocks.NewMockAIClient(t),
		ledger:     quota.NewMemoryLedger(time.UTC),
	}
	analyzer := analysis.NewService(analysis.StaticResolver(cfg), h.ledger, h.client, logger)
	svc := service.NewLoreService(service.Repositories{
		Locations:  h.locations,
		Factions:   h.factions,
		Items:      h.items,
		Characters: h.characters,
		Stories:    h.stories,
	}, analyzer, logger)

	verifier, err := authutils.NewJWTVerifier(testSecret, logger)
	require.NoError(t, err)
	limiter := NewAnalyzeRateLimiter(ratelimit.NewGinStore(ratelimit.NewMemoryLimiter(rate), logger), logger)

	h.router = gin.New()
	NewLoreHandler(svc, verifier, limiter, logger).RegisterRoutes(h.router)
	return h
}

func defaultRate() ratelimit.Rate { return ratelimit.Rate{Limit: 100, Period: time.Minute} }

func token(t *testing.T, userID uint64) string {
	t.Helper()
	tok, err := authutils.GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (h *harness) do(t *testing.T, method, path string, userID uint64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+token(t, userID))
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func ownedStory(owner uint64) *models.Story {
	id := owner
	return &models.Story{
		ID: 5, Title: "Dawn", Slug: "dawn", Summary: "A beginning.", Body: "Light rose over the hills.",
		Kind: models.StoryKindStandalone, StoryType: models.StoryTypeLore, Visibility: models.VisibilityPrivate,
		Audit: models.Audit{CreatedBy: &id, Tags: []string{}, ExtraData: map[string]any{}},
	}
}

func intPtr(v int) *int { return &v }

func TestAnalyze_MockMode(t *testing.T) {
	h := newHarness(t, analysis.Config{Enabled: false, MaxInputChars: 8000, MaxOutputTokens: 600}, defaultRate())
	h.stories.On("GetByID", mock.Anything, int64(5)).Return(ownedStory(1), nil).Once()

	w := h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "story", body["entity_type"])
	assert.Equal(t, float64(5), body["entity_id"])
	assert.Equal(t, "Dawn", body["entity_label"])
	assert.Equal(t, []any{"mock-theme"}, body["themes"])
	assert.Contains(t, body["snippet"], "Dawn")

	meta := body["meta"].(map[string]any)
	assert.Equal(t, "mock", meta["ai_mode"])
	assert.Nil(t, meta["model"])
	assert.Equal(t, float64(0), meta["total_tokens"])
}

func TestAnalyze_LiveModeChargesLedger(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	h.stories.On("GetByID", mock.Anything, int64(5)).Return(ownedStory(1), nil).Once()
	h.client.On("Complete", mock.Anything, mock.MatchedBy(func(r aiclient.Request) bool {
		return r.Model == "gpt-4o-mini" && r.JSON && r.MaxTokens == 600
	})).Return(&aiclient.Response{
		Content: `{"summary":"A quiet dawn.","themes":["hope"],"tone":"calm","strengths":["imagery"],"weaknesses":[],"suggestions":["add conflict"]}`,
		Usage:   aiclient.Usage{PromptTokens: intPtr(40), CompletionTokens: intPtr(20), TotalTokens: intPtr(60)},
	}, nil).Once()

	w := h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "A quiet dawn.", body.Summary)
	assert.Equal(t, []string{"hope"}, body.Themes)
	assert.Equal(t, []string{}, body.Weaknesses)
	assert.Empty(t, body.Snippet)
	assert.Equal(t, analysis.ModeLive, body.Meta.AIMode)
	require.NotNil(t, body.Meta.Model)
	assert.Equal(t, "gpt-4o-mini", *body.Meta.Model)
	require.NotNil(t, body.Meta.TotalTokens)
	assert.Equal(t, 60, *body.Meta.TotalTokens)

	used, err := h.ledger.Used(context.Background(), quota.DayOf(time.Now(), time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(60), used)
}

func TestAnalyze_EmptyStory(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	empty := ownedStory(1)
	empty.Title, empty.Summary, empty.Body = "", "", "  "
	h.stories.On("GetByID", mock.Anything, int64(5)).Return(empty, nil).Once()

	w := h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCodeNothingToAnalyze, decodeError(t, w).Code)
}

func TestAnalyze_AuthAndOwnership(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())

	w := h.do(t, http.MethodPost, "/api/stories/5/analyze", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodPost, "/api/stories/5/analyze", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.stories.On("GetByID", mock.Anything, int64(5)).Return(ownedStory(1), nil).Once()
	w = h.do(t, http.MethodPost, "/api/stories/5/analyze", 2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.ErrCodeForbidden, decodeError(t, w).Code)
}

func TestAnalyze_NotFound(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	h.stories.On("GetByID", mock.Anything, int64(404)).Return(nil, models.ErrNotFound).Once()

	w := h.do(t, http.MethodPost, "/api/stories/404/analyze", 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodPost, "/api/stories/abc/analyze", 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyze_BudgetExceeded(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	require.NoError(t, h.ledger.Add(context.Background(), quota.DayOf(time.Now(), time.UTC), 1000))
	h.stories.On("GetByID", mock.Anything, int64(5)).Return(ownedStory(1), nil).Once()

	w := h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.ErrCodeBudgetExceeded, decodeError(t, w).Code)
	h.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestAnalyze_UpstreamFailureIsOpaque(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	h.stories.On("GetByID", mock.Anything, int64(5)).Return(ownedStory(1), nil).Once()
	h.client.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp 10.0.0.7:443: secret-internal-host refused")).Once()

	w := h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, models.ErrCodeAIUnavailable, resp.Code)
	assert.NotContains(t, w.Body.String(), "secret-internal-host")
}

func TestAnalyze_RateLimited(t *testing.T) {
	h := newHarness(t, analysis.Config{Enabled: false, MaxInputChars: 8000}, ratelimit.Rate{Limit: 2, Period: time.Minute})
	h.stories.On("GetByID", mock.Anything, int64(5)).Return(ownedStory(1), nil).Times(2)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil).Code)

	w := h.do(t, http.MethodPost, "/api/stories/5/analyze", 1, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.ErrCodeRateLimited, decodeError(t, w).Code)
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)
}

func TestCRUD_ReadsAreOpen(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	h.locations.On("List", mock.Anything).Return(nil, nil).Once()
	h.items.On("GetByID", mock.Anything, int64(3)).
		Return(&models.Item{ID: 3, Name: "Lamp", Audit: models.Audit{Tags: []string{}, ExtraData: map[string]any{}}}, nil).Once()

	w := h.do(t, http.MethodGet, "/api/locations", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = h.do(t, http.MethodGet, "/api/items/3", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var item map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "Lamp", item["name"])
	assert.Nil(t, item["created_by"])
}

func TestCRUD_InvalidTokenOnReadIsRejected(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCRUD_CreateRequiresAuth(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	w := h.do(t, http.MethodPost, "/api/factions", 0, map[string]any{"name": "Guild"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCRUD_CreateSetsOwner(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	h.characters.On("Create", mock.Anything, mock.MatchedBy(func(ch *models.Character) bool {
		return ch.Name == "Mira" && *ch.CreatedBy == 9 && len(ch.Affiliations) == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Character).ID = 21
	}).Return(nil).Once()

	w := h.do(t, http.MethodPost, "/api/characters", 9, map[string]any{
		"name":         "Mira",
		"age":          30,
		"affiliations": []int{1, 2},
		"created_by":   1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(21), body["id"])
	assert.Equal(t, float64(9), body["created_by"])
	assert.Equal(t, float64(30), body["age"])
}

func TestCRUD_StoryCreateConflict(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	h.stories.On("Create", mock.Anything, mock.Anything).Return(models.ErrConflict).Once()

	w := h.do(t, http.MethodPost, "/api/stories", 1, map[string]any{"title": "Dawn"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.ErrCodeConflict, decodeError(t, w).Code)
}

func TestCRUD_UpdateRules(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	owned := func() *models.Location {
		id := uint64(1)
		return &models.Location{ID: 2, Name: "Harbor", Audit: models.Audit{CreatedBy: &id, Tags: []string{}, ExtraData: map[string]any{}}}
	}
	h.locations.On("GetByID", mock.Anything, int64(2)).Return(owned(), nil).Times(3)
	h.locations.On("Update", mock.Anything, mock.MatchedBy(func(l *models.Location) bool {
		return l.Name == "Harbor" && l.Description == "Salt and rope"
	})).Return(nil).Once()

	w := h.do(t, http.MethodPatch, "/api/locations/2", 2, map[string]any{"description": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(t, http.MethodPut, "/api/locations/2", 1, map[string]any{"description": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPatch, "/api/locations/2", 1, map[string]any{"description": "Salt and rope"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPatch, "/api/locations/2", 1, "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCRUD_Delete(t *testing.T) {
	h := newHarness(t, liveConfig(), defaultRate())
	id := uint64(4)
	h.items.On("GetByID", mock.Anything, int64(8)).Return(&models.Item{ID: 8, Name: "Key", Audit: models.Audit{CreatedBy: &id}}, nil).Once()
	h.items.On("Delete", mock.Anything, int64(8)).Return(nil).Once()
	h.items.On("GetByID", mock.Anything, int64(9)).Return(nil, errors.New("connection reset")).Once()

	w := h.do(t, http.MethodDelete, "/api/items/8", 4, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(t, http.MethodDelete, "/api/items/9", 4, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, models.ErrCodeInternal, decodeError(t, w).Code)
}
