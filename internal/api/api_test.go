package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/fitplan/internal/api"
	"alcyxob/fitplan/internal/backup"
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/layout"
	"alcyxob/fitplan/internal/metrics"
	"alcyxob/fitplan/internal/planner"
	"alcyxob/fitplan/internal/repository/local"
	"alcyxob/fitplan/internal/service"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := local.NewMemoryStore()
	logger, _ := logtest.NewNullLogger()
	renderer := layout.NewRenderer(
		layout.WithClock(func() time.Time { return testNow }),
		layout.WithCompression(false),
		layout.WithLogger(logger),
	)
	m, reg := metrics.NewTestManagerAndRegistry()

	workouts := service.NewWorkoutService(store.Workouts(), store.Clients(), planner.NewEditor(nil), nil)
	documents := service.NewDocumentService(store.Workouts(), store.CoachProfiles(), renderer, m, service.DocumentOptions{
		Now: func() time.Time { return testNow },
	})
	svc := api.Services{
		Workouts:     workouts,
		Clients:      service.NewClientService(store.Clients()),
		CoachProfile: service.NewCoachProfileService(store.CoachProfiles()),
		Documents:    documents,
		Backup:       service.NewBackupService(backup.NewCodec(store).WithClock(func() time.Time { return testNow }), m, nil, nil),
		Stats:        service.NewStatsService(store.Workouts(), store.Clients(), documents),
	}
	return api.NewRouter(svc, api.RouterOptions{Metrics: m, Gatherer: reg})
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
}

// Client Alice, plan Sam/Alice/Strength/8, one week, one extra day, one
// exercise, then the PDF.
func TestE2E_BuildAndRenderPlan(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	client := decodeJSON[domain.Client](t, rec)

	rec = do(t, router, http.MethodPost, "/api/v1/workouts", map[string]any{
		"coachName": "Sam", "clientName": "Alice", "workoutType": "Strength", "duration": 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	w := decodeJSON[domain.Workout](t, rec)

	rec = do(t, router, http.MethodPost, "/api/v1/workouts/"+w.ID+"/weeks", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeJSON[service.EditResult](t, rec)
	weekID := res.NodeID
	require.Len(t, res.Workout.Weeks, 1)
	assert.Equal(t, 1, res.Workout.Weeks[0].Number)

	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%s/weeks/%s/days", w.ID, weekID), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res = decodeJSON[service.EditResult](t, rec)
	dayID := res.NodeID
	require.Len(t, res.Workout.Weeks[0].Days, 2)
	assert.Equal(t, "Day 2", res.Workout.Weeks[0].Days[1].Name)

	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%s/weeks/%s/days/%s/exercises", w.ID, weekID, dayID),
		map[string]string{"name": "Squat", "sets": "4", "reps": "8"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res = decodeJSON[service.EditResult](t, rec)
	require.Len(t, res.Workout.Weeks[0].Days[1].Exercises, 1)
	assert.Equal(t, "Squat", res.Workout.Weeks[0].Days[1].Exercises[0].Name)

	rec = do(t, router, http.MethodGet, "/api/v1/workouts/"+w.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=plan-alice.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "plan-alice.pdf", rec.Header().Get("X-Suggested-Path"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	assert.Contains(t, rec.Body.String(), "Squat")

	rec = do(t, router, http.MethodGet, "/api/v1/clients/"+client.ID+"/workouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeJSON[[]domain.Workout](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.Stats{ActiveWorkouts: 1, TotalClients: 1, ExportedPDFs: 1}, decodeJSON[service.Stats](t, rec))
}

func TestDownloadPDF_EncodesUnusualClientNames(t *testing.T) {
	router := newTestRouter(t)
	for name, want := range map[string]string{
		`Zoë "Z" Ortiz`: `plan-zoë-"z"-ortiz.pdf`,
		"Bob Smith":     "plan-bob-smith.pdf",
	} {
		rec := do(t, router, http.MethodPost, "/api/v1/workouts", map[string]any{
			"coachName": "Sam", "clientName": name, "workoutType": "Mass", "duration": 4,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		w := decodeJSON[domain.Workout](t, rec)

		rec = do(t, router, http.MethodGet, "/api/v1/workouts/"+w.ID+"/pdf", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
		require.NoError(t, err, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "attachment", disposition)
		assert.Equal(t, want, params["filename"])
	}
}

func TestE2E_ImportReplacesEverything(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/coach-profile", map[string]string{"name": "Sam"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, router, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Old client"})
	require.Equal(t, http.StatusCreated, rec.Code)

	envelope := `{
		"workouts": [
			{"id": "w1", "coachName": "Sam", "clientName": "Alice", "workoutType": "Strength", "duration": 4, "weeks": [], "createdAt": "2024-01-05T10:00:00.000Z", "updatedAt": "2024-01-06T10:00:00.000Z"},
			{"id": "w2", "coachName": "Sam", "clientName": "Bob", "workoutType": "Mass", "duration": 6, "weeks": []}
		],
		"clients": [{"id": "c1", "name": "Alice"}]
	}`
	rec = do(t, router, http.MethodPost, "/api/v1/backup", envelope)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"workouts":2,"clients":1,"coachProfile":false}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/workouts", nil)
	assert.Len(t, decodeJSON[[]domain.Workout](t, rec), 2)
	rec = do(t, router, http.MethodGet, "/api/v1/clients", nil)
	clients := decodeJSON[[]domain.Client](t, rec)
	require.Len(t, clients, 1)
	assert.Equal(t, "Alice", clients[0].Name)
	rec = do(t, router, http.MethodGet, "/api/v1/coach-profile", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackup_ExportThenMultipartImport(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=backup-2026-10-18.json", rec.Header().Get("Content-Disposition"))
	exported := rec.Body.Bytes()

	rec = do(t, router, http.MethodGet, "/api/v1/backup/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeJSON[backup.Stats](t, rec)
	assert.Equal(t, 1, stats.ClientsCount)
	require.NotNil(t, stats.LastBackup)

	rec = do(t, router, http.MethodDelete, "/api/v1/clients/"+decodeJSON[[]domain.Client](t, do(t, router, http.MethodGet, "/api/v1/clients", nil))[0].ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "backup-2026-10-18.json")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/clients", nil)
	assert.Len(t, decodeJSON[[]domain.Client](t, rec), 1)
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/workouts/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "workout not found")

	rec = do(t, router, http.MethodPost, "/api/v1/workouts", map[string]any{"clientName": "Alice", "workoutType": "Yoga", "duration": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var verr struct {
		Error  string              `json:"error"`
		Fields []domain.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	assert.Len(t, verr.Fields, 3)

	rec = do(t, router, http.MethodPost, "/api/v1/workouts", `{"coachName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/backup", `{"workouts":[],"clients":[],"coachProfile":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "backup format invalid")

	rec = do(t, router, http.MethodPost, "/api/v1/workouts", map[string]any{
		"coachName": "Sam", "clientName": "Alice", "workoutType": "Strength", "duration": 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	w := decodeJSON[domain.Workout](t, rec)

	rec = do(t, router, http.MethodPut, "/api/v1/workouts/"+w.ID, map[string]any{"description": "v2", "version": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, router, http.MethodPut, "/api/v1/workouts/"+w.ID, map[string]any{"description": "stale", "version": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPatch, "/api/v1/workouts/"+w.ID+"/fields", map[string]any{"target": "workout", "field": "version", "value": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPatch, "/api/v1/workouts/"+w.ID+"/fields", map[string]any{"target": "galaxy", "field": "name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/workouts/"+w.ID+"/weeks/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkouts_SearchAndDuplicate(t *testing.T) {
	router := newTestRouter(t)
	for _, c := range []string{"Alice", "Bob"} {
		rec := do(t, router, http.MethodPost, "/api/v1/workouts", map[string]any{
			"coachName": "Sam", "clientName": c, "workoutType": "Strength", "duration": 4,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, router, http.MethodGet, "/api/v1/workouts?q=bob", nil)
	found := decodeJSON[[]domain.Workout](t, rec)
	require.Len(t, found, 1)

	rec = do(t, router, http.MethodPost, "/api/v1/workouts/"+found[0].ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Bob (Copy)", decodeJSON[domain.Workout](t, rec).ClientName)

	rec = do(t, router, http.MethodGet, "/api/v1/workouts?type=Strength", nil)
	assert.Len(t, decodeJSON[[]domain.Workout](t, rec), 3)

	rec = do(t, router, http.MethodDelete, "/api/v1/workouts/"+found[0].ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCoachProfile_Routes(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/coach-profile", map[string]any{"name": "Sam", "instagram": "samfit"})
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decodeJSON[domain.CoachProfile](t, rec)
	assert.Equal(t, "#000000", p.PDFLineColor)
	assert.True(t, p.WatermarkEnabled())

	rec = do(t, router, http.MethodPut, "/api/v1/coach-profile/"+p.ID, map[string]any{"showWatermark": false})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeJSON[domain.CoachProfile](t, rec)
	assert.False(t, updated.WatermarkEnabled())

	rec = do(t, router, http.MethodGet, "/api/v1/coach-profile/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodGet, "/api/v1/coach-profile/other", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_CorsAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/workouts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	do(t, router, http.MethodGet, "/ping", nil)
	rec = do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "fitplan_test_server_request"))
}
