package webserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/config"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/feed"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/tabular"
)

func newTestRouter(adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		AdminKey:       adminKey,
		JWTSecret:      "test-jwt-secret",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	svc := feed.NewService(tabular.NewMemory(), nil)
	return New(cfg, svc)
}

func doGet(t *testing.T, router *gin.Engine, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func doPost(t *testing.T, router *gin.Engine, payload any) map[string]any {
	t.Helper()
	var buf []byte
	switch p := payload.(type) {
	case string:
		buf = []byte(p)
	default:
		var err error
		buf, err = json.Marshal(p)
		require.NoError(t, err)
	}
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestUnknownAction(t *testing.T) {
	router := newTestRouter("sekrit")
	_, body := doGet(t, router, "/?action=nope")
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unknown action: nope", body["error"])
	assert.Contains(t, body["hint"], "action=issues")
	assert.NotEmpty(t, body["updatedAt"])
}

func TestPing(t *testing.T) {
	router := newTestRouter("sekrit")
	_, body := doGet(t, router, "/?action=ping")
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pong", body["message"])
	assert.Equal(t, "memory", body["storeName"])
}

func TestJSONPWrapping(t *testing.T) {
	router := newTestRouter("sekrit")
	w, _ := doGet(t, router, "/?action=issues&callback=cb_42")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/javascript")
	payload := w.Body.String()
	assert.True(t, strings.HasPrefix(payload, "cb_42("))
	assert.True(t, strings.HasSuffix(payload, ");"))

	var body map[string]any
	inner := strings.TrimSuffix(strings.TrimPrefix(payload, "cb_42("), ");")
	require.NoError(t, json.Unmarshal([]byte(inner), &body))
	assert.Equal(t, true, body["success"])
}

func TestJSONPRejectsBadCallbackName(t *testing.T) {
	router := newTestRouter("sekrit")
	w, body := doGet(t, router, "/?action=issues&callback=alert(1)//")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, true, body["success"])
}

func TestAdminActionBadKey(t *testing.T) {
	router := newTestRouter("sekrit")
	_, body := doGet(t, router, "/?action=admin-issues&adminKey=wrong")
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorised (bad key)", body["error"])

	_, body = doGet(t, router, "/?action=admin-issues")
	assert.Equal(t, "Unauthorised (bad key)", body["error"])
}

func TestAdminActionFailsClosedWithoutKeyConfigured(t *testing.T) {
	router := newTestRouter("")
	_, body := doGet(t, router, "/?action=admin-issues&adminKey=anything")
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "ADMIN_KEY not configured", body["error"])
}

func TestSubmitAndModerateFlow(t *testing.T) {
	router := newTestRouter("sekrit")

	body := doPost(t, router, map[string]any{
		"action":        "submit-issue",
		"title":         "Water outage",
		"description":   "No water for 3 days",
		"submitterName": "Jane",
		"contact":       "jane@example.com",
	})
	require.Equal(t, true, body["success"])
	id, _ := body["id"].(string)
	require.True(t, strings.HasPrefix(id, "ISSUE-"))

	_, feedBody := doGet(t, router, "/?action=issues")
	issues := feedBody["issues"].([]any)
	require.Len(t, issues, 1)
	first := issues[0].(map[string]any)
	assert.Equal(t, "j***e@example.com", first["contact"])
	assert.Equal(t, "Pending", first["status"])

	body = doPost(t, router, map[string]any{
		"action":           "update-status",
		"adminKey":         "sekrit",
		"id":               id,
		"status":           "Solved",
		"resolutionReason": "Repaired",
	})
	require.Equal(t, true, body["success"])

	_, feedBody = doGet(t, router, "/?action=issues")
	first = feedBody["issues"].([]any)[0].(map[string]any)
	assert.Equal(t, "Solved", first["status"])
	byStatus := feedBody["byStatus"].(map[string]any)
	assert.Equal(t, float64(1), byStatus["solved"])

	// The same mutation must also work via GET query parameters.
	_, body = doGet(t, router, fmt.Sprintf("/?action=update-status&secret=sekrit&id=%s&status=in-process", id))
	require.Equal(t, true, body["success"])
	_, feedBody = doGet(t, router, "/?action=issues")
	first = feedBody["issues"].([]any)[0].(map[string]any)
	assert.Equal(t, "In-Process", first["status"])
}

func TestVerifyResponseFlow(t *testing.T) {
	router := newTestRouter("sekrit")

	body := doPost(t, router, map[string]any{
		"action":          "submit-response",
		"respondentName":  "Water Dept",
		"respondentEmail": "press@water.gov.za",
		"responseContent": "Crews are on site.",
	})
	require.Equal(t, true, body["success"])
	id := body["id"].(string)

	_, feedBody := doGet(t, router, "/?action=responses")
	assert.Len(t, feedBody["responses"].([]any), 0)

	body = doPost(t, router, map[string]any{
		"action":   "admin-verify-response",
		"secret":   "sekrit",
		"id":       id,
		"verified": true,
	})
	require.Equal(t, true, body["success"])
	assert.Equal(t, true, body["verified"])

	_, feedBody = doGet(t, router, "/?action=responses")
	responses := feedBody["responses"].([]any)
	require.Len(t, responses, 1)
	assert.Equal(t, "p***s@water.gov.za", responses[0].(map[string]any)["respondentEmail"])
}

func TestUpdateIssueMissingAndUnknownID(t *testing.T) {
	router := newTestRouter("sekrit")

	body := doPost(t, router, map[string]any{"action": "update-status", "adminKey": "sekrit"})
	assert.Equal(t, "Missing id", body["error"])

	body = doPost(t, router, map[string]any{"action": "update-status", "adminKey": "sekrit", "id": "ISSUE-x"})
	assert.Equal(t, "Issue not found: ISSUE-x", body["error"])
}

func TestAdminLoginAndBearerToken(t *testing.T) {
	router := newTestRouter("sekrit")

	body := doPost(t, router, map[string]any{"action": "admin-login", "adminKey": "wrong"})
	assert.Equal(t, "Unauthorised (bad key)", body["error"])

	body = doPost(t, router, map[string]any{"action": "admin-login", "adminKey": "sekrit"})
	require.Equal(t, true, body["success"])
	token := body["token"].(string)
	require.NotEmpty(t, token)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/?action=admin-issues", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var feedBody map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feedBody))
	assert.Equal(t, true, feedBody["success"])
}

func TestInvalidJSONBody(t *testing.T) {
	router := newTestRouter("sekrit")
	body := doPost(t, router, "{not json")
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid JSON body", body["error"])
}

func TestSubmitIssueValidation(t *testing.T) {
	router := newTestRouter("sekrit")
	body := doPost(t, router, map[string]any{"action": "submit-issue", "description": "no title"})
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestUnknownPostAction(t *testing.T) {
	router := newTestRouter("sekrit")
	body := doPost(t, router, map[string]any{"action": "drop-tables"})
	assert.Equal(t, "Unknown POST action: drop-tables", body["error"])
}
