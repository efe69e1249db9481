package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/routes"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "router-test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })

	return routes.SetupRouter(), db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) (*models.User, string) {
	t.Helper()

	hashed, err := utils.HashPassword("password1")
	require.NoError(t, err)
	user := models.User{Email: email, Password: hashed, Name: "Seed", Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return &user, token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "joao@test.com", "password": "password1", "name": "João",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "joao@test.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "joao@test.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	token := body["token"].(string)

	w = doJSON(r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "joao@test.com", user["email"])
}

func TestTrackHabitEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	user, token := seedUser(t, db, "habit@test.com", models.RoleUser)

	// no token
	w := doJSON(r, http.MethodPost, "/api/habits/track", "", gin.H{
		"userId": user.ID, "type": "water", "value": 2.0, "date": "2026-03-10",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// missing fields
	w = doJSON(r, http.MethodPost, "/api/habits/track", token, gin.H{
		"type": "water", "value": 2.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = doJSON(r, http.MethodPost, "/api/habits/track", token, gin.H{
		"userId": user.ID, "type": "water", "value": 2.0, "date": "2026-03-10",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 5, body["coins"])

	// unknown type
	w = doJSON(r, http.MethodPost, "/api/habits/track", token, gin.H{
		"userId": user.ID, "type": "gaming", "value": 2.0, "date": "2026-03-10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHabitsEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	user, token := seedUser(t, db, "list@test.com", models.RoleUser)

	// userId query param is mandatory
	w := doJSON(r, http.MethodGet, "/api/habits", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/habits/track", token, gin.H{
		"userId": user.ID, "type": "sleep", "value": 7.5, "date": "2026-03-10",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/habits?userId=%d&date=2026-03-10", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	habits := decode(t, w)["habits"].([]interface{})
	assert.Len(t, habits, 1)

	w = doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/habits?userId=%d&date=2026-03-11", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["habits"])
}

func TestHabitSummaryEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	user, token := seedUser(t, db, "summary@test.com", models.RoleUser)

	today := time.Now().Format("2006-01-02")
	for _, payload := range []gin.H{
		{"userId": user.ID, "type": "water", "value": 2.0, "date": today},
		{"userId": user.ID, "type": "food", "value": "lunch", "date": today},
		{"userId": user.ID, "type": "food", "value": "dinner", "date": today},
	} {
		w := doJSON(r, http.MethodPost, "/api/habits/track", token, payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/habits/summary/%d", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)["summary"].(map[string]interface{})
	assert.EqualValues(t, 2.0, summary["water"])
	assert.EqualValues(t, 2, summary["food"])
	assert.Equal(t, "neutral", summary["mood"])
}

func TestManualEstimateEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	_, token := seedUser(t, db, "steps@test.com", models.RoleUser)

	// manual entry is rejected while permission is still pending
	w := doJSON(r, http.MethodPost, "/api/steps/estimate", token, gin.H{
		"durationMinutes": 20, "intensity": "moderate",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/steps/permission", token, gin.H{"granted": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/steps/estimate", token, gin.H{
		"durationMinutes": 20, "intensity": "moderate",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2400, body["stepsAdded"])
	assert.EqualValues(t, 2400, body["total"])
}

func TestSubscriptionEndpoints(t *testing.T) {
	r, db := setupRouter(t)
	user, token := seedUser(t, db, "sub@test.com", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/subscriptions/create", token, gin.H{
		"plan": "monthly", "paymentMethod": "pix",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	subID := body["subscriptionId"].(string)
	assert.Contains(t, body["qrCode"], "br.gov.bcb.pix")

	w = doJSON(r, http.MethodPost, "/api/subscriptions/confirm", token, gin.H{
		"subscriptionId": subID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isPremium"])

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/subscriptions/status/%d", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["isPremium"])
	assert.EqualValues(t, 100, body["coins"])
}

func TestAdviceEndpointPaywall(t *testing.T) {
	r, db := setupRouter(t)
	_, token := seedUser(t, db, "freeuser@test.com", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/ai/research", token, gin.H{
		"question": "how do I sleep better?",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["requiresPayment"])
}

func TestAdminGating(t *testing.T) {
	r, db := setupRouter(t)
	_, userToken := seedUser(t, db, "plain@test.com", models.RoleUser)
	_, adminToken := seedUser(t, db, "root@test.com", models.RoleAdmin)

	w := doJSON(r, http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.EqualValues(t, 2, stats["totalUsers"])
}

func TestPagSeguroWebhookAuth(t *testing.T) {
	r, db := setupRouter(t)
	user, _ := seedUser(t, db, "hook@test.com", models.RoleUser)
	t.Setenv("PAGSEGURO_WEBHOOK_TOKEN", "hook-secret")

	payload := gin.H{
		"event":        "subscription_charged",
		"customer":     gin.H{"email": user.Email},
		"subscription": gin.H{"id": "ext-1"},
	}

	w := doJSON(r, http.MethodPost, "/api/webhook/pagseguro", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/pagseguro",
		bytes.NewReader(mustJSON(t, payload)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-auth-token", "hook-secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.True(t, fresh.IsPremium)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
