package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"growest_connect/cache"
	"growest_connect/db"
	_ "growest_connect/docs" // swagger docs
	"growest_connect/logger"
	"growest_connect/models"
	"growest_connect/repository"
	"growest_connect/services"
	"growest_connect/utils"
)

// CORS allows the browser frontend to call the API cross-origin. Preflight
// requests are answered with 204 and no body.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdvancedMatchHandler godoc
// @Summary Generate AI-assisted matches for a user
// @Description Runs the matching pipeline: fetches candidates by preferences, scores them with the AI scorer (baseline fallback), ranks, persists and notifies.
// @Tags matching
// @Accept json
// @Produce json
// @Param request body models.MatchRequest true "Match request"
// @Success 200 {object} models.MatchResponse "Ranked matches"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "Profile not found"
// @Failure 500 {object} models.ErrorResponse "Pipeline failure"
// @Router /api/match/advanced [post]
func AdvancedMatchHandler(w http.ResponseWriter, r *http.Request, matcher services.MatchGenerator) {
	var req models.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := matcher.GenerateMatches(r.Context(), &req)
	if err != nil {
		logger.Error("matching pipeline failed", "user_id", req.UserID, "error", err)
		status := http.StatusInternalServerError
		if utils.IsSQLNoRowsError(err) {
			status = http.StatusNotFound
		}
		utils.WriteError(w, status, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewMatchResponse(result))
}

// GetUserMatchesHandler godoc
// @Summary Get persisted matches for a user
// @Description Returns the user's stored matches, best score first.
// @Tags matching
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} models.DataResponse "Persisted matches"
// @Failure 500 {object} models.ErrorResponse "Database error"
// @Router /api/match/{user_id} [get]
func GetUserMatchesHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		utils.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	matches, err := repository.GetMatchesForUser(userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteData(w, matches)
}

// GetUserNotificationsHandler godoc
// @Summary Get recent notifications for a user
// @Tags notifications
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Maximum rows returned" default(20)
// @Success 200 {object} models.DataResponse "Notifications"
// @Failure 500 {object} models.ErrorResponse "Database error"
// @Router /api/notifications/{user_id} [get]
func GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		utils.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	notifications, err := repository.GetNotificationsForUser(userID, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteData(w, notifications)
}

// HealthHandler godoc
// @Summary Service health
// @Description Pings the database and the score cache.
// @Tags health
// @Produce json
// @Success 200 {object} models.DataResponse "Healthy"
// @Failure 503 {object} models.ErrorResponse "Dependency down"
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := db.DB.PingContext(ctx); err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "database unreachable: "+err.Error())
		return
	}

	redisStatus := "ok"
	if cache.Client != nil {
		if err := cache.Client.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	} else {
		redisStatus = "disabled"
	}

	utils.WriteData(w, map[string]string{
		"database": "ok",
		"cache":    redisStatus,
	})
}

func RegisterRoutes(r *chi.Mux, matcher services.MatchGenerator) {
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/healthz", HealthHandler)

	r.Post("/api/match/advanced", func(w http.ResponseWriter, r *http.Request) {
		AdvancedMatchHandler(w, r, matcher)
	})

	r.Get("/api/match/{user_id}", GetUserMatchesHandler)

	r.Get("/api/notifications/{user_id}", GetUserNotificationsHandler)
}
