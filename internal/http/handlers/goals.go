package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/metrics"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// GoalHandler owns savings-goal endpoints. Listings and lookups return
// goals enriched with derived progress metrics; nothing derived is stored.
type GoalHandler struct {
	store storage.GoalStore
	log   *zap.Logger
	now   func() time.Time
}

// NewGoalHandler constructs the handler.
func NewGoalHandler(store storage.GoalStore, log *zap.Logger) *GoalHandler {
	return &GoalHandler{store: store, log: log, now: time.Now}
}

// Register attaches goal routes to the mux.
func (h *GoalHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.Handle("POST /goals", authn(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /goals", authn(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /goals/metrics", authn(http.HandlerFunc(h.handleMetrics)))
	mux.Handle("GET /goals/{id}", authn(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /goals/{id}", authn(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /goals/{id}", authn(http.HandlerFunc(h.handleDelete)))
	mux.Handle("POST /goals/{id}/add", authn(http.HandlerFunc(h.handleAdd)))
	mux.Handle("GET /goals/{id}/progress", authn(http.HandlerFunc(h.handleProgress)))
}

func (h *GoalHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CreateGoalRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.store.CreateGoal(r.Context(), models.Goal{
		UserID:        user.ID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		Category:      req.Category,
	})
	if err != nil {
		h.log.Error("create goal failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create goal")
		return
	}
	respond.JSON(w, http.StatusCreated, "Goal created successfully", metrics.Report(created, h.now()))
}

func (h *GoalHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	filter := storage.GoalFilter{Category: r.URL.Query().Get("category")}
	goals, err := h.store.ListGoals(r.Context(), user.ID, filter)
	if err != nil {
		h.log.Error("list goals failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch goals")
		return
	}
	now := h.now()
	reports := make([]metrics.GoalReport, 0, len(goals))
	for _, g := range goals {
		reports = append(reports, metrics.Report(g, now))
	}
	respond.JSON(w, http.StatusOK, "Goals fetched successfully", reports)
}

func (h *GoalHandler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	goals, err := h.store.ListGoals(r.Context(), user.ID, storage.GoalFilter{})
	if err != nil {
		h.log.Error("goal metrics failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch goal metrics")
		return
	}
	respond.JSON(w, http.StatusOK, "Goal metrics fetched successfully", metrics.Summarize(goals, h.now()))
}

func (h *GoalHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	goal, err := h.store.GetGoal(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "get goal", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Goal fetched successfully", metrics.Report(goal, h.now()))
}

func (h *GoalHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req dto.UpdateGoalRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid updates")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.store.UpdateGoal(r.Context(), user.ID, id, storage.GoalPatch{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		Category:      req.Category,
	})
	if err != nil {
		respondOwnershipError(w, h.log, "update goal", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Goal updated successfully", metrics.Report(updated, h.now()))
}

func (h *GoalHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	deleted, err := h.store.DeleteGoal(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "delete goal", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Goal deleted successfully", deleted)
}

func (h *GoalHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req dto.AddToGoalRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.store.AddToGoal(r.Context(), user.ID, id, req.Amount)
	if err != nil {
		respondOwnershipError(w, h.log, "add to goal", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Amount added to goal", metrics.Report(updated, h.now()))
}

func (h *GoalHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	goal, err := h.store.GetGoal(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "goal progress", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Goal progress fetched successfully", map[string]any{
		"progress": metrics.Progress(goal),
	})
}
