package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mentone-hv/hv-sync/internal/api/respond"
	"github.com/mentone-hv/hv-sync/internal/orchestrator"
	"github.com/mentone-hv/hv-sync/internal/stage"
)

// RunStage handles POST /pipeline/{stage}: runs a single named stage (or
// bundle) synchronously and reports its outcome, per spec §6's per-stage
// HTTP trigger surface.
// @Summary Trigger a single pipeline stage
// @Description Runs one stage (or bundle) with the given selectors and reports its outcome.
// @Tags pipeline
// @Produce json
// @Param stage path string true "stage or bundle name"
// @Success 200 {object} respond.Envelope
// @Router /pipeline/{stage} [post]
func (h *Handler) RunStage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "stage")
	if name == "" {
		respond.BadRequest(w, "stage name is required")
		return
	}

	opts := parseStageOptions(r)
	runOpts := orchestrator.RunOptions{
		ID:       runID(),
		Modules:  []string{name},
		DryRun:   opts.DryRun,
		Deadline: 30 * time.Minute,
		Stage:    opts,
	}

	run := h.orch.Execute(r.Context(), runOpts)
	status := "ok"
	if run.Status == orchestrator.StatusFailed {
		status = "error"
	}
	respond.OKWithMessage(w, status, run)
}

// runPipelineRequest is the body shape for POST /run-pipeline (spec §6).
type runPipelineRequest struct {
	Modules     []string `json:"modules"`
	DryRun      bool     `json:"dry_run"`
	Verbose     bool     `json:"verbose"`
	Days        int      `json:"days"`
	TeamID      string   `json:"team_id"`
	CompID      string   `json:"comp_id"`
	GradeID     string   `json:"grade_id"`
	Limit       int      `json:"limit"`
	MentoneOnly bool     `json:"mentone_only"`
	ForceUpdate bool     `json:"force_update"`
}

// RunPipeline handles POST /run-pipeline: runs an arbitrary set of
// modules/bundles in canonical dependency order.
// @Summary Trigger an arbitrary pipeline run
// @Description Runs the named modules/bundles in canonical dependency order.
// @Tags pipeline
// @Accept json
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /run-pipeline [post]
func (h *Handler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	var req runPipelineRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			respond.BadRequest(w, "invalid request body: "+err.Error())
			return
		}
	}
	if len(req.Modules) == 0 {
		req.Modules = []string{"full"}
	}

	runOpts := orchestrator.RunOptions{
		ID:       runID(),
		Modules:  req.Modules,
		DryRun:   req.DryRun,
		Deadline: 30 * time.Minute,
		Stage: stage.Options{
			DryRun:      req.DryRun,
			Limit:       req.Limit,
			TeamID:      req.TeamID,
			CompID:      req.CompID,
			GradeID:     req.GradeID,
			Days:        req.Days,
			MentoneOnly: req.MentoneOnly,
			ForceUpdate: req.ForceUpdate,
		},
	}

	run := h.orch.Execute(r.Context(), runOpts)
	status := "ok"
	if run.Status == orchestrator.StatusFailed {
		status = "error"
	}
	respond.OKWithMessage(w, status, run)
}

// RunBundle handles the convenience bundle routes (POST
// /pipeline/bundles/{bundle}): setup, fixtures, daily, weekly, full.
// @Summary Trigger a named bundle
// @Description Runs one of the named stage bundles: setup, fixtures, daily, weekly, full.
// @Tags pipeline
// @Produce json
// @Param bundle path string true "bundle name"
// @Success 200 {object} respond.Envelope
// @Router /pipeline/bundles/{bundle} [post]
func (h *Handler) RunBundle(w http.ResponseWriter, r *http.Request) {
	bundle := chi.URLParam(r, "bundle")
	if _, ok := orchestrator.Bundles[bundle]; !ok {
		respond.BadRequest(w, "unknown bundle: "+bundle)
		return
	}

	opts := parseStageOptions(r)
	runOpts := orchestrator.RunOptions{
		ID:       runID(),
		Modules:  []string{bundle},
		DryRun:   opts.DryRun,
		Deadline: 30 * time.Minute,
		Stage:    opts,
	}

	run := h.orch.Execute(r.Context(), runOpts)
	status := "ok"
	if run.Status == orchestrator.StatusFailed {
		status = "error"
	}
	respond.OKWithMessage(w, status, run)
}

// GetRun handles GET /runs/{id}: looks up a previously started run's
// progress record by id.
// @Summary Get run status
// @Description Returns the per-stage progress record for a run id.
// @Tags pipeline
// @Produce json
// @Param id path string true "run id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, ok := h.orch.Registry.Get(id)
	if !ok {
		respond.NotFound(w, "no run with id "+id)
		return
	}
	respond.OK(w, run)
}

// parseStageOptions reads the per-stage selectors from query params, per
// spec §6: team_id, comp_id, grade_id, days, limit_teams, limit_games,
// mentone_only, force_update, dry_run.
func parseStageOptions(r *http.Request) stage.Options {
	q := r.URL.Query()
	opts := stage.Options{
		TeamID:      q.Get("team_id"),
		CompID:      q.Get("comp_id"),
		GradeID:     q.Get("grade_id"),
		Days:        queryInt(q.Get("days")),
		MentoneOnly: queryBool(q.Get("mentone_only")),
		ForceUpdate: queryBool(q.Get("force_update")),
		DryRun:      queryBool(q.Get("dry_run")),
	}
	if n := queryInt(q.Get("limit_teams")); n > 0 {
		opts.Limit = n
	}
	if n := queryInt(q.Get("limit_games")); n > 0 {
		opts.Limit = n
	}
	if n := queryInt(q.Get("limit")); n > 0 {
		opts.Limit = n
	}
	return opts
}

func queryInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func queryBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

// runID derives a run identifier from the current time. The caller mints
// the id rather than the orchestrator; Execute itself still reads the clock
// for the run's started/ended timestamps.
func runID() string {
	return "run-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}
