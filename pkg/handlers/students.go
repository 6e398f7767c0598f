package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/services"
)

// StudentsHandler exposes the import and read operations over HTTP.
type StudentsHandler struct {
	importer    services.ImportService
	queries     services.QueryService
	datasetPath string
	logger      *zap.Logger
}

// NewStudentsHandler creates a new StudentsHandler with the given services.
func NewStudentsHandler(importer services.ImportService, queries services.QueryService, datasetPath string, logger *zap.Logger) *StudentsHandler {
	return &StudentsHandler{
		importer:    importer,
		queries:     queries,
		datasetPath: datasetPath,
		logger:      logger,
	}
}

// RegisterRoutes registers the student routes on the given mux.
func (h *StudentsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /students/import", h.Import)
	mux.HandleFunc("POST /students/fetch_by_gender_and_level", h.FetchByGenderAndLevel)
	mux.HandleFunc("POST /students/fetch_daily_use_for_country", h.FetchDailyUseForCountry)
	mux.HandleFunc("POST /students/fetch_conflicts_over_threshold", h.FetchConflictsOverThreshold)
	mux.HandleFunc("POST /students/fetch_students_by_affected_flag", h.FetchByAffectedFlag)
	mux.HandleFunc("POST /students/fetch_student_by_country_and_mental_health_threshold", h.FetchByCountryAndMentalHealth)
}

// Import handles POST /students/import requests. It loads the configured
// dataset into the database.
func (h *StudentsHandler) Import(w http.ResponseWriter, r *http.Request) {
	result, err := h.importer.ImportFile(r.Context(), h.datasetPath)
	if err != nil {
		h.fail(w, "Import failed", err)
		return
	}

	h.logger.Info("Import completed",
		zap.String("run_id", result.RunID.String()),
		zap.Int64("students", result.StudentsImported))

	h.succeed(w, map[string]any{
		"run_id":            result.RunID,
		"rows_read":         result.RowsRead,
		"students_imported": result.StudentsImported,
	})
}

// FetchByGenderAndLevel handles POST /students/fetch_by_gender_and_level.
func (h *StudentsHandler) FetchByGenderAndLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Gender        string `json:"gender"`
		AcademicLevel string `json:"academic_level"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		h.fail(w, "Invalid request body", err)
		return
	}

	rows, err := h.queries.StudentsByGenderAndAcademicLevel(r.Context(), req.Gender, req.AcademicLevel)
	if err != nil {
		h.fail(w, "Query failed", err)
		return
	}
	h.succeed(w, map[string]any{"students": rows})
}

// FetchDailyUseForCountry handles POST /students/fetch_daily_use_for_country.
func (h *StudentsHandler) FetchDailyUseForCountry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country string `json:"country"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		h.fail(w, "Invalid request body", err)
		return
	}

	avg, err := h.queries.AverageDailyUsageByCountry(r.Context(), req.Country)
	if err != nil {
		h.fail(w, "Query failed", err)
		return
	}
	h.succeed(w, map[string]any{"average_daily_usage_hours": avg})
}

// FetchConflictsOverThreshold handles POST /students/fetch_conflicts_over_threshold.
func (h *StudentsHandler) FetchConflictsOverThreshold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Threshold int `json:"threshold"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		h.fail(w, "Invalid request body", err)
		return
	}

	rows, err := h.queries.StudentsWithConflictsOver(r.Context(), req.Threshold)
	if err != nil {
		h.fail(w, "Query failed", err)
		return
	}
	h.succeed(w, map[string]any{"students": rows})
}

// FetchByAffectedFlag handles POST /students/fetch_students_by_affected_flag.
func (h *StudentsHandler) FetchByAffectedFlag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsAffected bool `json:"is_affected"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		h.fail(w, "Invalid request body", err)
		return
	}

	rows, err := h.queries.StudentsByAffectedFlag(r.Context(), req.IsAffected)
	if err != nil {
		h.fail(w, "Query failed", err)
		return
	}
	h.succeed(w, map[string]any{"students": rows})
}

// FetchByCountryAndMentalHealth handles
// POST /students/fetch_student_by_country_and_mental_health_threshold.
func (h *StudentsHandler) FetchByCountryAndMentalHealth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country           string `json:"country"`
		MentalHealthScore int    `json:"mental_health_score"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		h.fail(w, "Invalid request body", err)
		return
	}

	rows, err := h.queries.StudentsByCountryAndMentalHealth(r.Context(), req.Country, req.MentalHealthScore)
	if err != nil {
		h.fail(w, "Query failed", err)
		return
	}
	h.succeed(w, map[string]any{"students": rows})
}

func (h *StudentsHandler) succeed(w http.ResponseWriter, payload map[string]any) {
	if err := SuccessResponse(w, payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *StudentsHandler) fail(w http.ResponseWriter, message string, err error) {
	h.logger.Warn(message, zap.Error(err))
	if werr := FailureResponse(w, err.Error()); werr != nil {
		h.logger.Error("Failed to encode failure response", zap.Error(werr))
	}
}
