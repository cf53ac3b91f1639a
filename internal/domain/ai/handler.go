package ai

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/harmoniface/harmoniface/internal/platform/auth"
	"github.com/harmoniface/harmoniface/pkg/pagination"
)

// Mandatory notices attached to every AI-generated response. The exact
// wording is part of the product's clinical review policy.
const (
	nerDisclaimer       = "⚠️ Extração gerada por IA. Revise e confirme todas as informações antes de salvar."
	summarizeDisclaimer = "⚠️ Resumo gerado automaticamente por IA. Revise e confirme todas as informações antes de salvar."
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	grp := api.Group("/ai", auth.RequireRole("admin", "physician"))
	grp.POST("/ner", h.NER)
	grp.POST("/summarize", h.Summarize)
	grp.POST("/compliance", h.Compliance)
	grp.GET("/sessions/:id/logs", h.SessionLogs)
}

type nerRequest struct {
	ClinicalText string `json:"clinicalText"`
	Notes        string `json:"notes"`
	SessionID    string `json:"sessionId"`
}

func (h *Handler) NER(c echo.Context) error {
	var req nerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	text := req.ClinicalText
	if text == "" {
		text = req.Notes
	}

	var sessionID *uuid.UUID
	if id, err := uuid.Parse(req.SessionID); err == nil {
		sessionID = &id
	}

	result, err := h.svc.ExtractEntities(c.Request().Context(), sessionID, text)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process NER request")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":       result,
		"disclaimer": nerDisclaimer,
	})
}

type summarizeRequest struct {
	SessionID     string `json:"sessionId"`
	ClinicalNotes string `json:"clinicalNotes"`
}

func (h *Handler) Summarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.SessionID == "" || req.ClinicalNotes == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "sessionId and clinicalNotes are required")
	}

	result, err := h.svc.Summarize(c.Request().Context(), req.SessionID, req.ClinicalNotes)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to summarize session")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":       result,
		"disclaimer": summarizeDisclaimer,
	})
}

type complianceRequest struct {
	SessionID string         `json:"sessionId"`
	Session   map[string]any `json:"session"`
	PatientID string         `json:"patientId"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
}

// Compliance serves both modes: a single-session check when a session
// payload is supplied, otherwise a batch report over a patient or date
// range.
func (h *Handler) Compliance(c echo.Context) error {
	var req complianceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.SessionID != "" && req.Session != nil {
		result, err := h.svc.CheckRaw(c.Request().Context(), req.SessionID, req.Session)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to check compliance")
		}
		return c.JSON(http.StatusOK, map[string]any{"data": result})
	}

	if req.PatientID != "" || (req.StartDate != "" && req.EndDate != "") {
		var patientID *uuid.UUID
		if req.PatientID != "" {
			id, err := uuid.Parse(req.PatientID)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid patientId")
			}
			patientID = &id
		}

		var start, end time.Time
		var err error
		if req.StartDate != "" {
			if start, err = time.Parse(time.RFC3339, req.StartDate); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate")
			}
		}
		if req.EndDate != "" {
			if end, err = time.Parse(time.RFC3339, req.EndDate); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate")
			}
		}

		report, err := h.svc.Report(c.Request().Context(), patientID, start, end)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate compliance report")
		}
		return c.JSON(http.StatusOK, map[string]any{"data": report})
	}

	return echo.NewHTTPError(http.StatusBadRequest,
		"either sessionId+session or patientId/daterange must be provided")
}

func (h *Handler) SessionLogs(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)

	logs, total, err := h.svc.Logs(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(logs, total, pg.Limit, pg.Offset))
}
