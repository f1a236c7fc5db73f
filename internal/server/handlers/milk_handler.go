package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paladisupraja/dairy-portal/internal/domain/models"
	"github.com/paladisupraja/dairy-portal/internal/service/milking"
	"github.com/paladisupraja/dairy-portal/internal/service/reporting"
)

// MilkHandler exposes the milking core's operations over HTTP.
type MilkHandler struct {
	recorder *milking.Recorder
	reports  *reporting.Service
	logger   *zap.Logger
}

// NewMilkHandler constructs the HTTP handler adapter.
func NewMilkHandler(recorder *milking.Recorder, reports *reporting.Service, logger *zap.Logger) *MilkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilkHandler{recorder: recorder, reports: reports, logger: logger}
}

type recordObservationRequest struct {
	AnimalTagNo   int64    `json:"animalTagNo"`
	EmployeeID    string   `json:"employeeId"`
	Date          string   `json:"date"`
	Session       string   `json:"session"`
	Quantity      *float64 `json:"quantity"`
	ColostrumMilk bool     `json:"colostrumMilk"`
	Edit          bool     `json:"edit"`
}

type observationResponse struct {
	AnimalTagNo   int64    `json:"animalTagNo"`
	Date          string   `json:"date"`
	AmQuantity    *float64 `json:"amQuantity,omitempty"`
	PmQuantity    *float64 `json:"pmQuantity,omitempty"`
	TotalQuantity float64  `json:"totalQuantity"`
	EmployeeID    string   `json:"employeeId"`
	ColostrumMilk bool     `json:"colostrumMilk"`
}

// RecordObservation persists one session quantity for an animal and date.
func (h *MilkHandler) RecordObservation(c *gin.Context) {
	var req recordObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid observation payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity: must be provided"})
		return
	}

	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date: expected %s", models.DateLayout)})
		return
	}

	obs, err := h.recorder.Record(c.Request.Context(), milking.RecordRequest{
		TagNo:         req.AnimalTagNo,
		EmployeeID:    req.EmployeeID,
		Date:          date,
		Session:       models.Session(req.Session),
		Quantity:      *req.Quantity,
		ColostrumMilk: req.ColostrumMilk,
		Edit:          req.Edit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, observationResponse{
		AnimalTagNo:   obs.TagNo,
		Date:          obs.Date.Format(models.DateLayout),
		AmQuantity:    obs.AmQuantity,
		PmQuantity:    obs.PmQuantity,
		TotalQuantity: obs.Total(),
		EmployeeID:    obs.EmployeeID,
		ColostrumMilk: obs.ColostrumMilk,
	})
}

// GetObservation serves the stored observation for one animal and date. The
// edit screen reads it to pre-fill the current quantities.
func (h *MilkHandler) GetObservation(c *gin.Context) {
	tagNo, err := strconv.ParseInt(c.Query("tagNo"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tagNo: must be a number"})
		return
	}

	date, err := time.Parse(models.DateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date: expected %s", models.DateLayout)})
		return
	}

	obs, err := h.recorder.Lookup(c.Request.Context(), tagNo, date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, observationResponse{
		AnimalTagNo:   obs.TagNo,
		Date:          obs.Date.Format(models.DateLayout),
		AmQuantity:    obs.AmQuantity,
		PmQuantity:    obs.PmQuantity,
		TotalQuantity: obs.Total(),
		EmployeeID:    obs.EmployeeID,
		ColostrumMilk: obs.ColostrumMilk,
	})
}

// GroupSummary serves the per-date totals for one group.
func (h *MilkHandler) GroupSummary(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	summary, err := h.reports.GroupSummary(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GroupDetail serves the animal-by-date drill-down for one group.
func (h *MilkHandler) GroupDetail(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	detail, err := h.reports.GroupDetail(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ExportGroupDetail serves the drill-down as an Excel download.
func (h *MilkHandler) ExportGroupDetail(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	detail, err := h.reports.GroupDetail(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		h.writeError(c, err)
		return
	}

	workbook, err := reporting.BuildDetailWorkbook(detail)
	if err != nil {
		h.logger.Error("failed building detail workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	filename := fmt.Sprintf("milk-detail-%s-%s-%s.xlsx", detail.GroupID, detail.StartDate, detail.EndDate)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// FarmReport serves the multi-group summary for one farm. Groups whose data
// could not be fetched are omitted from the response.
func (h *MilkHandler) FarmReport(c *gin.Context) {
	farmID := c.Query("farm_id")
	if farmID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "farm_id is required"})
		return
	}

	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	report, err := h.reports.FarmReport(c.Request.Context(), farmID, start, end)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *MilkHandler) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(models.DateLayout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid start: expected %s", models.DateLayout)})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(models.DateLayout, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid end: expected %s", models.DateLayout)})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *MilkHandler) writeError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var duplicateErr *models.DuplicateSessionError
	var refErr *models.ReferenceDataUnavailableError
	var fetchErr *models.ObservationFetchError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":       "DuplicateSessionError",
			"message":     duplicateErr.Error(),
			"animalTagNo": duplicateErr.TagNo,
			"date":        duplicateErr.Date.Format(models.DateLayout),
			"session":     duplicateErr.Session,
		})
	case errors.Is(err, models.ErrObservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "observation not found"})
	case errors.As(err, &refErr), errors.As(err, &fetchErr):
		h.logger.Error("upstream fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream data unavailable"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
