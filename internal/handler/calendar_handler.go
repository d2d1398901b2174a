package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/middleware"
	"github.com/luizhmmachado/school-diary/internal/response"
	"github.com/luizhmmachado/school-diary/internal/service"
)

// CalendarHandler exposes the aggregated calendar views and the ICS export.
type CalendarHandler struct {
	calendarService *service.CalendarService
	icalService     *service.ICalService
	loc             *time.Location
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService *service.CalendarService, icalService *service.ICalService, loc *time.Location) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		icalService:     icalService,
		loc:             loc,
	}
}

// yearMonth reads the year and month query parameters, defaulting to the
// current month in the configured timezone.
func (h *CalendarHandler) yearMonth(c *gin.Context) (int, time.Month, bool) {
	now := time.Now().In(h.loc)
	year, month := now.Year(), now.Month()

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return 0, 0, false
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return 0, 0, false
		}
		month = time.Month(v)
	}
	return year, month, true
}

// Days godoc
// GET /api/v1/calendar/days?year=&month=
func (h *CalendarHandler) Days(c *gin.Context) {
	year, month, ok := h.yearMonth(c)
	if !ok {
		return
	}

	id := middleware.GetIdentity(c)
	days, err := h.calendarService.Days(c.Request.Context(), id.OwnerID, year, month)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"days": days})
}

// Month godoc
// GET /api/v1/calendar/month?year=&month=&selected=
func (h *CalendarHandler) Month(c *gin.Context) {
	year, month, ok := h.yearMonth(c)
	if !ok {
		return
	}

	var selected dates.Date
	if raw := c.Query("selected"); raw != "" {
		d, err := dates.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
		selected = d
	}

	cells := h.calendarService.Month(year, month, selected)
	response.Success(c, http.StatusOK, gin.H{"cells": cells})
}

// Upcoming godoc
// GET /api/v1/calendar/upcoming?year=&month=
func (h *CalendarHandler) Upcoming(c *gin.Context) {
	year, month, ok := h.yearMonth(c)
	if !ok {
		return
	}

	id := middleware.GetIdentity(c)
	upcoming, err := h.calendarService.Upcoming(c.Request.Context(), id.OwnerID, year, month)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"upcoming": upcoming})
}

// Averages godoc
// GET /api/v1/calendar/averages
func (h *CalendarHandler) Averages(c *gin.Context) {
	id := middleware.GetIdentity(c)

	averages, err := h.calendarService.Averages(c.Request.Context(), id.OwnerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"averages": averages})
}

// ClassAverage godoc
// GET /api/v1/classes/:class_id/average
func (h *CalendarHandler) ClassAverage(c *gin.Context) {
	id := middleware.GetIdentity(c)

	res, err := h.calendarService.ClassAverage(c.Request.Context(), id.OwnerID, c.Param("class_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"average": res})
}

// ExportICS godoc
// GET /api/v1/calendar/export.ics
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	id := middleware.GetIdentity(c)

	feed, err := h.icalService.Export(c.Request.Context(), id.OwnerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="school-diary.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
