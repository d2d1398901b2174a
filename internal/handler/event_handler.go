package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luizhmmachado/school-diary/internal/middleware"
	"github.com/luizhmmachado/school-diary/internal/response"
	"github.com/luizhmmachado/school-diary/internal/service"
	"github.com/luizhmmachado/school-diary/internal/validator"
)

// EventHandler handles the event CRUD surface.
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// SaveEventRequest is the payload for creating or updating an event. Grade
// and weight are free text; decimal comma and decimal point both parse.
type SaveEventRequest struct {
	ClassID string `json:"classId"`
	Name    string `json:"name" binding:"max=200"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time"`
	Grade   string `json:"grade"`
	Weight  string `json:"weight"`
	Color   string `json:"color"`
}

func (r *SaveEventRequest) toInput() service.EventInput {
	return service.EventInput{
		ClassID: r.ClassID,
		Name:    r.Name,
		Date:    r.Date,
		Time:    r.Time,
		Grade:   r.Grade,
		Weight:  r.Weight,
		Color:   r.Color,
	}
}

// ListEvents godoc
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	id := middleware.GetIdentity(c)

	events, err := h.eventService.List(c.Request.Context(), id.OwnerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// CreateEvent godoc
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req SaveEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id := middleware.GetIdentity(c)
	event, err := h.eventService.Create(c.Request.Context(), id.OwnerID, req.toInput())
	if err != nil {
		failEventSave(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"event": event})
}

// UpdateEvent godoc
// PUT /api/v1/events/:event_id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req SaveEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id := middleware.GetIdentity(c)
	event, err := h.eventService.Update(c.Request.Context(), id.OwnerID, c.Param("event_id"), req.toInput())
	if err != nil {
		failEventSave(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// DeleteEvent godoc
// DELETE /api/v1/events/:event_id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := middleware.GetIdentity(c)

	if err := h.eventService.Delete(c.Request.Context(), id.OwnerID, c.Param("event_id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "event deleted"})
}

func failEventSave(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidTime):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
