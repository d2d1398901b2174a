package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luizhmmachado/school-diary/internal/middleware"
	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/response"
	"github.com/luizhmmachado/school-diary/internal/schedule"
	"github.com/luizhmmachado/school-diary/internal/service"
	"github.com/luizhmmachado/school-diary/internal/validator"
)

// ClassHandler handles the class CRUD surface.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// classView wraps a class with its derived presence percentage.
type classView struct {
	*model.Class
	PresencePercent int `json:"presencePercent"`
}

func viewOf(c *model.Class) classView {
	return classView{Class: c, PresencePercent: c.PresencePercent()}
}

// SaveClassRequest is the payload for creating or updating a class.
type SaveClassRequest struct {
	Name           string                  `json:"name" binding:"max=200"`
	Weekdays       []int                   `json:"weekdays" binding:"dive,min=0,max=6"`
	SlotsByWeekday map[int][]schedule.Slot `json:"slotsByWeekday"`
	StartDate      string                  `json:"startDate"`
	EndDate        string                  `json:"endDate"`
	ImageURL       string                  `json:"imageUrl" binding:"omitempty,url"`
	TotalClasses   int                     `json:"totalClasses" binding:"min=0"`
	MaxAbsences    *int                    `json:"maxAbsences" binding:"omitempty,min=0"`
	MinPresence    *int                    `json:"minPresence" binding:"omitempty,min=0,max=100"`
}

func (r *SaveClassRequest) toInput() service.ClassInput {
	return service.ClassInput{
		Name:           r.Name,
		Weekdays:       r.Weekdays,
		SlotsByWeekday: r.SlotsByWeekday,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		ImageURL:       r.ImageURL,
		TotalClasses:   r.TotalClasses,
		MaxAbsences:    r.MaxAbsences,
		MinPresence:    r.MinPresence,
	}
}

// ListClasses godoc
// GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	id := middleware.GetIdentity(c)

	classes, err := h.classService.List(c.Request.Context(), id.OwnerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]classView, 0, len(classes))
	for i := range classes {
		views = append(views, viewOf(&classes[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"classes": views})
}

// CreateClass godoc
// POST /api/v1/classes
// Validation failures — including InvalidRange and EmptySchedule from the
// expansion — block the save; nothing is written.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req SaveClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id := middleware.GetIdentity(c)
	class, err := h.classService.Create(c.Request.Context(), id.OwnerID, req.toInput())
	if err != nil {
		failClassSave(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": viewOf(class)})
}

// UpdateClass godoc
// PUT /api/v1/classes/:class_id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	var req SaveClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id := middleware.GetIdentity(c)
	class, err := h.classService.Update(c.Request.Context(), id.OwnerID, c.Param("class_id"), req.toInput())
	if err != nil {
		failClassSave(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": viewOf(class)})
}

// IncrementAbsences godoc
// POST /api/v1/classes/:class_id/absences
func (h *ClassHandler) IncrementAbsences(c *gin.Context) {
	id := middleware.GetIdentity(c)

	class, err := h.classService.IncrementAbsences(c.Request.Context(), id.OwnerID, c.Param("class_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": viewOf(class)})
}

// DeleteClass godoc
// DELETE /api/v1/classes/:class_id
// Cascades into the class's events before removing the class record.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id := middleware.GetIdentity(c)

	if err := h.classService.Delete(c.Request.Context(), id.OwnerID, c.Param("class_id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "class deleted"})
}

// failClassSave maps save-time validation errors onto the API taxonomy.
func failClassSave(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidRange)
	case errors.Is(err, schedule.ErrEmptySchedule):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptySchedule)
	case errors.Is(err, service.ErrInvalidWeekday),
		errors.Is(err, service.ErrInvalidSlot),
		errors.Is(err, service.ErrPresencePolicy):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
