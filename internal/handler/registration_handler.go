package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/internal/service"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
	"github.com/noah-isme/uni-attend-api/pkg/response"
)

// RegistrationHandler wires account creation endpoints to the service.
type RegistrationHandler struct {
	service *service.RegistrationService
	metrics *service.MetricsService
}

// NewRegistrationHandler creates a new handler.
func NewRegistrationHandler(svc *service.RegistrationService, metrics *service.MetricsService) *RegistrationHandler {
	return &RegistrationHandler{service: svc, metrics: metrics}
}

// RegisterStudent godoc
// @Summary Register a student
// @Description Creates a student account with a server-assigned sequential ID
// @Tags Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register/student [post]
func (h *RegistrationHandler) RegisterStudent(c *gin.Context) {
	var req models.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	res, err := h.service.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordRegistration(string(models.RoleStudent))
	response.Created(c, res)
}

// RegisterTeacher godoc
// @Summary Register a teacher
// @Description Creates a teacher account with a server-assigned sequential ID
// @Tags Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register/teacher [post]
func (h *RegistrationHandler) RegisterTeacher(c *gin.Context) {
	var req models.RegisterTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}

	res, err := h.service.RegisterTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordRegistration(string(models.RoleTeacher))
	response.Created(c, res)
}

// RegisterAdmin godoc
// @Summary Register an admin
// @Description Creates an admin account
// @Tags Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register/admin [post]
func (h *RegistrationHandler) RegisterAdmin(c *gin.Context) {
	var req models.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admin payload"))
		return
	}

	res, err := h.service.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordRegistration(string(models.RoleAdmin))
	response.Created(c, res)
}
