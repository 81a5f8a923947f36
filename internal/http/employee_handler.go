package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/persistence"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, input application.EmployeeInput) (persistence.Employee, error)
	UpdateEmployee(ctx context.Context, employeeID int64, input application.EmployeeInput) (persistence.Employee, error)
	GetEmployee(ctx context.Context, employeeID int64) (persistence.Employee, error)
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
	DeleteEmployee(ctx context.Context, employeeID int64) error
}

type employeeAvailabilityService interface {
	IsEmployeeAvailable(ctx context.Context, employeeID int64, start, end time.Time) (bool, error)
}

type EmployeeHandler struct {
	service      employeeService
	availability employeeAvailabilityService
	responder    responder
	logger       *slog.Logger
}

func NewEmployeeHandler(service employeeService, availability employeeAvailabilityService, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{service: service, availability: availability, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	employee, err := h.service.CreateEmployee(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "employee creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("employee_id", employee.ID).InfoContext(r.Context(), "employee created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "employee_id", employeeID)

	employee, err := h.service.UpdateEmployee(r.Context(), employeeID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "employee update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for get")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	logger := h.log(r.Context(), "Get", "employee_id", employeeID)

	employee, err := h.service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "employee fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "employee list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(employees)).InfoContext(r.Context(), "employees listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEmployeesResponse{Employees: toEmployeeDTOs(employees)})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	logger := h.log(r.Context(), "Delete", "employee_id", employeeID)
	if err := h.service.DeleteEmployee(r.Context(), employeeID); err != nil {
		logger.ErrorContext(r.Context(), "employee delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Availability answers whether the employee is free for a window supplied via
// start/end query parameters.
func (h *EmployeeHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.availability == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Availability", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for availability")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	start, end, err := windowFromQuery(r)
	if err != nil {
		h.log(r.Context(), "Availability", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid availability window", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Availability", "employee_id", employeeID)

	available, err := h.availability.IsEmployeeAvailable(r.Context(), employeeID, start, end)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability check failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{Available: available})
}

// windowFromQuery parses the start/end query parameters shared by the
// availability endpoints.
func windowFromQuery(r *http.Request) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidTimeFormat
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidTimeFormat
	}
	return start, end, nil
}

type employeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r employeeRequest) toInput() application.EmployeeInput {
	return application.EmployeeInput{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
	}
}

type employeeResponse struct {
	Employee employeeDTO `json:"employee"`
}

type listEmployeesResponse struct {
	Employees []employeeDTO `json:"employees"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

type employeeDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	TeamIDs   []int64 `json:"team_ids,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toEmployeeDTO(employee persistence.Employee) employeeDTO {
	return employeeDTO{
		ID:        employee.ID,
		Name:      employee.Name,
		Email:     employee.Email,
		TeamIDs:   employee.TeamIDs,
		CreatedAt: employee.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: employee.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEmployeeDTOs(employees []persistence.Employee) []employeeDTO {
	if len(employees) == 0 {
		return nil
	}
	out := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		out = append(out, toEmployeeDTO(employee))
	}
	return out
}
