package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// EmployeeService orchestrates validation and persistence for employees.
type EmployeeService struct {
	employees   persistence.EmployeeRepository
	idGenerator func() int64
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService constructs an employee service with the provided dependencies.
func NewEmployeeService(employees persistence.EmployeeRepository, idGenerator func() int64, now func() time.Time) *EmployeeService {
	return NewEmployeeServiceWithLogger(employees, idGenerator, now, nil)
}

// NewEmployeeServiceWithLogger constructs an employee service with a specified logger.
func NewEmployeeServiceWithLogger(employees persistence.EmployeeRepository, idGenerator func() int64, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() int64 { return 0 }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{employees: employees, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee validates input and persists a new employee.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (employee persistence.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateEmployee")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("employee_id", employee.ID).InfoContext(ctx, "employee created")
	}()

	vErr := validateEmployeeInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	employee = persistence.Employee{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		CreatedAt: s.now(),
	}
	employee.UpdatedAt = employee.CreatedAt

	if err = s.employees.CreateEmployee(ctx, employee); err != nil {
		err = mapEmployeeRepoError(err)
		return
	}

	return
}

// UpdateEmployee validates input and updates an existing employee.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, employeeID int64, input EmployeeInput) (employee persistence.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEmployee", "employee_id", employeeID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "employee updated")
	}()

	var existing persistence.Employee
	existing, err = s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		err = mapEmployeeRepoError(err)
		return
	}

	vErr := validateEmployeeInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Email = strings.TrimSpace(input.Email)
	updated.UpdatedAt = s.now()

	if err = s.employees.UpdateEmployee(ctx, updated); err != nil {
		err = mapEmployeeRepoError(err)
		return
	}

	employee = updated
	return
}

// GetEmployee returns a single employee by id.
func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID int64) (persistence.Employee, error) {
	if s == nil {
		return persistence.Employee{}, fmt.Errorf("EmployeeService is nil")
	}

	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return persistence.Employee{}, mapEmployeeRepoError(err)
	}
	return employee, nil
}

// ListEmployees returns all employees.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("EmployeeService is nil")
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, mapEmployeeRepoError(err)
	}
	return employees, nil
}

// DeleteEmployee removes an employee by id.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, employeeID int64) error {
	if s == nil {
		return fmt.Errorf("EmployeeService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteEmployee", "employee_id", employeeID)

	if err := s.employees.DeleteEmployee(ctx, employeeID); err != nil {
		err = mapEmployeeRepoError(err)
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "employee deleted")
	return nil
}

func validateEmployeeInput(input EmployeeInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}

	return vErr
}

func mapEmployeeRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
