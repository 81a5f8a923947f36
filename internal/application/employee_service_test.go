package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/testfixtures"
)

func newEmployeeService(t *testing.T) (*EmployeeService, *testfixtures.Store) {
	t.Helper()

	store := testfixtures.NewStore()
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator(0)
	return NewEmployeeService(store, ids.NextFunc(), clock.NowFunc()), store
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	t.Parallel()
	service, store := newEmployeeService(t)
	ctx := context.Background()

	employee, err := service.CreateEmployee(ctx, EmployeeInput{Name: "  Alice ", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	if employee.Name != "Alice" {
		t.Errorf("expected trimmed name 'Alice', got %q", employee.Name)
	}
	if _, err := store.GetEmployee(ctx, employee.ID); err != nil {
		t.Fatalf("employee not persisted: %v", err)
	}
}

func TestEmployeeService_CreateEmployee_Invalid(t *testing.T) {
	t.Parallel()
	service, _ := newEmployeeService(t)

	_, err := service.CreateEmployee(context.Background(), EmployeeInput{Name: "", Email: "not-an-email"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.FieldErrors) != 2 {
		t.Errorf("expected name and email errors, got %v", vErr.FieldErrors)
	}
}

func TestEmployeeService_CreateEmployee_DuplicateEmail(t *testing.T) {
	t.Parallel()
	service, _ := newEmployeeService(t)
	ctx := context.Background()

	if _, err := service.CreateEmployee(ctx, EmployeeInput{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	_, err := service.CreateEmployee(ctx, EmployeeInput{Name: "Other", Email: "alice@example.com"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestEmployeeService_UpdateEmployee_NotFound(t *testing.T) {
	t.Parallel()
	service, _ := newEmployeeService(t)

	_, err := service.UpdateEmployee(context.Background(), 999, EmployeeInput{Name: "Ghost", Email: "ghost@example.com"})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestEmployeeService_ListEmployees(t *testing.T) {
	t.Parallel()
	service, _ := newEmployeeService(t)
	ctx := context.Background()

	if _, err := service.CreateEmployee(ctx, EmployeeInput{Name: "Alice", Email: "alice.list@example.com"}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if _, err := service.CreateEmployee(ctx, EmployeeInput{Name: "Bob", Email: "bob.list@example.com"}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	employees, err := service.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(employees) != 2 {
		t.Errorf("expected 2 employees, got %d", len(employees))
	}
}

func TestEmployeeService_DeleteEmployee_NotFound(t *testing.T) {
	t.Parallel()
	service, _ := newEmployeeService(t)

	err := service.DeleteEmployee(context.Background(), 999)
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}
