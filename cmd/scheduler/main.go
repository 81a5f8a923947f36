package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/config"
	httptransport "github.com/example/meeting-scheduler/internal/http"
	"github.com/example/meeting-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := newIDGenerator()
	now := time.Now

	employeeRepo := sqlite.NewEmployeeRepository(pool)
	teamRepo := sqlite.NewTeamRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	meetingRepo := sqlite.NewMeetingRepository(pool)

	employeeService := application.NewEmployeeServiceWithLogger(employeeRepo, idGenerator, now, logger)
	teamService := application.NewTeamServiceWithLogger(teamRepo, employeeRepo, idGenerator, now, logger)
	roomService := application.NewRoomServiceWithLogger(roomRepo, idGenerator, now, logger)
	meetingService := application.NewMeetingServiceWithLogger(meetingRepo, teamRepo, roomRepo, employeeRepo, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Employees: httptransport.NewEmployeeHandler(employeeService, meetingService, logger),
		Rooms:     httptransport.NewRoomHandler(roomService, logger),
		Teams:     httptransport.NewTeamHandler(teamService, meetingService, logger),
		Meetings:  httptransport.NewMeetingHandler(meetingService, roomService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("meeting booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// newIDGenerator returns a process-local generator of increasing identifiers.
// Seeding from the wall clock keeps ids unique across restarts against the
// same database file.
func newIDGenerator() func() int64 {
	var counter atomic.Int64
	counter.Store(time.Now().UnixNano())
	return func() int64 { return counter.Add(1) }
}
