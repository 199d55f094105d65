package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/example/agenda-escolar/internal/application"
	"github.com/example/agenda-escolar/internal/booking"
	"github.com/example/agenda-escolar/internal/config"
	httptransport "github.com/example/agenda-escolar/internal/http"
	"github.com/example/agenda-escolar/internal/remote"
	"github.com/example/agenda-escolar/internal/remote/sqlite"
	"github.com/example/agenda-escolar/internal/session"
	"github.com/example/agenda-escolar/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment itself still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	remoteStore, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open remote store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := remoteStore.Close(); cerr != nil {
			logger.Error("failed to close remote store", "error", cerr)
		}
	}()

	if err := remoteStore.Migrate(); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	sessionSnapshot := session.NewFileStore(cfg.SessionFile)
	if err := sessionSnapshot.Load(); err != nil {
		logger.Warn("failed to load session snapshot", "error", err)
	}
	if restored, ok := sessionSnapshot.Current(); ok {
		logger.Info("session restored", "login", restored.Login, "role", string(restored.Role))
	}

	bookingCache := store.NewBookingStore()
	directoryCache := store.NewDirectoryStore()

	bookingRemote := newBookingRemoteAdapter(remoteStore.Agendamentos())
	directoryRemote := newDirectoryRemoteAdapter(remoteStore.Professors())

	idGenerator := uuid.NewString
	now := time.Now

	bookingService := application.NewBookingServiceWithLogger(bookingCache, bookingRemote, booking.DefaultCatalog(), idGenerator, now, logger)
	directoryService := application.NewDirectoryServiceWithLogger(directoryCache, directoryRemote, idGenerator, logger)

	refresh := func(ctx context.Context) {
		if err := bookingService.Refresh(ctx); err != nil {
			logger.Warn("booking refresh failed", "error", err)
		}
		if err := directoryService.Refresh(ctx); err != nil {
			logger.Warn("directory refresh failed", "error", err)
		}
	}

	authService := application.NewAuthServiceWithLogger(directoryService, sessionSnapshot, bookingCache, refresh, logger)

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// Sessions from previous runs become invalid, which is acceptable
		// when no secret is configured.
		secret = securecookie.GenerateRandomKey(32)
	}
	cookieStore := sessions.NewCookieStore(secret)
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	authHandler := httptransport.NewAuthHandler(authService, cookieStore, int(cfg.SessionTTL.Seconds()), logger)
	agendamentoHandler := httptransport.NewAgendamentoHandler(bookingService, logger)
	professorHandler := httptransport.NewProfessorHandler(directoryService, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         authHandler,
		Agendamentos: agendamentoHandler,
		Professores:  professorHandler,
		SessionGuard: httptransport.RequireSession(cookieStore, logger),
		AdminGuard:   httptransport.RequireAdmin(logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("agenda API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// bookingRemoteAdapter translates between application bookings and the wire
// records persisted by the remote store.
type bookingRemoteAdapter struct {
	repo *sqlite.AgendamentoRepository
}

func newBookingRemoteAdapter(repo *sqlite.AgendamentoRepository) *bookingRemoteAdapter {
	return &bookingRemoteAdapter{repo: repo}
}

func (a *bookingRemoteAdapter) FetchAllBookings(ctx context.Context) ([]application.Booking, error) {
	records, err := a.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	bookings := make([]application.Booking, 0, len(records))
	for _, rec := range records {
		b, err := toApplicationBooking(rec)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (a *bookingRemoteAdapter) InsertBooking(ctx context.Context, b application.Booking) (application.Booking, error) {
	stored, err := a.repo.Insert(ctx, toAgendamentoRecord(b))
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored)
}

func (a *bookingRemoteAdapter) UpdateBooking(ctx context.Context, b application.Booking) error {
	return a.repo.Update(ctx, toAgendamentoRecord(b))
}

func (a *bookingRemoteAdapter) DeleteBooking(ctx context.Context, id string) error {
	return a.repo.Delete(ctx, id)
}

// directoryRemoteAdapter translates between application accounts and the wire
// records persisted by the remote store.
type directoryRemoteAdapter struct {
	repo *sqlite.ProfessorRepository
}

func newDirectoryRemoteAdapter(repo *sqlite.ProfessorRepository) *directoryRemoteAdapter {
	return &directoryRemoteAdapter{repo: repo}
}

func (a *directoryRemoteAdapter) FetchAllAccounts(ctx context.Context) ([]application.Account, error) {
	records, err := a.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]application.Account, 0, len(records))
	for _, rec := range records {
		accounts = append(accounts, toApplicationAccount(rec))
	}
	return accounts, nil
}

func (a *directoryRemoteAdapter) InsertAccounts(ctx context.Context, accounts []application.Account) ([]application.Account, error) {
	records := make([]remote.ProfessorRecord, 0, len(accounts))
	for _, acc := range accounts {
		records = append(records, toProfessorRecord(acc))
	}

	stored, err := a.repo.Insert(ctx, records)
	if err != nil {
		return nil, err
	}

	out := make([]application.Account, 0, len(stored))
	for _, rec := range stored {
		out = append(out, toApplicationAccount(rec))
	}
	return out, nil
}

func (a *directoryRemoteAdapter) DeleteAccount(ctx context.Context, id string) error {
	return a.repo.Delete(ctx, id)
}

func toAgendamentoRecord(b application.Booking) remote.AgendamentoRecord {
	return remote.AgendamentoRecord{
		ID:            b.ID,
		Title:         b.Title,
		StartTime:     remote.FormatTime(b.Start),
		EndTime:       remote.FormatTime(b.End),
		Turma:         b.Turma,
		ProfessorID:   b.ProfessorID,
		ProfessorNome: b.ProfessorNome,
	}
}

func toApplicationBooking(rec remote.AgendamentoRecord) (application.Booking, error) {
	start, err := remote.ParseTime(rec.StartTime)
	if err != nil {
		return application.Booking{}, fmt.Errorf("parse booking %s start: %w", rec.ID, err)
	}
	end, err := remote.ParseTime(rec.EndTime)
	if err != nil {
		return application.Booking{}, fmt.Errorf("parse booking %s end: %w", rec.ID, err)
	}
	return application.Booking{
		ID:            rec.ID,
		Title:         rec.Title,
		Start:         start,
		End:           end,
		Turma:         rec.Turma,
		ProfessorID:   rec.ProfessorID,
		ProfessorNome: rec.ProfessorNome,
	}, nil
}

func toProfessorRecord(a application.Account) remote.ProfessorRecord {
	return remote.ProfessorRecord{ID: a.ID, Nome: a.Nome, Login: a.Login}
}

func toApplicationAccount(rec remote.ProfessorRecord) application.Account {
	return application.Account{ID: rec.ID, Nome: rec.Nome, Login: rec.Login}
}
