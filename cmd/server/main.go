package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skdb/formkit/internal/app"
	"github.com/skdb/formkit/internal/audit"
	"github.com/skdb/formkit/internal/config"
	"github.com/skdb/formkit/internal/database"
	"github.com/skdb/formkit/internal/logging"
	"github.com/skdb/formkit/internal/mail"
	"github.com/skdb/formkit/internal/mutation"
	"github.com/skdb/formkit/internal/render"
	"github.com/skdb/formkit/internal/web"
)

func main() {
	// Load .env if present (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	conn, closeConn, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeConn()
	slog.Info("database connected", "driver", cfg.Database.Driver)

	auditor := audit.NewService(conn)
	executor := mutation.NewExecutor(conn, auditor)
	renderer := render.New(render.Config{
		Root:         cfg.App.RootPath,
		DefaultTitle: cfg.App.DefaultTitle,
		AssetVersion: cfg.App.AssetVersion,
	}, auditor)

	app.RegisterViews()

	var mailer *mail.Mailer
	if cfg.Mail.Enabled {
		sender := &mail.SMTPSender{Addr: cfg.Mail.SMTPAddr, From: cfg.Mail.From}
		mailer = mail.NewMailer(renderer, sender, nil, auditor, cfg.Mail.From, cfg.App.Host)
		slog.Info("mail enabled", "smtp", cfg.Mail.SMTPAddr)
	}

	server := web.NewServer(cfg, renderer, executor, auditor, sessionUser)
	app.RegisterActions(server, mailer)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// sessionUser resolves the acting user from the session cookie set by the
// login system. Only the fields the renderer needs are read here; session
// validation happens upstream of this application.
func sessionUser(r *http.Request) *render.User {
	id, err := r.Cookie("z_user_id")
	if err != nil {
		return nil
	}
	userID, err := strconv.Atoi(id.Value)
	if err != nil {
		return nil
	}
	user := &render.User{ID: userID, Language: "en"}
	if l, err := r.Cookie("z_user_lang"); err == nil {
		user.Language = l.Value
	}
	return user
}
