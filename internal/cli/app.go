package cli

import (
	"context"
	"fmt"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/adapters/sessionstore"
	"realhub-app/internal/config"
	"realhub-app/internal/core/services"
)

// App wires the session holder, controllers and backend gateway for the CLI
type App struct {
	Config  *config.Config
	Gateway *gateway.Client
	Session *services.SessionService
	Notify  *services.NotificationService
	Auth    *services.AuthFlow
	Users   *services.UserService
	Drafts  *services.DraftService
	Review  *services.ReviewService
	Loans   *services.LoanService
}

// NewApp builds the full client stack. The persisted session, if any, is
// revalidated before any command runs; a bad token starts the CLI logged out.
func NewApp(serverURL string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Client.BackendURL = serverURL
	}

	sessionPath := cfg.Client.SessionFile
	if sessionPath == "" {
		sessionPath = sessionstore.DefaultPath()
	}

	session := services.NewSessionService(sessionstore.New(sessionPath))
	gw := gateway.New(gateway.Config{
		BaseURL: cfg.Client.BackendURL,
		Timeout: cfg.Client.Timeout(),
	}, session)

	notify := services.NewNotificationService()
	notify.Subscribe(printNotification)

	app := &App{
		Config:  cfg,
		Gateway: gw,
		Session: session,
		Notify:  notify,
		Auth:    services.NewAuthFlow(gw, session, notify),
		Users:   services.NewUserService(gw, session, notify),
		Drafts:  services.NewDraftService(gw, session, notify),
		Review:  services.NewReviewService(gw, session, notify),
		Loans:   services.NewLoanService(gw, session, notify),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.Timeout())
	defer cancel()
	if err := session.Initialize(ctx, gw); err != nil {
		return nil, err
	}

	return app, nil
}

// opCtx returns a context bounded by the configured backend timeout
func (a *App) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.Config.Client.Timeout())
}

func printNotification(n services.Notification) {
	prefix := "ℹ️"
	switch n.Level {
	case services.LevelSuccess:
		prefix = "✅"
	case services.LevelError:
		prefix = "❌"
	}
	fmt.Printf("%s %s\n", prefix, n.Message)
}
