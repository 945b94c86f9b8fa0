package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
	"github.com/dmitrijs2005/recoverydesk/internal/client/config"
	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/recoverydesk/internal/client/services"
	"github.com/dmitrijs2005/recoverydesk/internal/client/session"
	"github.com/dmitrijs2005/recoverydesk/internal/client/storage"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

// Session is the part of session.Store the REPL uses.
type Session interface {
	session.Manager
	services.Invalidator
	IsAuthenticated() bool
	TokenExpiry() (time.Time, error)
}

// Deps are the collaborators of an App.
type Deps struct {
	Session   Session
	Vehicles  services.VehicleService
	Dashboard services.DashboardService
	Users     services.UserService
	Triggers  *services.TriggerBoard
	Brands    *services.RefManager[models.CarBrand]
	CarModels *services.RefManager[models.CarModel]
	Companies *services.RefManager[models.RentACar]
	Locations *services.RefManager[models.StoreLocation]

	DownloadDir string
	Logger      logging.Logger
}

type App struct {
	Deps
	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
	boot   func(ctx context.Context)
}

// NewApp opens the local store, builds the API client and the services, and
// returns an App reading from stdin.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	client, err := api.New(api.Config{
		Origin:  c.Origin,
		APIBase: c.APIBase,
		Timeout: c.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.NewStore(client, kv.NewSQLiteRepository(db), log)
	client.SetTokenSource(store)

	app := newApp(Wire(client, store, log), os.Stdin, os.Stdout)
	app.DownloadDir = c.DownloadDir
	app.db = db
	app.boot = store.Bootstrap
	return app, nil
}

// Wire builds the services on top of client, invalidating s on 401.
func Wire(client *api.Client, s Session, log logging.Logger) Deps {
	return Deps{
		Session:   s,
		Vehicles:  services.NewVehicleService(client, s, log),
		Dashboard: services.NewDashboardService(client, s),
		Users:     services.NewUserService(client, s, log),
		Triggers:  services.NewTriggerBoard(client, s, log),
		Brands:    services.NewRefManager[models.CarBrand](api.Brands(client), s, log),
		CarModels: services.NewRefManager[models.CarModel](api.CarModels(client), s, log),
		Companies: services.NewRefManager[models.RentACar](api.Companies(client), s, log),
		Locations: services.NewRefManager[models.StoreLocation](api.Locations(client), s, log),
		Logger:    log,
	}
}

func newApp(d Deps, in io.Reader, out io.Writer) *App {
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.DownloadDir == "" {
		d.DownloadDir = "."
	}
	return &App{Deps: d, reader: bufio.NewReader(in), out: out}
}

// Run restores the session and runs the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	if a.boot != nil {
		a.boot(ctx)
	}
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.Session.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	u := a.Session.CurrentUser()
	return u != nil && u.IsAdmin()
}

func (a *App) getStatus() string {
	u := a.Session.CurrentUser()
	if u == nil {
		return "(logged out)"
	}
	return fmt.Sprintf("(%s %s)", u.Username, u.Role.Label())
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
