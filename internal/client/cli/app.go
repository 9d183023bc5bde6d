package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/iysravet/iyscli/internal/client/api"
	"github.com/iysravet/iyscli/internal/client/config"
	"github.com/iysravet/iyscli/internal/client/localdb"
	"github.com/iysravet/iyscli/internal/client/models"
	"github.com/iysravet/iyscli/internal/client/services"
	"github.com/iysravet/iyscli/internal/logging"
	"github.com/iysravet/iyscli/internal/registration"
	"github.com/iysravet/iyscli/internal/session"
)

// eventLister is the slice of the event feed the CLI needs.
type eventLister interface {
	Refresh(ctx context.Context) ([]models.EventRecord, error)
}

type App struct {
	config      *config.Config
	apiClient   api.Client
	authService services.AuthService
	feed        eventLister
	workflow    *registration.Workflow
	store       *session.Store
	db          *sql.DB
	log         logging.Logger
	reader      *bufio.Reader

	// details of the yatra the workflow is currently bound to, for display
	details *models.EventDetails

	// rendered prompt status; updated by the broadcaster subscription, not
	// by polling the store on every prompt
	status string
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := localdb.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient, err := api.NewRESTClient(c.BaseURL, c.RequestTimeout, log)
	if err != nil {
		return nil, err
	}

	broadcaster := session.NewBroadcaster()
	store := session.NewStore(db, broadcaster, log)
	store.Restore(ctx)

	a := &App{
		config:      c,
		apiClient:   apiClient,
		authService: services.NewAuthService(apiClient, store),
		feed:        services.NewEventFeed(apiClient, store, broadcaster, log),
		workflow:    registration.NewWorkflow(apiClient, store, log),
		store:       store,
		db:          db,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
	}

	a.status = a.renderStatus()
	broadcaster.Subscribe(func(session.Event) {
		a.status = a.renderStatus()
	})

	return a, nil
}

func (a *App) renderStatus() string {
	cur := a.store.Current()
	if !cur.Authenticated {
		return ""
	}
	return "(" + cur.Username + ")"
}

func (a *App) isLoggedIn() bool {
	return a.store.Current().Authenticated
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	printlnFn("IYS CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string { return a.status }, scanner)
}
