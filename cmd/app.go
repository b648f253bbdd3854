package cmd

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	authPostgres "github.com/frahmantamala/shift-scheduler/internal/auth/postgres"
	"github.com/frahmantamala/shift-scheduler/internal/core/events"
	"github.com/frahmantamala/shift-scheduler/internal/department"
	departmentPostgres "github.com/frahmantamala/shift-scheduler/internal/department/postgres"
	departmentRedis "github.com/frahmantamala/shift-scheduler/internal/department/redis"
	"github.com/frahmantamala/shift-scheduler/internal/export"
	"github.com/frahmantamala/shift-scheduler/internal/notification"
	"github.com/frahmantamala/shift-scheduler/internal/notification/mail"
	notificationPostgres "github.com/frahmantamala/shift-scheduler/internal/notification/postgres"
	notificationRedis "github.com/frahmantamala/shift-scheduler/internal/notification/redis"
	"github.com/frahmantamala/shift-scheduler/internal/shift"
	shiftPostgres "github.com/frahmantamala/shift-scheduler/internal/shift/postgres"
	"github.com/frahmantamala/shift-scheduler/internal/store"
	"github.com/frahmantamala/shift-scheduler/internal/template"
	templatePostgres "github.com/frahmantamala/shift-scheduler/internal/template/postgres"
	"github.com/frahmantamala/shift-scheduler/internal/transport/rest"
	"github.com/frahmantamala/shift-scheduler/internal/user"
	userPostgres "github.com/frahmantamala/shift-scheduler/internal/user/postgres"
)

// App is the wired service graph shared by the server and the CLI commands.
type App struct {
	Config        *internal.Config
	Stores        *Stores
	Bus           *events.EventBus
	Users         *user.Service
	Shifts        *shift.Service
	Notifications *notification.Service
	Departments   *department.Service
	Export        *export.Service
	Sweeper       *notification.Sweeper
	Router        *chi.Mux
	Logger        *slog.Logger
}

func NewApp(cfg *internal.Config, stores *Stores, lg *slog.Logger) *App {
	app := &App{Config: cfg, Stores: stores, Logger: lg}
	db := stores.Gorm

	policy := auth.NewPolicy()
	rbac := auth.NewRBACAuthorization(policy, lg)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(db), tokens, cfg.Security.BCryptCost, lg)

	var deptCache department.Cache
	if stores.Redis != nil {
		deptCache = departmentRedis.NewCache(stores.Redis)
	}
	app.Departments = department.NewService(departmentPostgres.NewDepartmentRepository(db), deptCache, cfg.Cache.TTL, lg)

	app.Users = user.NewService(userPostgres.NewUserRepository(db), policy, cfg.Security.BCryptCost, lg).
		WithDepartments(app.Departments)

	app.Notifications = notification.NewService(notificationPostgres.NewNotificationRepository(db), cfg.Notification.Retention, lg)

	app.Bus = events.NewEventBus(lg)
	if cfg.Mail.ResendAPIKey != "" {
		sender := mail.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From)
		mail.NewSubscriber(sender, app.Users, lg).Register(app.Bus)
		lg.Info("mail notifications enabled", "from", cfg.Mail.From)
	}

	app.Shifts = shift.NewService(shift.Dependencies{
		Repo:       shiftPostgres.NewShiftRepository(db),
		Searcher:   shiftPostgres.NewSearchRepository(stores.SQLX),
		Transactor: store.NewTransactor(db),
		Notices:    app.Notifications,
		Owners:     app.Users,
		Policy:     policy,
		Events:     app.Bus,
		Logger:     lg,
	})

	app.Export = export.NewService(app.Shifts, lg)

	var locker notification.Locker
	if stores.Redis != nil {
		owner, _ := os.Hostname()
		locker = notificationRedis.NewLocker(stores.Redis, owner)
	}
	app.Sweeper = notification.NewSweeper(app.Notifications, locker, notification.SweeperConfig{
		Interval:     cfg.Notification.PurgeInterval,
		SweepOnStart: cfg.Notification.SweepOnStartEnabled(),
	}, lg)

	app.Router = rest.NewRouter(rest.Handlers{
		Auth:          auth.NewHandler(authService, lg),
		RBAC:          rbac,
		Users:         user.NewHandler(app.Users, lg),
		Shifts:        shift.NewHandler(app.Shifts, lg),
		Templates:     template.NewHandler(template.NewService(templatePostgres.NewTemplateRepository(db), lg), lg),
		Notifications: notification.NewHandler(app.Notifications, lg),
		Departments:   department.NewHandler(app.Departments, lg),
		Export:        export.NewHandler(app.Export, lg),
		Health:        rest.NewHealthHandler(stores.SQLX, stores.Redis),
	}, cfg.Server.Origins(), lg)

	return app
}
