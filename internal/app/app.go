package app

import (
	"context"

	"muster/config"
	"muster/internal/database"
	"muster/internal/events"
	"muster/internal/handlers/middleware"
	"muster/internal/logger"
	"muster/internal/repositories"
	"muster/internal/services"
	"muster/internal/websockets"

	adminController "muster/internal/controllers/admin"
	checkinController "muster/internal/controllers/checkin"
	personnelController "muster/internal/controllers/personnel"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	SessionService     *services.SessionService
	QRCodeService      *services.QRCodeService
	ExportService      *services.ExportService

	// Repositories
	PersonnelRepo repositories.PersonnelRepository
	CheckinRepo   repositories.CheckinRepository
	AdminRepo     repositories.AdminRepository

	// Controllers
	CheckinController   *checkinController.CheckinController
	PersonnelController *personnelController.PersonnelController
	AdminController     *adminController.AdminController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	sessionService := services.NewSessionService(db.Cache.Session, config.SessionTTL)
	qrCodeService := services.NewQRCodeService(config.PublicDir)
	exportService := services.NewExportService()
	tokenGenerator := services.NewCryptoTokenGenerator()

	// Initialize repositories
	personnelRepo := repositories.NewPersonnel(db)
	checkinRepo := repositories.NewCheckin(db)
	adminRepo := repositories.NewAdmin(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(sessionService, config)
	checkinCtrl := checkinController.New(personnelRepo, checkinRepo, eventBus, config)
	personnelCtrl := personnelController.New(personnelRepo, transactionService, tokenGenerator)
	adminCtrl := adminController.New(adminRepo, config)

	if err := adminCtrl.EnsureDefaultAdmin(context.Background()); err != nil {
		return &App{}, log.Err("failed to ensure default admin", err)
	}

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:            db,
		Config:              config,
		Middleware:          middleware,
		TransactionService:  transactionService,
		SessionService:      sessionService,
		QRCodeService:       qrCodeService,
		ExportService:       exportService,
		PersonnelRepo:       personnelRepo,
		CheckinRepo:         checkinRepo,
		AdminRepo:           adminRepo,
		CheckinController:   checkinCtrl,
		PersonnelController: personnelCtrl,
		AdminController:     adminCtrl,
		Websocket:           websocket,
		EventBus:            eventBus,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.SessionService,
		a.QRCodeService,
		a.ExportService,
		a.CheckinController,
		a.PersonnelController,
		a.AdminController,
		a.PersonnelRepo,
		a.CheckinRepo,
		a.AdminRepo,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
