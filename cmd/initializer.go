package main

import (
	"database/sql"
	"log"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"masterlink/internal/config"
	"masterlink/internal/dispatch"
	"masterlink/internal/events"
	"masterlink/internal/handlers"
	"masterlink/internal/repositories"
	"masterlink/internal/services"
	"masterlink/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	cfg      config.Config

	wsManager    *WebSocketManager
	tokenManager *utils.Manager
	cycle        *dispatch.Cycle

	requestHandler  *handlers.RequestHandler
	responseHandler *handlers.ResponseHandler
	bookingHandler  *handlers.BookingHandler
	tokenHandler    *handlers.TokenHandler
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcm *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	requestRepo := repositories.RequestRepository{DB: db}
	masterRepo := repositories.MasterRepository{DB: db}
	dispatchRepo := repositories.DispatchRepository{DB: db}
	responseRepo := repositories.ResponseRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	tokenRepo := repositories.TokenRepository{DB: db}

	engineLog := &engineLogger{info: infoLog, err: errorLog}
	publisher := &events.Publisher{RDB: rdb}
	wsManager := NewWebSocketManager()

	notifier := &services.NotificationService{
		Client:    fcm,
		TokenRepo: &tokenRepo,
		Events:    publisher,
		Hub:       wsManager,
		Logger:    engineLog,
	}

	settings := dispatch.Settings{
		ResponseWindow: time.Duration(cfg.Dispatch.ResponseWindowMin) * time.Minute,
		CycleInterval:  time.Duration(cfg.Dispatch.CycleIntervalSec) * time.Second,
		InitialBatch:   cfg.Dispatch.InitialBatch,
		ExpandedBatch:  cfg.Dispatch.ExpandedBatch,
		MaxCandidates:  cfg.Dispatch.MaxCandidates,
	}
	dispatcher := dispatch.NewDispatcher(&masterRepo, &dispatchRepo, notifier, engineLog, settings)
	cycle := dispatch.NewCycle(dispatcher, &dispatchRepo, engineLog, settings)

	// Services
	requestService := &services.RequestService{
		RequestRepo:  &requestRepo,
		DispatchRepo: &dispatchRepo,
		Dispatcher:   dispatcher,
		InitialBatch: cfg.Dispatch.InitialBatch,
		Logger:       engineLog,
	}
	responseService := &services.ResponseService{
		ResponseRepo: &responseRepo,
		RequestRepo:  &requestRepo,
		DispatchRepo: &dispatchRepo,
		MasterRepo:   &masterRepo,
		Events:       publisher,
		Hub:          wsManager,
		Logger:       engineLog,
	}
	bookingService := &services.BookingService{
		BookingRepo: &bookingRepo,
		MasterRepo:  &masterRepo,
		Now:         time.Now,
	}
	tokenService := &services.TokenService{TokenRepo: &tokenRepo}

	tokenManager, err := utils.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		errorLog.Fatal(err)
	}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		db:              db,
		cfg:             cfg,
		wsManager:       wsManager,
		tokenManager:    tokenManager,
		cycle:           cycle,
		requestHandler:  &handlers.RequestHandler{Service: requestService},
		responseHandler: &handlers.ResponseHandler{Service: responseService},
		bookingHandler:  &handlers.BookingHandler{Service: bookingService},
		tokenHandler:    &handlers.TokenHandler{Service: tokenService},
	}
}
