package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/handlers"
	"github.com/thereayou/agora/internal/oauth"
	"github.com/thereayou/agora/internal/services"
	"github.com/thereayou/agora/internal/ws"
	"github.com/thereayou/agora/pkg/auth"
	"github.com/thereayou/agora/pkg/logger"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
	Log        zerolog.Logger
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			// Переменные окружения уже заданы снаружи
		}
	}

	log := logger.New()

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	blacklist := services.NewTokenBlacklist(rdb)
	resolver := services.NewIdentityResolver(dbConn)

	hub := ws.NewHub(log)
	go hub.Run()

	notifSvc := services.NewNotificationService(dbConn, hub, log)
	chatSvc := services.NewChatService(dbConn, hub, notifSvc, log)

	gateway := ws.NewGateway(
		ws.NewConnectionAuthenticator(jwtMgr, resolver, blacklist),
		ws.NewFrameAuthorizer(chatSvc),
		chatSvc,
		hub,
		log,
	)

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, blacklist, oauth.NewClient(), log)
	userH := handlers.NewUserHandler(dbConn)
	chatH := handlers.NewChatHandler(chatSvc, hub)
	notifH := handlers.NewNotificationHandler(notifSvc)
	wsH := handlers.NewWebSocketHandler(hub, gateway)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, blacklist, resolver, authH, userH, chatH, notifH, wsH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Log:        log,
	}
}

// Run обслуживает запросы до SIGINT/SIGTERM, затем гасит hub
// и дорабатывает начатые запросы.
func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: s.Router}

	go func() {
		s.Log.Info().Str("port", port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Fatal().Err(err).Msg("server run error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.Log.Info().Msg("shutting down")
	s.Hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Error().Err(err).Msg("server shutdown")
	}
}
