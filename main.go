package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"gym-backend/config"
	"gym-backend/events"
	"gym-backend/gate"
	"gym-backend/handler"
	"gym-backend/hub"
	"gym-backend/identity"
	"gym-backend/internal/throttle"
	"gym-backend/jwt"
	"gym-backend/log"
	"gym-backend/mail"
	"gym-backend/recovery"
	"gym-backend/roster"
	"gym-backend/session"
	"gym-backend/store"
	"gym-backend/web"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()
	cfg := config.Load(*envFile)
	log.EnsureLogger()
	defer log.Logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Logger.Fatal("failed connecting to database", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	docs := store.NewMongo(client.Database(cfg.MongoDatabase))
	if err := docs.EnsureIndexes(ctx); err != nil {
		log.Logger.Fatal("unable to create index", zap.Error(err))
	}

	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Logger.Fatal("failed connecting to redis", zap.Error(err))
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
	} else {
		log.Logger.Warn("REDIS_ADDR not set, sessions live in memory")
	}

	var bus events.Bus = events.NewLocalBus()
	if cfg.RabbitURL != "" {
		amqpBus, err := events.DialAMQP(cfg.RabbitURL)
		if err != nil {
			log.Logger.Fatal("failed connecting to rabbitmq", zap.Error(err))
		}
		defer amqpBus.Close()
		bus = amqpBus
	} else {
		log.Logger.Warn("RABBITMQ_CONNSTRING not set, identity events stay in process")
	}

	var mailer mail.Sender = mail.Noop{}
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		mailer = mail.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailSender)
	}

	routes, err := gate.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		log.Logger.Fatal("failed loading routes", zap.String("file", cfg.RoutesFile), zap.Error(err))
	}

	creds := identity.NewCredentials(docs)
	resolver := gate.NewStoreResolver(docs, gate.Policy(cfg.RolePolicy))
	sessionHub := hub.New(creds, sessions, bus, resolver, cfg.SessionTTL)
	defer sessionHub.Shutdown()

	reaper, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go sessionHub.RunReaper(reaper, cfg.SessionReapInterval)

	students := roster.New(docs, creds, mailer)
	limiter := throttle.New(cfg.SignInRate, cfg.SignInBurst)

	grpcServer := handler.NewServer(handler.Deps{
		Hub:      sessionHub,
		Routes:   routes,
		JWT:      jwt.New(cfg.JWTKey),
		Roster:   students,
		Recovery: recovery.New(docs, creds, mailer),
		Limiter:  limiter,
	})

	httpServer := &http.Server{
		Addr: fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort),
		Handler: web.New(web.Deps{
			Hub:           sessionHub,
			Routes:        routes,
			Roster:        students,
			Limiter:       limiter,
			CSRFKey:       []byte(cfg.CSRFKey),
			SecureCookies: cfg.SecureCookies,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%s", cfg.GRPCPort))
	if err != nil {
		log.Logger.Fatal("failed to listen", zap.Error(err))
	}
	log.Logger.Info(fmt.Sprintf("Listening on port: %s", cfg.GRPCPort), zap.String("policy", cfg.RolePolicy))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Logger.Fatal("couldn't serve grpcServer", zap.Error(err))
		}
	}()

	go func() {
		log.Logger.Info(fmt.Sprintf("HTTP listening on port: %s", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("couldn't serve httpServer", zap.Error(err))
		}
	}()

	stop, stopCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopCancel()
	<-stop.Done()

	log.Logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Logger.Error("http shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
}
