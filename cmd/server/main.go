// cmd/server/main.go
package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/unclebandit/sms-gateway/internal/config"
	"github.com/unclebandit/sms-gateway/internal/controller"
	"github.com/unclebandit/sms-gateway/internal/db"
	"github.com/unclebandit/sms-gateway/internal/provider"
	"github.com/unclebandit/sms-gateway/internal/queue"
	"github.com/unclebandit/sms-gateway/internal/repository"
	"github.com/unclebandit/sms-gateway/internal/service"
	"github.com/unclebandit/sms-gateway/internal/session"
	"github.com/unclebandit/sms-gateway/internal/webhook"
	"github.com/unclebandit/sms-gateway/web"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Init DB
	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		log.Fatal(err)
	}
	log.Println("✅ Connected to database")

	verifier, err := webhook.NewVerifier(cfg.Telnyx.PublicKey)
	if err != nil {
		log.Fatal("webhook verifier: ", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("templates: ", err)
	}

	var events queue.Publisher = queue.NewInMemoryPublisher()
	if cfg.Queue.AMQPURL != "" {
		amqpPub, err := queue.NewAMQPPublisher(cfg.Queue.AMQPURL, cfg.Queue.QueueName)
		if err != nil {
			log.Fatal("event queue: ", err)
		}
		defer amqpPub.Close()
		events = amqpPub
		slog.Info("publishing lifecycle events", "queue", cfg.Queue.QueueName)
	}

	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.Session.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		sessionStore = session.NewRedisStore(rdb)
		slog.Info("using redis session store", "addr", cfg.Session.RedisAddr)
	}
	sessions := session.NewManager(sessionStore, cfg.Session.TTL)

	messageRepo := &repository.MessageRepository{DB: conn}

	messageService := &service.MessageService{
		Repo:       messageRepo,
		Client:     provider.NewTelnyxClient(cfg.Telnyx.APIKey, cfg.Telnyx.MessagingProfileID, cfg.Telnyx.APIURL),
		Events:     events,
		FromNumber: cfg.Telnyx.FromNumber,
	}

	authController := &controller.AuthController{
		Sessions: sessions,
		Renderer: renderer,
		Username: cfg.App.Username,
		Password: cfg.App.Password,
	}
	messageController := &controller.MessageController{
		Service:         messageService,
		Sessions:        sessions,
		Renderer:        renderer,
		RefreshInterval: cfg.App.RefreshInterval,
		Version:         cfg.App.Version,
	}
	webhookController := &controller.WebhookController{
		Verifier: verifier,
		Service:  messageService,
	}

	r := controller.NewRouter(authController, messageController, webhookController, sessions)

	log.Println("🚀 Server running on", cfg.Server.Address)
	log.Fatal(http.ListenAndServe(cfg.Server.Address, r))
}
