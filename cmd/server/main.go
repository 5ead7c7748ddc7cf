package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/config"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/controllers"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/db"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/background"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/metrics"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/navigation"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/onboarding"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/ratelimit"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/sessioncache"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/routes"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/services"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/utils"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/websocket"
)

func main() {
	configPath := flag.String("config", "./config/config.prod.yml", "Path to config file")
	flag.Parse()

	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}

	logger := utils.NewLogger(cfg.Log.Level)
	utils.SetJWTSecret(cfg.JWT.Secret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.ConnectMongoDB(cfg.Database.URI, logger); err != nil {
		logger.Fatal("Failed to connect to MongoDB", "err", err)
	}
	defer db.MongoClient.Disconnect(context.Background())
	logger.Info("Connected to MongoDB")

	if err := db.EnsureIndexes(ctx, db.MongoDatabase); err != nil {
		logger.Fatal("Failed to create indexes", "err", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	app, err := newApp(ctx, cfg, logger, m)
	if err != nil {
		logger.Fatal("Failed to initialise services", "err", err)
	}

	if err := utils.SeedCatalogue(ctx, app.personas, app.questions); err != nil {
		logger.Error("Failed to seed catalogue", "err", err)
	}

	router := setupRouter(cfg, app, logger, registry)
	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "err", err)
	}
	// Let detached replenishments finish writing to Mongo.
	app.runner.Wait()
}

type app struct {
	personas  *db.PersonaStore
	questions *db.QuestionStore
	admins    *db.AdminStore
	runner    *background.Runner
	limiter   ratelimit.Limiter
	metrics   *metrics.Metrics

	onboarding *controllers.OnboardingController
	persona    *controllers.PersonaController
	navigation *controllers.NavigationController
	message    *controllers.MessageController
	chat       *controllers.ChatController
	media      *controllers.MediaController
	admin      *controllers.AdminController
	chatHub    *websocket.ChatHub
}

func newApp(ctx context.Context, cfg *config.Config, logger *log.Logger, m *metrics.Metrics) (*app, error) {
	database := db.MongoDatabase
	personas := db.NewPersonaStore(database)
	questions := db.NewQuestionStore(database)
	recommendations := db.NewRecommendationStore(database)
	dailyPool := db.NewDailyMessageStore(database)
	chatStore := db.NewChatStore(database)
	videoSessions := db.NewVideoSessionStore(database)
	admins := db.NewAdminStore(database)

	sessionTTL := time.Duration(cfg.Messages.SessionTTLMinutes) * time.Minute
	limits := ratelimit.Config{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	}

	var (
		navStore navigation.Store
		cache    sessioncache.Cache
		limiter  ratelimit.Limiter
	)
	if cfg.Redis.Addr != "" {
		rdb, err := db.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
		navStore, cache, limiter = redisStores(rdb, sessionTTL, limits)
	} else {
		logger.Warn("Redis not configured, keeping session state in memory")
		navStore = navigation.NewMemoryStore()
		cache = sessioncache.NewMemoryCache(sessionTTL)
		limiter = ratelimit.NewMemoryLimiter(limits)
	}
	tracker := navigation.NewTracker(navStore)

	openaiService := services.NewOpenAIService(cfg.Openai.GptApiKey, cfg.Openai.Model, cfg.Openai.TranscriptionModel)
	var generator services.TextGenerator = openaiService
	if cfg.Generator != "openai" {
		gemini, err := services.NewGeminiGenerator(ctx, cfg.Gemini.ApiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		generator = gemini
	}
	logger.Info("Text generator selected", "provider", generator.Provider())

	runner := background.NewRunner(logger.With("component", "background"), 2*time.Minute, m.ObserveTask)

	dailyGenerator := services.NewDailyMessageGenerator(services.WithLatency(generator, m.GeneratorLatency, "daily"), personas, dailyPool)
	dailyService := services.NewDailyMessageService(dailyPool, dailyGenerator, runner, logger,
		services.WithThresholds(cfg.Messages.LowWatermark, cfg.Messages.ReplenishBatch),
		services.WithDailyMetrics(m),
	)
	summaries := services.NewSessionSummaryService(services.WithLatency(generator, m.GeneratorLatency, "summary"))
	selector := services.NewMessageSelector(
		services.SelectorConfig{
			CachedRoute:      cfg.Messages.CachedRoute,
			SessionRoutes:    cfg.Messages.SessionRoutes,
			ChatContextTurns: cfg.Messages.ChatContextTurns,
		},
		tracker, cache, summaries, dailyService, chatStore, logger, m,
	)

	var tables services.TableSource = services.StaticTable{}
	if cfg.Onboarding.TableSource == services.TableSourceDatabase {
		tables = services.DatabaseTable{Questions: questions, Logger: logger}
	}
	recommender := onboarding.NewRecommender(logger.With("component", "recommender"), cfg.Onboarding.RecommendationSize)
	recommendationService := services.NewRecommendationService(recommender, tables, recommendations, personas, logger, m)

	chatService := services.NewChatService(chatStore, personas, services.WithLatency(generator, m.GeneratorLatency, "chat"))
	videoService := services.NewVideoService(services.NewTavusClient(cfg.Tavus.ApiKey, cfg.Tavus.BaseURL, nil), personas, videoSessions)

	return &app{
		personas:  personas,
		questions: questions,
		admins:    admins,
		runner:    runner,
		limiter:   limiter,
		metrics:   m,

		onboarding: controllers.NewOnboardingController(recommendationService, logger),
		persona:    controllers.NewPersonaController(personas, logger),
		navigation: controllers.NewNavigationController(tracker, logger),
		message:    controllers.NewMessageController(selector, dailyService, personas, logger),
		chat:       controllers.NewChatController(chatService, tracker, logger),
		media:      controllers.NewMediaController(openaiService, videoService, tracker, logger),
		admin:      controllers.NewAdminController(admins, questions, time.Duration(cfg.JWT.Expiry)*time.Minute, logger),
		chatHub:    websocket.NewChatHub(chatService, tracker, limiter, cfg.Server.AllowedOrigins, logger),
	}, nil
}

func redisStores(rdb *redis.Client, ttl time.Duration, limits ratelimit.Config) (navigation.Store, sessioncache.Cache, ratelimit.Limiter) {
	return navigation.NewRedisStore(rdb, ttl), sessioncache.NewRedisCache(rdb, ttl), ratelimit.NewRedisLimiter(rdb, limits)
}

func setupRouter(cfg *config.Config, a *app, logger *log.Logger, registry *prometheus.Registry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	enforcer, err := middlewares.NewEnforcer()
	if err != nil {
		logger.Fatal("Failed to initialise RBAC", "err", err)
	}
	routes.SetupAdminRoutes(router, a.admin, a.admins, enforcer, logger)

	limit := func(route string) gin.HandlerFunc {
		return middlewares.RateLimitMiddleware(a.limiter, route, a.metrics, logger)
	}

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		routes.SetupOnboardingRoutes(auth, a.onboarding)
		routes.SetupPersonaRoutes(auth, a.persona)
		routes.SetupNavigationRoutes(auth, a.navigation)
		routes.SetupMessageRoutes(auth, a.message, limit)
		routes.SetupChatRoutes(auth, a.chat, a.chatHub, limit)
		routes.SetupMediaRoutes(auth, a.media, limit)
	}

	return router
}
