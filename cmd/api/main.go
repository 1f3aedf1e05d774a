package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/hunty-api/internal/config"
	"github.com/yourusername/hunty-api/internal/events"
	"github.com/yourusername/hunty-api/internal/handler"
	"github.com/yourusername/hunty-api/internal/middleware"
	pgRepo "github.com/yourusername/hunty-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/hunty-api/internal/repository/redis"
	"github.com/yourusername/hunty-api/internal/service"
	"github.com/yourusername/hunty-api/internal/token"
	"github.com/yourusername/hunty-api/pkg/auth"
	"github.com/yourusername/hunty-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	huntRepo := pgRepo.NewHuntRepo(db)
	clueRepo := pgRepo.NewClueRepo(db)
	progressRepo := pgRepo.NewProgressRepo(db)
	rewardRepo := pgRepo.NewRewardRepo(db)
	nftRepo := pgRepo.NewNftRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем клиент внешнего токен-сервиса
	ledger, err := token.NewClient(cfg.Token.BaseURL)
	if err != nil {
		log.Printf("Failed to initialize token service client: %v", err)
		os.Exit(1)
	}

	// Эмиттер фактов: запись в БД + публикация в Redis
	emitter := events.NewEmitter(db, redisClient)

	// Инициализируем сервисы
	userService := service.NewUserService(userRepo, jwtService)
	nftService := service.NewNftService(nftRepo, db, emitter)
	rewardService := service.NewRewardService(
		rewardRepo, huntRepo, nftService, ledger, db, emitter,
		cfg.Token.TreasuryAccount, cfg.Token.NftIssuer,
	)
	huntService := service.NewHuntService(
		huntRepo, clueRepo, progressRepo, cacheRepo,
		rewardService, emitter, db,
	)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(userService)
	huntHandler := handler.NewHuntHandler(huntService)
	rewardHandler := handler.NewRewardHandler(rewardService)
	nftHandler := handler.NewNftHandler(nftService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), authHandler.Register)
			authGroup.POST("/login", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		}

		// Ханты
		hunts := api.Group("/hunts")
		{
			hunts.GET("", huntHandler.ListHunts)

			// Маршрут создания ханта (не требует ID)
			authedCreate := hunts.Group("")
			authedCreate.Use(authMiddleware.RequireAuth())
			{
				authedCreate.POST("", huntHandler.CreateHunt)
			}

			// Группа маршрутов, требующих huntID
			huntWithID := hunts.Group("/:id")
			huntWithID.Use(middleware.ExtractUintParam("id", "huntID"))
			{
				huntWithID.GET("", huntHandler.GetHunt)
				huntWithID.GET("/clues", huntHandler.ListClues)
				huntWithID.GET("/leaderboard", huntHandler.GetLeaderboard)
				huntWithID.GET("/leaderboard/export", huntHandler.ExportLeaderboard)
				huntWithID.GET("/statistics", huntHandler.GetStatistics)
				huntWithID.GET("/pool", rewardHandler.GetPoolBalance)

				// Маршруты для аутентифицированных пользователей
				authedHunts := huntWithID.Group("")
				authedHunts.Use(authMiddleware.RequireAuth())
				{
					// Операции создателя
					authedHunts.POST("/clues", huntHandler.AddClue)
					authedHunts.PUT("/activate", huntHandler.ActivateHunt)
					authedHunts.PUT("/deactivate", huntHandler.DeactivateHunt)
					authedHunts.PUT("/cancel", huntHandler.CancelHunt)
					authedHunts.PUT("/rewards", huntHandler.ConfigureRewards)

					// Операции игрока
					authedHunts.POST("/register", huntHandler.RegisterPlayer)
					authedHunts.GET("/progress", huntHandler.GetProgress)
					authedHunts.POST("/claim", huntHandler.ClaimReward)
					authedHunts.GET("/distribution", rewardHandler.GetDistributionStatus)

					// Финансирование пула доступно любому пользователю
					authedHunts.POST("/fund",
						rateLimiter.LimitByIP(middleware.FundPoolRateLimitConfig()),
						rewardHandler.FundPool)

					// Подсказки по ID внутри ханта
					clueWithID := authedHunts.Group("/clues/:clue_id")
					clueWithID.Use(middleware.ExtractUintParam("clue_id", "clueID"))
					{
						clueWithID.GET("", huntHandler.GetClue)
						clueWithID.POST("/submit",
							rateLimiter.Limit(middleware.SubmitAnswerRateLimitConfig()),
							huntHandler.SubmitAnswer)
					}
				}
			}
		}

		// NFT
		nfts := api.Group("/nfts")
		{
			nfts.GET("/supply", nftHandler.GetTotalSupply)
			nfts.GET("/my", authMiddleware.RequireAuth(), nftHandler.GetMyNfts)

			nftWithID := nfts.Group("/:id")
			nftWithID.Use(middleware.ExtractUintParam("id", "nftID"))
			{
				nftWithID.GET("", nftHandler.GetNft)
				nftWithID.GET("/metadata", nftHandler.GetNftMetadata)
				nftWithID.GET("/owner", nftHandler.GetNftOwner)

				authedNfts := nftWithID.Group("")
				authedNfts.Use(authMiddleware.RequireAuth())
				{
					authedNfts.POST("/transfer", nftHandler.TransferNft)
					authedNfts.PUT("/metadata", nftHandler.UpdateNftMetadata)
				}
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
