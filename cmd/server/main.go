package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aura-creatures.backend/internal/config"
	"aura-creatures.backend/internal/infrastructure/blockchain"
	"aura-creatures.backend/internal/infrastructure/facilitator"
	"aura-creatures.backend/internal/infrastructure/imagegen"
	"aura-creatures.backend/internal/infrastructure/ipfs"
	"aura-creatures.backend/internal/infrastructure/models"
	"aura-creatures.backend/internal/infrastructure/oauth"
	infrarepos "aura-creatures.backend/internal/infrastructure/repositories"
	"aura-creatures.backend/internal/infrastructure/signer"
	"aura-creatures.backend/internal/interfaces/http/handlers"
	"aura-creatures.backend/internal/interfaces/http/middleware"
	"aura-creatures.backend/internal/usecases"
	"aura-creatures.backend/pkg/jwt"
	"aura-creatures.backend/pkg/kv"
	"aura-creatures.backend/pkg/logger"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	dialChain = blockchain.NewEVMClient
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.TokenRecord{}, &kv.Entry{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Idempotency store: Redis when configured, otherwise the kv_entries
	// table on the main database.
	var store kv.Store
	if cfg.Redis.URL != "" {
		redisStore, err := kv.NewRedisStore(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			logger.Warn(context.Background(), "Redis unavailable, falling back to database store", zap.Error(err))
			store = kv.NewGormStore(db)
		} else {
			store = redisStore
			logger.Info(context.Background(), "Redis idempotency store initialized")
		}
	} else {
		store = kv.NewGormStore(db)
	}
	limiter := kv.NewLimiter(store)
	locker := kv.NewLocker(store)

	// Chain access
	evmClient, err := dialChain(cfg.Chain.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to chain rpc: %w", err)
	}
	contract, err := blockchain.NewCreatureContract(evmClient, cfg.Chain.ContractAddress)
	if err != nil {
		return fmt.Errorf("failed to bind creature contract: %w", err)
	}

	mintSigner, err := signer.NewMintSigner(cfg.Signer.PrivateKey, big.NewInt(cfg.Chain.ChainID), cfg.Chain.ContractAddress)
	if err != nil {
		return fmt.Errorf("failed to load mint signer key: %w", err)
	}
	logger.Info(context.Background(), "Mint authority loaded", zap.String("address", mintSigner.Address()))

	// Outbound clients
	pinata := ipfs.NewPinataClient("", cfg.Pinata.JWT, cfg.Pinata.Gateway)
	imageClient := imagegen.NewClient(cfg.ImageGen.URL, cfg.ImageGen.APIKey, cfg.ImageGen.ModelVersion)
	facilitatorURL := cfg.X402.FacilitatorURL
	if cfg.X402.CDPKeyID != "" && cfg.X402.CDPKeySecret != "" && facilitatorURL == "https://x402.org/facilitator" {
		// CDP credentials imply the authenticated Coinbase facilitator
		facilitatorURL = "https://api.cdp.coinbase.com/x402/facilitator"
	}
	facilitatorClient := facilitator.NewClient(facilitatorURL, cfg.X402.CDPKeyID, cfg.X402.CDPKeySecret)
	xClient := oauth.NewXClient(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.CallbackURL)

	// Session tokens
	sessionService := jwt.NewSessionService(cfg.Session.JWTSecret, cfg.Session.Expiry)

	// Repositories
	tokenRecordRepo := infrarepos.NewTokenRecordRepository(db)

	// Usecases
	generateUsecase := usecases.NewGenerateUsecase(
		tokenRecordRepo, imageClient, pinata, limiter, locker,
		cfg.ImageGen.Theme, cfg.ImageGen.ModelVersion,
		cfg.RateLimit.GenerateLimit, cfg.RateLimit.Window,
	)
	mintPermitUsecase := usecases.NewMintPermitUsecase(
		tokenRecordRepo, contract, mintSigner, limiter,
		cfg.RateLimit.MintLimit, cfg.RateLimit.Window,
	)
	oauthUsecase := usecases.NewOAuthUsecase(xClient, store, sessionService)

	// Handlers
	generateHandler := handlers.NewGenerateHandler(generateUsecase)
	mintPermitHandler := handlers.NewMintPermitHandler(mintPermitUsecase)
	oauthHandler := handlers.NewOAuthHandler(oauthUsecase)

	paymentGate := middleware.PaymentMiddleware(facilitatorClient, middleware.PaymentConfig{
		Asset:     cfg.X402.Asset,
		Amount:    cfg.X402.PriceAtomic,
		ChainID:   cfg.Chain.ChainID,
		Recipient: cfg.X402.ReceiverWallet,
	})

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		generateHandler:   generateHandler,
		mintPermitHandler: mintPermitHandler,
		oauthHandler:      oauthHandler,
		paymentGate:       paymentGate,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		evmClient.Close()
	}()

	// Start server
	log.Printf("🚀 Aura Creatures Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
