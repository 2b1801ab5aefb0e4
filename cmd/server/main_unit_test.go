package main

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"aura-creatures.backend/internal/config"
	"aura-creatures.backend/internal/infrastructure/blockchain"
	plog "aura-creatures.backend/pkg/logger"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origOpenDB := openDB
	origDialChain := dialChain
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		openDB = origOpenDB
		dialChain = origDialChain
		runServer = origRunServer
	})
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port: "18080",
			Env:  "development",
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "aura",
			SSLMode:  "disable",
		},
		Redis: config.RedisConfig{
			URL: "",
		},
		ImageGen: config.ImageGenConfig{
			URL:          "http://localhost:9991",
			Theme:        "frog",
			ModelVersion: "test-model",
		},
		Chain: config.ChainConfig{
			RPCURL:          "http://localhost:8545",
			ContractAddress: "0x00000000000000000000000000000000000000cc",
			ChainID:         84532,
		},
		X402: config.X402Config{
			FacilitatorURL: "https://x402.org/facilitator",
			PriceAtomic:    "6000000",
			Asset:          "USDC",
			ReceiverWallet: "0x00000000000000000000000000000000000000aa",
		},
		OAuth: config.OAuthConfig{
			ClientID:    "client",
			CallbackURL: "http://localhost:18080/api/v1/auth/x/callback",
		},
		Signer: config.SignerConfig{
			PrivateKey: "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		},
		Session: config.SessionConfig{
			JWTSecret: "secret",
			Expiry:    24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			GenerateLimit: 10,
			MintLimit:     10,
			Window:        time.Hour,
		},
	}
}

func stubChainDial(string) (*blockchain.EVMClient, error) {
	return blockchain.NewEVMClientWithCallView(big.NewInt(84532), nil), nil
}

func TestRunMainProcess_DBOpenError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) { return nil, errors.New("db open failed") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected db open error")
	}
}

func TestRunMainProcess_ChainDialError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_chain_err?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	}
	dialChain = func(string) (*blockchain.EVMClient, error) { return nil, errors.New("rpc unreachable") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected chain dial error")
	}
}

func TestRunMainProcess_BadSignerKey(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config {
		cfg := baseTestConfig()
		cfg.Signer.PrivateKey = "not-a-key"
		return cfg
	}
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_signer_err?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	}
	dialChain = stubChainDial

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected signer key error")
	}
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_server_err?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	}
	dialChain = stubChainDial
	runServer = func(*gin.Engine, string) error { return errors.New("listen failed") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected server run error")
	}
}

func TestRunMainProcess_Success(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_success?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	}
	dialChain = stubChainDial
	runServer = func(*gin.Engine, string) error { return nil }

	if err := runMainProcess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
