package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Pinata    PinataConfig
	ImageGen  ImageGenConfig
	Chain     ChainConfig
	X402      X402Config
	OAuth     OAuthConfig
	Signer    SignerConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. An empty URL disables the Redis
// idempotency store backend.
type RedisConfig struct {
	URL      string
	Password string
}

// PinataConfig holds IPFS pinning configuration
type PinataConfig struct {
	JWT     string
	Gateway string
}

// ImageGenConfig holds image generation backend configuration
type ImageGenConfig struct {
	URL          string
	APIKey       string
	Theme        string
	ModelVersion string
}

// ChainConfig holds blockchain configuration
type ChainConfig struct {
	RPCURL          string
	ContractAddress string
	ChainID         int64
}

// X402Config holds payment gate configuration
type X402Config struct {
	FacilitatorURL string
	CDPKeyID       string
	CDPKeySecret   string
	PriceAtomic    string
	Asset          string
	ReceiverWallet string
}

// OAuthConfig holds X OAuth app credentials
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// SignerConfig holds the mint authority key
type SignerConfig struct {
	PrivateKey string
}

// SessionConfig holds session token configuration
type SessionConfig struct {
	JWTSecret string
	Expiry    time.Duration
}

// RateLimitConfig holds per-wallet request limits
type RateLimitConfig struct {
	GenerateLimit int64
	MintLimit     int64
	Window        time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "auracreatures"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Pinata: PinataConfig{
			JWT:     getEnv("PINATA_JWT", ""),
			Gateway: getEnv("PINATA_GATEWAY", "https://gateway.pinata.cloud"),
		},
		ImageGen: ImageGenConfig{
			URL:          getEnv("IMAGEGEN_URL", "https://api.daydreams.systems"),
			APIKey:       getEnv("IMAGEGEN_API_KEY", ""),
			Theme:        getEnv("COLLECTION_THEME", "frog"),
			ModelVersion: getEnv("MODEL_VERSION", "1"),
		},
		Chain: ChainConfig{
			RPCURL:          getEnv("CHAIN_RPC_URL", "https://sepolia.base.org"),
			ContractAddress: getEnv("CONTRACT_ADDRESS", ""),
			ChainID:         int64(getEnvAsInt("CHAIN_ID", 84532)),
		},
		X402: X402Config{
			FacilitatorURL: getEnv("X402_FACILITATOR_URL", "https://x402.org/facilitator"),
			CDPKeyID:       getEnv("CDP_API_KEY_ID", ""),
			CDPKeySecret:   getEnv("CDP_API_KEY_SECRET", ""),
			PriceAtomic:    getEnv("X402_PRICE_ATOMIC", "6000000"), // 6 USDC, 6 decimals
			Asset:          getEnv("X402_ASSET", "USDC"),
			ReceiverWallet: getEnv("X402_RECEIVER_WALLET", ""),
		},
		OAuth: OAuthConfig{
			ClientID:     getEnv("X_CLIENT_ID", ""),
			ClientSecret: getEnv("X_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("X_CALLBACK_URL", ""),
		},
		Signer: SignerConfig{
			PrivateKey: getEnv("SIGNER_PRIVATE_KEY", ""),
		},
		Session: SessionConfig{
			JWTSecret: getEnv("SESSION_JWT_SECRET", "change-this-in-production"),
			Expiry:    getEnvAsDuration("SESSION_EXPIRY", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			GenerateLimit: int64(getEnvAsInt("RATE_LIMIT_GENERATE", 10)),
			MintLimit:     int64(getEnvAsInt("RATE_LIMIT_MINT", 10)),
			Window:        getEnvAsDuration("RATE_LIMIT_WINDOW", time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
