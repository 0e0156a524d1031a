package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Keys the pipeline degrades without (AI falls back to mock naming,
	// chains without credentials are skipped)
	optional := []string{
		"OPENAI_API_KEY",
		"SERP_API_KEY",
		"SOCIAL_BEARER_TOKEN",
		"PINATA_JWT",
		"EVM_PRIVATE_KEY",
		"SOLANA_PRIVATE_KEY",
	}

	for _, env := range optional {
		if os.Getenv(env) == "" {
			log.Printf("Warning: %s environment variable not set\n", env)
		}
	}
}

// Config collects every knob the pipeline reads from the environment.
type Config struct {
	// social poller
	SocialAPIURL      string
	SocialBearerToken string
	SocialQuery       string
	PollInterval      time.Duration

	// ai
	OpenAIKey  string
	SerpAPIKey string

	// metadata
	PinataJWT string

	// evm submission + vanity search
	EVMRPCURL             string
	EVMPrivateKey         string
	PortalAddress         string
	ImplementationAddress string
	VanitySuffix          string
	VanityMaxIter         uint64
	VanityWorkers         int

	// solana submission
	SolanaRPCURL     string
	SolanaPrivateKey string

	// infrastructure
	NATSURL string // empty runs an embedded server
	APIPort int
	DataDir string
}

// Load builds a Config from the environment, applying defaults.
func Load() Config {
	return Config{
		SocialAPIURL:      getEnv("SOCIAL_API_URL", "https://api.twitter.com/2"),
		SocialBearerToken: os.Getenv("SOCIAL_BEARER_TOKEN"),
		SocialQuery:       getEnv("SOCIAL_QUERY", "@launchmeow"),
		PollInterval:      getDuration("POLL_INTERVAL", 30*time.Second),

		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		SerpAPIKey: os.Getenv("SERP_API_KEY"),

		PinataJWT: os.Getenv("PINATA_JWT"),

		EVMRPCURL:             getEnv("EVM_RPC_URL", "http://localhost:8545"),
		EVMPrivateKey:         os.Getenv("EVM_PRIVATE_KEY"),
		PortalAddress:         os.Getenv("PORTAL_ADDRESS"),
		ImplementationAddress: os.Getenv("IMPLEMENTATION_ADDRESS"),
		VanitySuffix:          getEnv("VANITY_SUFFIX", "8888"),
		VanityMaxIter:         getUint("VANITY_MAX_ITERATIONS", 0), // 0 uses the package default
		VanityWorkers:         int(getUint("VANITY_WORKERS", 0)),

		SolanaRPCURL:     getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		SolanaPrivateKey: os.Getenv("SOLANA_PRIVATE_KEY"),

		NATSURL: os.Getenv("NATS_URL"),
		APIPort: int(getUint("API_PORT", 3000)),
		DataDir: getEnv("DATA_DIR", "./data"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getUint(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %d\n", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %s\n", key, v, def)
		return def
	}
	return d
}
