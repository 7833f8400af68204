package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Stream struct {
	// URL is the stream endpoint without the market query parameter.
	URL    string
	Market string
}

type Pipeline struct {
	// ChannelCapacity bounds each delta channel; a full channel suspends
	// the stream reader.
	ChannelCapacity int
	// TapeSize bounds the recent-execution ring.
	TapeSize int
	// MilestoneInterval is how many execution batches pass between count
	// log lines.
	MilestoneInterval int
}

type Config struct {
	Stream   Stream
	Pipeline Pipeline
	// APIAddr is the inspection server listen address; empty disables it.
	APIAddr string
	// Render prints the book to stdout after every applied batch.
	Render bool
	// LogFile duplicates structured logs to a file; empty logs to console only.
	LogFile string
}

func Default() Config {
	return Config{
		Stream: Stream{
			URL:    "wss://order-stream.trade.rails.xyz",
			Market: "ETH-USD",
		},
		Pipeline: Pipeline{
			ChannelCapacity:   16,
			TapeSize:          256,
			MilestoneInterval: 10,
		},
		APIAddr: ":8080",
		Render:  true,
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if url := os.Getenv("STREAM_URL"); url != "" {
		cfg.Stream.URL = url
	}
	if market := os.Getenv("MARKET"); market != "" {
		cfg.Stream.Market = market
	}
	if capacity := os.Getenv("CHANNEL_CAPACITY"); capacity != "" {
		if n, err := strconv.Atoi(capacity); err == nil && n > 0 {
			cfg.Pipeline.ChannelCapacity = n
		}
	}
	if size := os.Getenv("TAPE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.Pipeline.TapeSize = n
		}
	}
	if interval := os.Getenv("MILESTONE_INTERVAL"); interval != "" {
		if n, err := strconv.Atoi(interval); err == nil && n > 0 {
			cfg.Pipeline.MilestoneInterval = n
		}
	}
	if addr, ok := os.LookupEnv("API_ADDR"); ok {
		cfg.APIAddr = addr
	}
	if render := os.Getenv("RENDER"); render != "" {
		cfg.Render = render == "true"
	}
	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg
}
