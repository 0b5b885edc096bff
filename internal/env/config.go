package env

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	MPDHost     string `env:"DMIX_MPD_HOST"`
	MPDPort     int    `env:"DMIX_MPD_PORT"`
	MPDPassword string `env:"DMIX_MPD_PASSWORD"`
	DebugHTTP   bool   `env:"DMIX_DEBUG_HTTP"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
