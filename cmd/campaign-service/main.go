package main

import (
	"flag"
	"os"

	"github.com/tablekeep/tablekeep/campaignservice"
	"github.com/tablekeep/tablekeep/internal/config"
	"github.com/tablekeep/tablekeep/internal/logger"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	log := logger.New("campaign-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *buildTarget != "" {
		cfg.BuildTarget = *buildTarget
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid build-target override")
		}
	}

	if err := campaignservice.RunWithConfig(cfg); err != nil {
		os.Exit(1)
	}
}
