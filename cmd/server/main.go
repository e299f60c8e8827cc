package main

import (
	"fmt"
	"os"

	"github.com/MKhiriev/runtime-env-edge/internal/config"
	httphandler "github.com/MKhiriev/runtime-env-edge/internal/handler/http"
	"github.com/MKhiriev/runtime-env-edge/internal/logger"
	"github.com/MKhiriev/runtime-env-edge/internal/runtimeenv"
	"github.com/MKhiriev/runtime-env-edge/internal/server"
	"github.com/MKhiriev/runtime-env-edge/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("edge-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	handler, err := httphandler.NewHandler(cfg, runtimeenv.EnvSource{}, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handler")
	}

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
