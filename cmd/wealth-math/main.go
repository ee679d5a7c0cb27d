package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/wealth-math/internal/config"
	"github.com/iwvelando/wealth-math/internal/forecast"
	"github.com/iwvelando/wealth-math/internal/logging"
	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/iwvelando/wealth-math/pkg/datetime"
	"github.com/iwvelando/wealth-math/pkg/output"
	"github.com/iwvelando/wealth-math/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	asOf := flag.String("as-of", "", "projection date (YYYY-MM-DD), defaults to today")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	now := time.Now()
	if *asOf != "" {
		now, err = datetime.ParseDate(*asOf)
		if err != nil {
			logger.Fatal("invalid projection date",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	results, err := forecast.GetForecast(logger, *conf, now)
	if err != nil {
		logger.Fatal("failed to compute projection",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range results.Warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if err := output.Write(os.Stdout, outputFormat, results); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
