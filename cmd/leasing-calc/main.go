package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/leasing-calc/internal/config"
	"github.com/iwvelando/leasing-calc/internal/logging"
	"github.com/iwvelando/leasing-calc/internal/report"
	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/frequency"
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/output"
	"github.com/iwvelando/leasing-calc/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	interactive := flag.Bool("interactive", false, "prompt for the grace of each period")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	requestedFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		requestedFormat = *outputFormatFlag
	}
	outputFormat, err := validation.OutputFormat(requestedFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if fieldErrs := conf.Leasing.FieldErrors(); len(fieldErrs) > 0 {
		for _, fieldErr := range fieldErrs {
			logger.Error("invalid leasing field",
				zap.String("op", "main"),
				zap.String("field", fieldErr.Field),
				zap.String("error", fieldErr.Message),
			)
		}
		logger.Fatal("leasing configuration is invalid",
			zap.String("op", "main"),
			zap.Int("fields", len(fieldErrs)),
		)
	}

	if *interactive {
		periods, err := periodCount(conf.Leasing)
		if err != nil {
			logger.Fatal("failed to size the schedule",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		grace, err := promptGracePeriods(os.Stdin, os.Stderr, periods, conf.Leasing.GracePeriods)
		if err != nil {
			logger.Fatal("failed to read grace periods",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		conf.Leasing.GracePeriods = grace
	}

	result, err := report.ComputeFromConfig(logger, conf)
	if err != nil {
		logger.Fatal("failed to compute leasing schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, result)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(os.Stdout, result); err != nil {
			logger.Fatal("failed to write CSV",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

func periodCount(l config.Leasing) (int, error) {
	days, err := frequency.ToDays(l.PaymentFrequency)
	if err != nil {
		return 0, fmt.Errorf("paymentFrequency: %w", err)
	}
	return leasing.PeriodCount(l.LeasingTime, days)
}
