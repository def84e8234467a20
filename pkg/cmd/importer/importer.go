package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/racedatahub/racedata-manager-go/log"
	"github.com/racedatahub/racedata-manager-go/pkg/config"
	"github.com/racedatahub/racedata-manager-go/pkg/db/postgres"
	imp "github.com/racedatahub/racedata-manager-go/pkg/importer"
	"github.com/racedatahub/racedata-manager-go/pkg/parse"
	"github.com/racedatahub/racedata-manager-go/pkg/utils"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import dataDir",
		Short: "imports the race data CSV files of a directory",
		Long: `imports the race data CSV files of a directory.
Files are matched by name convention (lap, result, telemetry, section,
weather). Each file is loaded in one transaction; vehicle summaries are
recomputed at the end of the run. Re-importing a file into the same
store duplicates its dependent rows, imports should target a fresh
store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0])
		},
	}
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLoggers() (logger, sqlLogger *log.Logger) {
	switch config.LogFormat {
	case "json":
		if config.LogFilter != "" {
			logger = log.NewWithRules(os.Stderr,
				parseLogLevel(config.LogLevel, log.InfoLevel), config.LogFilter)
		} else {
			logger = log.New(os.Stderr,
				parseLogLevel(config.LogLevel, log.InfoLevel))
		}
		sqlLogger = log.New(os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel))
	default:
		logger = log.DevLogger(os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel))
		sqlLogger = log.DevLogger(os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel))
	}
	return logger, sqlLogger
}

func runImport(ctx context.Context, dir string) error {
	logger, sqlLogger := setupLoggers()
	log.ResetDefault(logger)

	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		logger.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(postgresAddr, timeout); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	pool, err := postgres.InitWithURL(config.DB,
		postgres.WithTracer(sqlLogger.Named("sql")))
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer pool.Close()

	i := imp.New(pool, imp.WithLogger(logger.Named("importer")))
	summary, err := i.ImportDir(log.AddToContext(ctx, logger), dir)
	if err != nil {
		logger.Error("import failed", log.ErrorField(err))
		return err
	}
	printSummary(summary)
	return nil
}

func printSummary(s *imp.Summary) {
	fmt.Printf("imported %d files\n", s.Files)
	fmt.Printf("vehicles: %d\n", s.Vehicles)
	for _, source := range []parse.SourceType{
		parse.SourceResults, parse.SourceLaps, parse.SourceSections,
		parse.SourceTelemetry, parse.SourceWeather,
	} {
		if s.Imported[source] == 0 && s.Skipped[source] == 0 {
			continue
		}
		fmt.Printf("%s: %d rows", source, s.Imported[source])
		if s.Skipped[source] > 0 {
			fmt.Printf(" (%d skipped)", s.Skipped[source])
		}
		fmt.Println()
	}
}
