package stats

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/racedatahub/racedata-manager-go/log"
	"github.com/racedatahub/racedata-manager-go/pkg/config"
	"github.com/racedatahub/racedata-manager-go/pkg/db/postgres"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
	"github.com/racedatahub/racedata-manager-go/pkg/stats"
	"github.com/racedatahub/racedata-manager-go/pkg/utils"
)

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "recomputes the per-vehicle summary fields from the raw rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return recompute(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&config.CarNumber, "car-number", 0,
		"restrict recomputation to one vehicle (0: all vehicles)")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func recompute(ctx context.Context) error {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel))
	default:
		logger = log.DevLogger(os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel))
	}
	log.ResetDefault(logger)

	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		timeout = 60 * time.Second
	}
	if err := utils.WaitForTCP(utils.ExtractFromDBURL(config.DB), timeout); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	pool, err := postgres.InitWithURL(config.DB)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer pool.Close()

	ctx = log.AddToContext(ctx, logger)
	if config.CarNumber > 0 {
		v, err := vehicle.LoadByCarNumber(ctx, pool, config.CarNumber)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("no vehicle with car number %d", config.CarNumber)
			}
			return err
		}
		if err := stats.Recompute(ctx, pool, v); err != nil {
			return err
		}
		fmt.Printf("recomputed summary for %s\n", v.VehicleID)
		return nil
	}
	count, err := stats.RecomputeAll(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Printf("recomputed summaries for %d vehicles\n", count)
	return nil
}
