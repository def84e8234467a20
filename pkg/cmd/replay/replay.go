package replay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/racedatahub/racedata-manager-go/log"
	"github.com/racedatahub/racedata-manager-go/pkg/config"
	"github.com/racedatahub/racedata-manager-go/pkg/db/postgres"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/replay"
	"github.com/racedatahub/racedata-manager-go/pkg/replay/stream"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
	"github.com/racedatahub/racedata-manager-go/pkg/utils"
	"github.com/racedatahub/racedata-manager-go/pkg/utils/cache"
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "replays the stored telemetry of a vehicle in original temporal order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&config.CarNumber, "car-number", 0,
		"car number of the vehicle to replay")
	cmd.Flags().IntVar(&config.Lap, "lap", 0,
		"restrict the replay to one lap (0: all laps)")
	cmd.Flags().Float64Var(&config.PlaybackSpeed, "speed", 1.0,
		fmt.Sprintf("playback speed factor (clamped to %.1f-%.0f)",
			replay.MinSpeed, replay.MaxSpeed))
	cmd.Flags().IntVar(&config.PageSize, "page-size", replay.DefaultPageSize,
		"rows per page when reading the time series")
	//nolint:errcheck // flag is defined right above
	cmd.MarkFlagRequired("car-number")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func runReplay(ctx context.Context) error {
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
		logger.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
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

	// client disconnect maps to SIGINT/SIGTERM on the CLI surface
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v, err := lookupVehicle(ctx, pool, config.CarNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("no vehicle with car number %d", config.CarNumber)
		}
		return err
	}

	task := replay.NewTask(v,
		replay.NewFetcher(pool, v.VehicleID, config.Lap, config.PageSize),
		stream.NewWriter(os.Stdout),
		replay.WithSpeed(config.PlaybackSpeed),
		replay.WithLap(config.Lap),
		replay.WithLogger(logger.Named("replay")))

	err = task.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("replay canceled")
		return nil
	}
	return err
}

// vehicleCache memoizes lookups so repeated subscriptions for the same
// car skip the query.
var vehicleCache cache.Cache[int, model.Vehicle]

func lookupVehicle(
	ctx context.Context,
	pool *pgxpool.Pool,
	carNumber int,
) (*model.Vehicle, error) {
	if vehicleCache == nil {
		vehicleCache = cache.New[int, model.Vehicle](
			cache.WithExpiration[int, model.Vehicle](time.Minute),
			cache.WithLoader[int, model.Vehicle](
				func(ctx context.Context, key int) (*model.Vehicle, error) {
					return vehicle.LoadByCarNumber(ctx, pool, key)
				}),
		)
	}
	return vehicleCache.Get(ctx, carNumber)
}
