package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/cmd/util"
	"github.com/pitwall/pitwall/pkg/config"
	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/provider/store"
	"github.com/pitwall/pitwall/pkg/service"
)

var (
	year        int
	circuit     string
	sessionType string
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze driverId",
		Short: "runs the driver analysis for one session and prints the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeDriver(args[0])
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "season of the session")
	cmd.Flags().StringVar(&circuit, "circuit", "", "circuit of the session")
	cmd.Flags().StringVar(&sessionType, "session-type", string(model.SessionTypeRace),
		"session type (Practice, Qualifying, Race)")
	cmd.Flags().StringVarP(&config.OutputFormat,
		"output",
		"o",
		"json",
		"output format (json, pretty)")
	return cmd
}

func analyzeDriver(driverID string) error {
	logger := util.SetupLogger()
	ctx := context.Background()

	st, err := store.New(config.SessionDB,
		store.WithLogger(logger.Named("store")))
	if err != nil {
		log.Error("could not open session store", log.ErrorField(err))
		return err
	}
	defer st.Close()

	svc := service.New(st, service.WithLogger(logger.Named("service")))
	key := model.SessionKey{
		Year:    year,
		Circuit: circuit,
		Type:    model.SessionType(sessionType),
	}
	if err := svc.LoadSession(ctx, key); err != nil {
		return err
	}
	analysis, _, err := svc.Analyze(ctx, driverID)
	if err != nil {
		return err
	}

	switch config.OutputFormat {
	case "pretty":
		printPretty(analysis)
		return nil
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
}

func printPretty(analysis *model.DriverAnalysis) {
	fmt.Printf("Driver:      %s (%s)\n",
		analysis.Driver.FullName, analysis.Driver.Abbreviation)
	fmt.Printf("Coast:       %.1f%%\n", analysis.CoastPercentage)
	if analysis.Efficiency.Valid {
		fmt.Printf("Efficiency:  %.1f\n", analysis.Efficiency.Score)
	} else {
		fmt.Println("Efficiency:  n/a")
	}
	if analysis.Evolution.Valid {
		fmt.Printf("Mean lap:    %.3fs over %d laps\n",
			analysis.Evolution.Mean, len(analysis.Evolution.Laps))
	} else {
		fmt.Println("Mean lap:    n/a")
	}
	for _, stint := range analysis.Stints {
		fmt.Printf("Stint %-12s %.3fs mean (%d laps)\n",
			stint.Compound, stint.MeanLapTime, stint.LapCount)
	}
}
