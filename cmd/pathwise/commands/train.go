package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/service"
	"github.com/rushteam/pathwise/store"
)

var (
	trainPathway string
	trainCSV     string
	trainOut     string
	trainDataDir string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train model bundles from CSV datasets",
	Long: `Train one or all pathway bundles and write them as model_<pathway>.msgpack.

Without --csv each pathway reads <data-dir>/<pathway>_dataset.csv.`,
	RunE: runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.StringVarP(&trainPathway, "pathway", "p", "all", "pathway to train: all, career, education, tesda")
	f.StringVar(&trainCSV, "csv", "", "dataset CSV (single pathway only)")
	f.StringVarP(&trainOut, "out", "o", "models", "output directory")
	f.StringVar(&trainDataDir, "data-dir", "data", "directory holding <pathway>_dataset.csv")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	log, err := logger.New("development", "info")
	if err != nil {
		return err
	}
	defer log.Sync()

	var targets []core.Pathway
	if strings.EqualFold(trainPathway, "all") {
		targets = core.Pathways()
	} else {
		p, ok := core.ParsePathway(trainPathway)
		if !ok {
			return fmt.Errorf("unknown pathway %q", trainPathway)
		}
		targets = []core.Pathway{p}
	}
	if trainCSV != "" && len(targets) != 1 {
		return fmt.Errorf("--csv requires a single --pathway")
	}

	datasets := make(map[string]string, len(targets))
	for _, p := range targets {
		path := trainCSV
		if path == "" {
			path = fmt.Sprintf("%s/%s_dataset.csv", strings.TrimRight(trainDataDir, "/"), p)
		}
		datasets[p.String()] = path
	}

	trainer := &service.Trainer{
		Datasets: datasets,
		Specs:    model.DefaultTrainSpecs,
		Store:    store.NewFileBundleStore(trainOut),
		Log:      log,
	}
	for _, p := range targets {
		if _, err := trainer.Retrain(cmd.Context(), p.String()); err != nil {
			return fmt.Errorf("train %s: %w", p, err)
		}
	}
	return nil
}
