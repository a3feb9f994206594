package main

import (
	"encoding/json"
	"fmt"
	gio "io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"chaff/pkg"
	"chaff/pkg/model"
)

func EvaluateCommand() *cobra.Command {

	var opts pkg.Options
	var classifierName string
	var outputFile string

	var cmd = &cobra.Command{
		Use:   "evaluate [flags] datasetFile...",
		Short: "Evaluates classifiers against labeled datasets and reports quality metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DatasetFiles = args

			kinds, err := selectClassifiers(classifierName)
			if err != nil {
				return err
			}
			opts.Classifiers = kinds

			var out gio.Writer = os.Stdout
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("error creating output file %s: %w", outputFile, err)
				}
				defer f.Close()
				out = f
			}

			return pkg.Run(opts, out)
		},
	}

	cmd.Flags().StringVarP(&classifierName, "classifier", "c", "all", "classifier to evaluate: linear naive_bayes randomforest mlp or all (all excludes mlp)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of output file (optional, uses stdout if not present)")
	cmd.Flags().StringVarP(&opts.LabelColumn, "label-column", "t", "Tag", "name of the column holding the class labels")
	cmd.Flags().IntVarP(&opts.LearningCurveSteps, "learning-curve-steps", "l", 1, "number of learning curve steps. If -1, the learning curve is not calculated")
	cmd.Flags().IntVarP(&opts.Folds, "folds", "k", 5, "number of cross-validation folds")
	cmd.Flags().IntVarP(&opts.Parallelism, "jobs", "j", 2, "number of concurrent fold workers used when cross validating")
	cmd.Flags().BoolVarP(&opts.KeepGoing, "keep-going", "", false, "log and skip a failing dataset or classifier instead of aborting the run")
	cmd.Flags().Int64VarP(&opts.Seed, "random-seed", "x", 0, "random seed for the dataset shuffle (0 seeds from the clock)")

	return cmd
}

func selectClassifiers(name string) ([]model.Kind, error) {
	if name == "all" || name == "" {
		return model.AllKinds(), nil
	}
	kind, err := model.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return []model.Kind{kind}, nil
}

var logLevel string
var logFormat string

func main() {

	Main := &cobra.Command{Use: "chaff", PersistentPreRun: setupLogging}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	Main.AddCommand(EvaluateCommand())

	if err := Main.Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		panic("Invalid logging level specified")
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		panic("Invalid log format specified")

	}

}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
