package pkg

import (
	"fmt"
	gio "io"
	"math/rand"

	"github.com/rs/zerolog/log"

	"chaff/pkg/io"
	"chaff/pkg/model"
)

// Options is the configuration surface of one evaluation run.
type Options struct {
	DatasetFiles       []string
	LabelColumn        string
	Classifiers        []model.Kind
	LearningCurveSteps int
	Folds              int
	Parallelism        int

	// KeepGoing skips a failing dataset or classifier after logging it
	// instead of aborting the whole run.
	KeepGoing bool

	// Seed fixes the shuffle permutation; zero means time-seeded.
	Seed int64
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.LabelColumn == "" {
		opts.LabelColumn = "Tag"
	}
	if len(opts.Classifiers) == 0 {
		opts.Classifiers = model.AllKinds()
	}
	if opts.LearningCurveSteps == 0 {
		opts.LearningCurveSteps = 1
	}
	if opts.Folds == 0 {
		opts.Folds = 5
	}
	if opts.Parallelism == 0 {
		opts.Parallelism = 2
	}
	return opts
}

type missedList struct {
	classifier model.Kind
	lines      []string
}

// Run evaluates every requested classifier against every dataset file,
// dataset-major, and streams the reports to out. The dataset is shuffled and
// partitioned once per file so all classifiers see the identical order. Each
// classifier's misclassified records, taken from its full-data prediction
// sequence, are listed after the per-dataset separator.
func Run(options Options, out gio.Writer) error {
	opts := options.withDefaults()

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	for _, fileName := range opts.DatasetFiles {
		if _, err := fmt.Fprintf(out, "Dataset: %s\n", fileName); err != nil {
			return fmt.Errorf("error writing to output: %w", err)
		}

		log.Info().Msgf("Loading dataset %s", fileName)
		table, dataErrors, err := io.LoadTable(fileName)
		if err != nil {
			if opts.KeepGoing {
				log.Error().Err(err).Msgf("skipping dataset %s", fileName)
				continue
			}
			return fmt.Errorf("error loading dataset %s: %w", fileName, err)
		}
		printDataErrors(dataErrors)

		log.Info().Msg("Splitting labels and data")
		dataset, err := Prepare(table, opts.LabelColumn, rng)
		if err != nil {
			if opts.KeepGoing {
				log.Error().Err(err).Msgf("skipping dataset %s", fileName)
				continue
			}
			return fmt.Errorf("error preparing dataset %s: %w", fileName, err)
		}

		var missed []missedList
		for _, kind := range opts.Classifiers {
			kind := kind
			log.Info().Msgf("Evaluating %s", kind)

			factory := func() model.Classifier { return model.New(kind) }
			predictions, err := EvaluateLearningCurve(factory, dataset.Features, dataset.Labels,
				opts.LearningCurveSteps, opts.Folds, opts.Parallelism)
			if err != nil {
				if opts.KeepGoing {
					log.Error().Err(err).Msgf("skipping classifier %s on %s", kind, fileName)
					continue
				}
				return fmt.Errorf("error evaluating %s on %s: %w", kind, fileName, err)
			}

			text, err := Report(kind.String(), dataset.Labels, predictions)
			if err != nil {
				return fmt.Errorf("error reporting %s on %s: %w", kind, fileName, err)
			}
			if _, err := gio.WriteString(out, text); err != nil {
				return fmt.Errorf("error writing to output: %w", err)
			}

			missed = append(missed, missedList{
				classifier: kind,
				lines:      missedRecords(dataset, predictions[len(predictions)-1]),
			})
		}

		if _, err := fmt.Fprintln(out, "=============="); err != nil {
			return fmt.Errorf("error writing to output: %w", err)
		}
		for _, m := range missed {
			if _, err := fmt.Fprintf(out, "Missed by %s:\n", m.classifier); err != nil {
				return fmt.Errorf("error writing to output: %w", err)
			}
			for _, line := range m.lines {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return fmt.Errorf("error writing to output: %w", err)
				}
			}
		}
	}

	log.Info().Msg("Done")
	return nil
}

// missedRecords lists every record whose final prediction disagrees with its
// true label, formatted as "<id> Classified as <predicted-label>".
func missedRecords(dataset *Dataset, predicted []string) []string {
	var missed []string
	for i := range dataset.Labels {
		if predicted[i] != dataset.Labels[i] {
			missed = append(missed, fmt.Sprintf("%s Classified as %s", dataset.IDs[i], predicted[i]))
		}
	}
	return missed
}

func printDataErrors(errors []io.DataError) {
	for _, err := range errors {
		log.Error().Msgf("Error parsing data at line %d: %s", err.Line, err.Error)
	}
}
