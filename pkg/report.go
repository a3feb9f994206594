package pkg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nlpodyssey/spago/pkg/ml/stats"
)

// Report renders the evaluation of one classifier as text: a per-class
// classification report and 2x2 confusion matrix computed from the last
// (full-data) prediction sequence, and, when more than one sequence was
// evaluated, a learning curve of accuracy scores. The output depends only on
// the inputs, so repeated calls yield identical text.
func Report(classifierName string, trueLabels []string, predictions [][]string) (string, error) {
	if len(predictions) == 0 {
		return "", fmt.Errorf("no prediction sequences for %s", classifierName)
	}
	final := predictions[len(predictions)-1]
	if len(final) != len(trueLabels) {
		return "", fmt.Errorf("%w: %d predictions for %d labels", ErrShapeMismatch, len(final), len(trueLabels))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Classifier: %s\n", classifierName)
	writeClassificationReport(&b, trueLabels, final)
	writeConfusionMatrix(&b, trueLabels, final)

	if len(predictions) > 1 {
		scores := make([]float64, len(predictions))
		for i, predicted := range predictions {
			scores[i] = accuracyScore(trueLabels[:len(predicted)], predicted)
		}
		fmt.Fprintf(&b, "Learning curve:\n%s\n", formatScores(scores))
	}

	return b.String(), nil
}

func writeClassificationReport(b *strings.Builder, trueLabels, predicted []string) {
	metrics := map[string]*stats.ClassMetrics{}
	support := map[string]int{}
	for _, class := range classNames(trueLabels, predicted) {
		metrics[class] = stats.NewMetricCounter()
	}

	for i, label := range trueLabels {
		support[label]++
		if label == predicted[i] {
			metrics[label].IncTruePos()
		} else {
			metrics[label].IncFalseNeg()
			metrics[predicted[i]].IncFalsePos()
		}
	}

	fmt.Fprintf(b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, class := range classNames(trueLabels, predicted) {
		m := metrics[class]
		fmt.Fprintf(b, "%12s %10.2f %10.2f %10.2f %10d\n", class, m.Precision(), m.Recall(), m.F1Score(), support[class])
	}
	fmt.Fprintln(b)
}

// writeConfusionMatrix prints the fixed 2x2 layout with the later-sorting
// class as the positive class `a` (REAL for REAL/FAKE data).
func writeConfusionMatrix(b *strings.Builder, trueLabels, predicted []string) {
	classes := classNames(trueLabels, predicted)
	pos := classes[len(classes)-1]
	neg := classes[0]

	var tp, fp, fn, tn int
	for i, label := range trueLabels {
		switch {
		case label == pos && predicted[i] == pos:
			tp++
		case label != pos && predicted[i] == pos:
			fp++
		case label == pos && predicted[i] != pos:
			fn++
		default:
			tn++
		}
	}

	fmt.Fprintln(b, "Confusion Matrix:")
	fmt.Fprintln(b, " a      b     <--- Classified as")
	fmt.Fprintf(b, "%5d  %5d   a = %s\n", tp, fp, pos)
	fmt.Fprintf(b, "%5d  %5d   b = %s\n\n", fn, tn, neg)
}

func classNames(trueLabels, predicted []string) []string {
	seen := map[string]bool{}
	var names []string
	for _, label := range trueLabels {
		if !seen[label] {
			seen[label] = true
			names = append(names, label)
		}
	}
	for _, label := range predicted {
		if !seen[label] {
			seen[label] = true
			names = append(names, label)
		}
	}
	sort.Strings(names)
	return names
}

// accuracyScore compares a prediction sequence against the true labels
// restricted to the same prefix length.
func accuracyScore(trueLabels, predicted []string) float64 {
	if len(trueLabels) == 0 {
		return 0
	}
	correct := 0
	for i := range trueLabels {
		if trueLabels[i] == predicted[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(trueLabels))
}

func formatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, score := range scores {
		parts[i] = fmt.Sprintf("%g", score)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
