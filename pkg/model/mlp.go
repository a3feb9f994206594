package model

import (
	"fmt"

	"github.com/nlpodyssey/spago/pkg/mat"
	"github.com/nlpodyssey/spago/pkg/mat/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/initializers"
	"github.com/nlpodyssey/spago/pkg/ml/losses"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/nn/linear"
	"github.com/nlpodyssey/spago/pkg/ml/optimizers/gd"
	"github.com/nlpodyssey/spago/pkg/ml/optimizers/gd/adam"
)

var (
	_ nn.Model     = &mlpNet{}
	_ nn.Processor = &mlpProcessor{}
)

// mlpNet is a two-layer feed-forward network: linear, tanh, linear.
type mlpNet struct {
	HiddenLayer *linear.Model
	OutputLayer *linear.Model
}

func newMLPNet(inputSize, hiddenSize, outputSize int) *mlpNet {
	return &mlpNet{
		HiddenLayer: linear.New(inputSize, hiddenSize),
		OutputLayer: linear.New(hiddenSize, outputSize),
	}
}

func (m *mlpNet) Init(generator *rand.LockedRand) {
	initializers.XavierUniform(m.HiddenLayer.W.Value(), initializers.Gain(ag.OpTanh), generator)
	initializers.XavierUniform(m.OutputLayer.W.Value(), initializers.Gain(ag.OpIdentity), generator)
}

type mlpProcessor struct {
	nn.BaseProcessor
	hiddenProcessor nn.Processor
	outputProcessor nn.Processor
}

func (m *mlpNet) NewProc(ctx nn.Context) nn.Processor {
	return &mlpProcessor{
		BaseProcessor: nn.BaseProcessor{
			Model:             m,
			Mode:              ctx.Mode,
			Graph:             ctx.Graph,
			FullSeqProcessing: true,
		},
		hiddenProcessor: m.HiddenLayer.NewProc(ctx),
		outputProcessor: m.OutputLayer.NewProc(ctx),
	}
}

func (p *mlpProcessor) Forward(xs ...ag.Node) []ag.Node {
	hidden := p.hiddenProcessor.Forward(xs...)
	for i := range hidden {
		hidden[i] = p.Graph.Tanh(hidden[i])
	}
	return p.outputProcessor.Forward(hidden...)
}

// MLPClassifier is a feed-forward neural classifier trained with Adam on the
// cross-entropy loss. It is the only kind excluded from the default
// classifier selection.
type MLPClassifier struct {
	HiddenSize   int
	NumEpochs    int
	BatchSize    int
	LearningRate float64
	RndSeed      uint64

	net     *mlpNet
	columns int
	classes NameMap
}

func NewMLPClassifier() *MLPClassifier {
	return &MLPClassifier{
		HiddenSize:   16,
		NumEpochs:    50,
		BatchSize:    16,
		LearningRate: 0.01,
		RndSeed:      42,
	}
}

func (c *MLPClassifier) Fit(features [][]float64, labels []string) error {
	columns, err := checkTrainingData(features, labels)
	if err != nil {
		return fmt.Errorf("mlp: %w", err)
	}
	c.classes = classesOf(labels)
	targets, err := classIndexes(c.classes, labels)
	if err != nil {
		return fmt.Errorf("mlp: %w", err)
	}

	c.columns = columns
	c.net = newMLPNet(columns, c.HiddenSize, c.classes.Size())
	c.net.Init(rand.NewLockedRand(c.RndSeed))

	updaterConfig := adam.NewDefaultConfig()
	updaterConfig.StepSize = c.LearningRate
	optimizer := gd.NewOptimizer(adam.New(updaterConfig), nn.NewDefaultParamsIterator(c.net))

	for epoch := 0; epoch < c.NumEpochs; epoch++ {
		optimizer.IncEpoch()
		for start := 0; start < len(features); start += c.BatchSize {
			end := start + c.BatchSize
			if end > len(features) {
				end = len(features)
			}
			c.trainBatch(optimizer, features[start:end], targets[start:end])
			optimizer.Optimize()
		}
	}
	return nil
}

func (c *MLPClassifier) trainBatch(optimizer *gd.GradientDescent, features [][]float64, targets []int) {
	optimizer.IncBatch()

	g := ag.NewGraph(ag.Rand(rand.NewLockedRand(c.RndSeed)))
	defer g.Clear()
	proc := c.net.NewProc(nn.Context{Graph: g, Mode: nn.Training})
	logits := proc.Forward(inputNodes(g, features)...)

	var loss ag.Node
	for i := range targets {
		loss = g.Add(loss, losses.CrossEntropy(g, logits[i], targets[i]))
	}
	loss = g.Div(loss, g.NewScalar(float64(len(targets))))
	g.Backward(loss)
}

func (c *MLPClassifier) Predict(features [][]float64) ([]string, error) {
	if c.net == nil {
		return nil, fmt.Errorf("mlp: predict called before fit")
	}
	for i, row := range features {
		if len(row) != c.columns {
			return nil, fmt.Errorf("mlp: feature row %d has %d columns, expected %d", i, len(row), c.columns)
		}
	}
	g := ag.NewGraph(ag.Rand(rand.NewLockedRand(c.RndSeed)))
	defer g.Clear()
	proc := c.net.NewProc(nn.Context{Graph: g, Mode: nn.Inference})
	logits := proc.Forward(inputNodes(g, features)...)

	result := make([]string, len(features))
	for i := range logits {
		class, _ := argmax(logits[i].Value().Data())
		result[i] = c.classes.IndexToName[class]
	}
	return result, nil
}

func inputNodes(g *ag.Graph, features [][]float64) []ag.Node {
	input := make([]ag.Node, len(features))
	for i := range input {
		input[i] = g.NewVariable(mat.NewVecDense(features[i]), false)
	}
	return input
}

func argmax(data []float64) (int, float64) {
	maxInd := 0
	for i := range data {
		if data[i] > data[maxInd] {
			maxInd = i
		}
	}
	return maxInd, data[maxInd]
}
