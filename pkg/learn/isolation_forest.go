package learn

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// eulerGamma is used in the harmonic-number approximation of c(n).
const eulerGamma = 0.5772156649015329

// IsolationForestConfig holds the hyperparameters of an isolation forest.
type IsolationForestConfig struct {
	Trees         int     `json:"trees"`
	MaxSamples    int     `json:"max_samples"`
	Contamination float64 `json:"contamination"`
	Seed          uint64  `json:"seed"`
}

// DefaultIsolationForestConfig returns 100 trees over sub-samples of at most
// 256 rows with 2% expected contamination.
func DefaultIsolationForestConfig() IsolationForestConfig {
	return IsolationForestConfig{
		Trees:         100,
		MaxSamples:    256,
		Contamination: 0.02,
		Seed:          123,
	}
}

// IsolationNode is a single node of an isolation tree. Leaves carry the
// number of training samples that reached them.
type IsolationNode struct {
	Feature int     `json:"f"`
	Split   float64 `json:"s"`
	Left    int     `json:"l"`
	Right   int     `json:"r"`
	Size    int     `json:"n"`
	Leaf    bool    `json:"leaf"`
}

// IsolationTree is a flattened isolation tree; node 0 is the root.
type IsolationTree struct {
	Nodes []IsolationNode `json:"nodes"`
}

// IsolationForest is an unsupervised outlier detector. Scores are in (0, 1];
// higher means easier to isolate, i.e. more anomalous.
type IsolationForest struct {
	Config     IsolationForestConfig `json:"config"`
	Features   int                   `json:"features"`
	SampleSize int                   `json:"sample_size"`
	Threshold  float64               `json:"threshold"`
	Trees      []IsolationTree       `json:"trees"`
}

// NewIsolationForest returns an unfitted forest.
func NewIsolationForest(cfg IsolationForestConfig) *IsolationForest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = 256
	}
	return &IsolationForest{Config: cfg}
}

// Fit grows the forest on X and sets the outlier threshold so that the
// configured contamination fraction of X scores above it.
func (f *IsolationForest) Fit(X [][]float64) error {
	w, err := width(X)
	if err != nil {
		return fmt.Errorf("isolation forest fit: %w", err)
	}
	if f.Config.Contamination < 0 || f.Config.Contamination >= 0.5 {
		return fmt.Errorf("isolation forest fit: contamination %.3f out of range [0, 0.5)", f.Config.Contamination)
	}

	rng := newSource(f.Config.Seed)
	psi := min(f.Config.MaxSamples, len(X))
	heightLimit := int(math.Ceil(math.Log2(math.Max(float64(psi), 2))))

	f.Features = w
	f.SampleSize = psi
	f.Trees = make([]IsolationTree, 0, f.Config.Trees)

	for t := 0; t < f.Config.Trees; t++ {
		sample := rng.Perm(len(X))[:psi]
		b := treeBuilder{X: X, rng: rng, limit: heightLimit, width: w}
		b.grow(sample, 0)
		f.Trees = append(f.Trees, IsolationTree{Nodes: b.nodes})
	}

	scores, err := f.Score(X)
	if err != nil {
		return err
	}
	f.Threshold = percentile(scores, 100*(1-f.Config.Contamination))
	return nil
}

// Score returns the anomaly score of every row of X.
func (f *IsolationForest) Score(X [][]float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}
	w, err := width(X)
	if err != nil {
		return nil, fmt.Errorf("isolation forest score: %w", err)
	}
	if w != f.Features {
		return nil, fmt.Errorf("isolation forest score: %w: fitted on %d features, got %d", ErrDimensionMismatch, f.Features, w)
	}

	norm := averagePathLength(f.SampleSize)
	if norm == 0 {
		norm = 1
	}

	scores := make([]float64, len(X))
	for i, row := range X {
		var depth float64
		for _, tree := range f.Trees {
			depth += tree.pathLength(row)
		}
		mean := depth / float64(len(f.Trees))
		scores[i] = math.Pow(2, -mean/norm)
	}
	return scores, nil
}

// Predict labels every row of X as an outlier when its score exceeds the
// contamination threshold learned at fit time.
func (f *IsolationForest) Predict(X [][]float64) ([]bool, error) {
	scores, err := f.Score(X)
	if err != nil {
		return nil, err
	}
	labels := make([]bool, len(scores))
	for i, s := range scores {
		labels[i] = s > f.Threshold
	}
	return labels, nil
}

// Validate checks the structure of a forest decoded from storage. Every tree
// must be non-empty, split features must be in range and child indexes must
// point forward inside the tree, which rules out self-references and cycles.
func (f *IsolationForest) Validate() error {
	if len(f.Trees) == 0 {
		return ErrNotFitted
	}
	if f.Features <= 0 {
		return fmt.Errorf("%w: forest has %d features", ErrMalformedModel, f.Features)
	}
	for i, tree := range f.Trees {
		if err := tree.validate(f.Features); err != nil {
			return fmt.Errorf("%w: tree %d: %v", ErrMalformedModel, i, err)
		}
	}
	return nil
}

func (t IsolationTree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			if n.Size < 0 {
				return fmt.Errorf("node %d: negative size %d", i, n.Size)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: feature %d out of range [0, %d)", i, n.Feature, features)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: child %d out of range (%d, %d)", i, child, i, len(t.Nodes))
			}
		}
	}
	return nil
}

func (t IsolationTree) pathLength(row []float64) float64 {
	idx, depth := 0, 0.0
	for {
		n := t.Nodes[idx]
		if n.Leaf {
			return depth + averagePathLength(n.Size)
		}
		if row[n.Feature] < n.Split {
			idx = n.Left
		} else {
			idx = n.Right
		}
		depth++
	}
}

type treeBuilder struct {
	X     [][]float64
	rng   *rand.Rand
	nodes []IsolationNode
	limit int
	width int
}

// grow appends the subtree for the given sample and returns its node index.
func (b *treeBuilder) grow(sample []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, IsolationNode{})

	if depth >= b.limit || len(sample) <= 1 {
		b.nodes[idx] = IsolationNode{Leaf: true, Size: len(sample)}
		return idx
	}

	// Candidate features are those that still vary inside this sample.
	candidates := make([]int, 0, b.width)
	lo := make([]float64, b.width)
	hi := make([]float64, b.width)
	for q := 0; q < b.width; q++ {
		lo[q], hi[q] = math.Inf(1), math.Inf(-1)
		for _, i := range sample {
			v := b.X[i][q]
			lo[q] = math.Min(lo[q], v)
			hi[q] = math.Max(hi[q], v)
		}
		if hi[q] > lo[q] {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		b.nodes[idx] = IsolationNode{Leaf: true, Size: len(sample)}
		return idx
	}

	q := candidates[b.rng.IntN(len(candidates))]
	split := lo[q] + b.rng.Float64()*(hi[q]-lo[q])

	var left, right []int
	for _, i := range sample {
		if b.X[i][q] < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx] = IsolationNode{Feature: q, Split: split, Left: l, Right: r}
	return idx
}

// averagePathLength is c(n), the mean path length of an unsuccessful search
// in a binary search tree of n nodes.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	}
}

// percentile computes the p-th percentile with linear interpolation between
// closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
