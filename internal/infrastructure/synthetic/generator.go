// Package synthetic produces reproducible transaction and loan tables for
// demos and tests when no real data is supplied.
package synthetic

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
)

const (
	// DefaultRows is the table size used when the caller passes none.
	DefaultRows = 2000
	// DefaultTransactionSeed seeds transaction generation.
	DefaultTransactionSeed uint64 = 42
	// DefaultLoanSeed seeds loan generation.
	DefaultLoanSeed uint64 = 7
	// DefaultAnomalyRate is the share of transactions turned into planted anomalies.
	DefaultAnomalyRate = 0.02
)

// LoanProfile sets the default-label intercept. The remaining coefficients
// of the label logit are fixed.
type LoanProfile struct {
	Intercept float64
}

// DefaultLoanProfile returns the -8.0 intercept, which yields a very low
// default rate. Raise it to generate books with more defaults.
func DefaultLoanProfile() LoanProfile {
	return LoanProfile{Intercept: -8.0}
}

// Logit returns the log-odds of default for an applicant.
func (p LoanProfile) Logit(a model.LoanApplicant) float64 {
	return p.Intercept +
		0.00002*a.LoanAmount +
		2.8*a.DebtToIncome +
		1.8*a.Utilization +
		0.6*float64(a.Delinquencies) -
		0.004*a.CreditScore
}

// Option configures a Generator.
type Option func(*Generator)

// WithLoanProfile overrides the default-label intercept.
func WithLoanProfile(p LoanProfile) Option {
	return func(g *Generator) { g.profile = p }
}

// WithAnomalyRate overrides the share of planted anomalies.
func WithAnomalyRate(rate float64) Option {
	return func(g *Generator) { g.anomalyRate = rate }
}

// Generator builds synthetic tables. It holds no random state: every call
// draws from its own source seeded by the caller, so calls never interfere.
type Generator struct {
	profile     LoanProfile
	anomalyRate float64
}

// NewGenerator creates a Generator with the given options applied over the defaults.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{profile: DefaultLoanProfile(), anomalyRate: DefaultAnomalyRate}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Transactions returns n transactions and the sorted row indexes of the
// planted anomalies. Anomalous rows have their amount multiplied by an
// integer in [10, 50) and are forced foreign.
func (g *Generator) Transactions(n int, seed uint64) ([]model.Transaction, []int) {
	if n <= 0 {
		return nil, nil
	}
	rng := newSource(seed)

	txns := make([]model.Transaction, n)
	for i := range txns {
		txns[i].Amount = rng.ExpFloat64() * 60
	}
	for i := range txns {
		txns[i].MerchantID = 1 + rng.IntN(199)
	}
	for i := range txns {
		txns[i].DeviceScore = rng.Float64()
	}
	for i := range txns {
		txns[i].DistanceFromLastKm = math.Abs(5 + 10*rng.NormFloat64())
	}
	for i := range txns {
		txns[i].Foreign = rng.Float64() < 0.05
	}
	for i := range txns {
		txns[i].Hour = rng.IntN(24)
	}

	k := int(g.anomalyRate * float64(n))
	planted := rng.Perm(n)[:k]
	for _, i := range planted {
		txns[i].Amount *= float64(10 + rng.IntN(40))
		txns[i].Foreign = true
	}
	sort.Ints(planted)
	return txns, planted
}

// Loans returns a labeled book of n applicants. Each column is drawn from a
// normal or Poisson distribution clipped to its valid domain, and the default
// label is Bernoulli(sigmoid(profile logit)).
func (g *Generator) Loans(n int, seed uint64) model.LoanBook {
	book := model.LoanBook{Labeled: true}
	if n <= 0 {
		return book
	}
	rng := newSource(seed)

	apps := make([]model.LoanApplicant, n)
	for i := range apps {
		apps[i].Income = math.Max(normal(rng, 80000, 20000), 1000)
	}
	for i := range apps {
		apps[i].DebtToIncome = clip(normal(rng, 0.28, 0.12), 0.01, 0.95)
	}
	for i := range apps {
		apps[i].CreditScore = clip(normal(rng, 690, 60), 300, 850)
	}
	for i := range apps {
		apps[i].Delinquencies = poisson(rng, 0.3)
	}
	for i := range apps {
		apps[i].Utilization = clip(normal(rng, 0.4, 0.25), 0, 1)
	}
	for i := range apps {
		apps[i].LoanAmount = math.Max(normal(rng, 25000, 10000), 500)
	}
	for i := range apps {
		p := 1 / (1 + math.Exp(-g.profile.Logit(apps[i])))
		apps[i].Default = rng.Float64() < p
	}

	book.Applicants = apps
	return book
}

func newSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
}

func normal(rng *rand.Rand, mean, stddev float64) float64 {
	return mean + stddev*rng.NormFloat64()
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// poisson draws by Knuth's multiplication method, adequate for small lambda.
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k, p := 0, rng.Float64()
	for p > limit {
		k++
		p *= rng.Float64()
	}
	return k
}
