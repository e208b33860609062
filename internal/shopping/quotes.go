package shopping

import (
	"math/rand/v2"
	"strings"
)

// Supermarkets quoted for every list.
var Supermarkets = []string{"Supermarket A", "Supermarket B", "Supermarket C"}

// Quote is a supermarket's price for a whole list.
type Quote struct {
	Name      string  `json:"name"`
	TotalCost float64 `json:"totalCost"`
}

// RandFunc returns a uniform value in [0, 1).
type RandFunc func() float64

// Quoter simulates per supermarket prices by jittering a base cost.
type Quoter struct {
	rand   RandFunc
	seeded func(seed uint64) RandFunc
}

// NewQuoter creates a Quoter. A nil rand uses math/rand/v2, seeded with the
// caller's seed for Rejitter. A custom rand also serves Rejitter.
func NewQuoter(r RandFunc) *Quoter {
	if r == nil {
		return &Quoter{rand: rand.Float64, seeded: pcgFloat}
	}
	return &Quoter{rand: r, seeded: func(uint64) RandFunc { return r }}
}

func pcgFloat(seed uint64) RandFunc {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Float64
}

// Quotes prices base at every supermarket, each within ±5% of it.
func (q *Quoter) Quotes(base float64) []Quote {
	quotes := make([]Quote, len(Supermarkets))
	for i, name := range Supermarkets {
		quotes[i] = Quote{Name: name, TotalCost: jitter(base, q.rand())}
	}
	return quotes
}

// Rejitter applies a ±5% perturbation to each stored quote. The same seed
// gives the same quotes.
func (q *Quoter) Rejitter(quotes []Quote, seed uint64) []Quote {
	r := q.seeded(seed)
	out := make([]Quote, len(quotes))
	for i, qt := range quotes {
		out[i] = Quote{Name: qt.Name, TotalCost: jitter(qt.TotalCost, r())}
	}
	return out
}

func jitter(v, r float64) float64 {
	return v * (1 + (r-0.5)*0.1)
}

// SupermarketName expands "b" or "B" to "Supermarket B". Other input is
// returned trimmed.
func SupermarketName(arg string) string {
	arg = strings.TrimSpace(arg)
	for _, name := range Supermarkets {
		if strings.EqualFold(arg, name) || strings.EqualFold("Supermarket "+arg, name) {
			return name
		}
	}
	return arg
}

// FindQuote returns the quote named name.
func FindQuote(quotes []Quote, name string) (Quote, bool) {
	for _, q := range quotes {
		if q.Name == name {
			return q, true
		}
	}
	return Quote{}, false
}
