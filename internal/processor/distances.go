// Package processor runs line distance measurements over many line pairs
// with a bounded pool of workers.
package processor

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// DistanceFunc measures the distance between two lines.
type DistanceFunc func(l1, l2 orb.LineString) (float64, error)

// Pair is a single measurement: Line is measured against Reference.
type Pair struct {
	Properties map[string]any
	Name       string
	Reference  orb.LineString
	Line       orb.LineString
}

// Result of measuring one pair. Index is the position of the pair in the input.
type Result struct {
	Err      error
	Name     string
	Index    int
	Distance float64
}

type job struct {
	pair  Pair
	index int
}

// LineDistances measures every pair with fn on up to concurrency workers.
// Results are returned in input order. A failed pair carries its error in
// Result.Err and does not stop the others. Pairs not started before ctx is
// done get ctx.Err().
func LineDistances(ctx context.Context, pairs []Pair, concurrency int, fn DistanceFunc) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > len(pairs) {
		concurrency = len(pairs)
	}

	out := make([]Result, len(pairs))
	jobs := make(chan job, len(pairs))
	results := make(chan Result, len(pairs))

	go func() {
		for i, p := range pairs {
			jobs <- job{pair: p, index: i}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := Result{Index: j.index, Name: j.pair.Name}
				if err := ctx.Err(); err != nil {
					res.Err = err
					results <- res
					continue
				}

				d, err := fn(j.pair.Reference, j.pair.Line)
				if err != nil {
					log.Trace().
						Err(err).
						Str("name", j.pair.Name).
						Int("index", j.index).
						Msg("Line distance failed")
				}
				res.Distance, res.Err = d, err
				results <- res
			}
		}()
	}
	wg.Wait()
	close(results)

	for res := range results {
		out[res.Index] = res
	}

	log.Debug().
		Int("pairs", len(pairs)).
		Int("workers", concurrency).
		Msg("Line distances computed")

	return out
}
