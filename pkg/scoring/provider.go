package scoring

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roadpulse/roadpulse/pkg/road"
)

// DefaultConcurrency bounds in-flight remote scoring requests during a
// bulk pass.
const DefaultConcurrency = 10

// Provider obtains health scores for segments, preferring the remote
// scoring service and degrading to the local deterministic formula on any
// failure. Scoring a segment never fails.
type Provider struct {
	// Remote is the scoring service client. Nil means formula-only.
	Remote *RemoteClient
	// Concurrency caps in-flight remote requests in BulkScore.
	// Zero or negative means DefaultConcurrency.
	Concurrency int
}

// NewProvider creates a Provider backed by the given remote client.
// A nil client yields a formula-only provider, useful in tests and
// air-gapped deployments.
func NewProvider(remote *RemoteClient, concurrency int) *Provider {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Provider{Remote: remote, Concurrency: concurrency}
}

// Score returns a HealthScore for one segment as of the given date.
// Remote failures are logged and absorbed: the local formula is the
// correctness backstop.
func (p *Provider) Score(ctx context.Context, seg *road.Segment, asOf time.Time) HealthScore {
	if p.Remote == nil {
		return Fallback(seg, asOf)
	}

	rs, err := p.Remote.Score(ctx, seg)
	if err != nil {
		log.Printf("scoring %s: remote failed (%v), using local formula", seg.ID, err)
		return Fallback(seg, asOf)
	}

	return Compose(rs.PseudoCibil, rs.MLPredictedCibil, rs.ModelVersion)
}

// BulkScore scores a segment collection with bounded concurrency. Results
// are written back by index, so output ordering always matches input
// ordering. A failed remote call degrades that one segment to the formula
// without aborting the batch.
func (p *Provider) BulkScore(ctx context.Context, segs []road.Segment, asOf time.Time) []HealthScore {
	scores := make([]HealthScore, len(segs))

	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range segs {
		g.Go(func() error {
			scores[i] = p.Score(gctx, &segs[i], asOf)
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
	return scores
}
