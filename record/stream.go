package record

import (
	"context"

	"github.com/Baaaaam/optim/abc"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Stream appends one entry per iteration to a redis stream so that a live
// dashboard can follow a run's convergence.
type Stream struct {
	client redis.UniversalClient
	Key    string
	// MaxLen approximately caps the stream length when positive.
	MaxLen int64
	RunID  string
	run    int
}

func NewStream(client redis.UniversalClient, key string) *Stream {
	return &Stream{client: client, Key: key}
}

func (s *Stream) Observe(ctx context.Context, it abc.Iteration) error {
	if it.Run != s.run {
		s.run = it.Run
		s.RunID = uuid.NewString()
	}

	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.Key,
		MaxLen: s.MaxLen,
		Approx: s.MaxLen > 0,
		Values: map[string]interface{}{
			"run":   s.RunID,
			"iter":  it.Iter,
			"evals": it.Evals,
			"val":   it.Best.Val,
			"pos":   joinPos(it.Best.Pos(), ","),
			"scout": it.Scout,
		},
	}).Err()
}
