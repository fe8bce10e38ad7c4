package scene

import (
	"context"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/df07/go-raycast/pkg/core"
)

// CastParallel splits the primitives across workers for a single ray.
// Each worker accumulates into its own record and the records are merged
// afterwards with the strictly-closer rule, so the result matches Cast.
// workers <= 0 uses one worker per CPU.
func (s *Scene) CastParallel(ctx context.Context, ray core.Ray, workers int) (core.HitRecord, error) {
	if err := ctx.Err(); err != nil {
		return core.HitRecord{}, err
	}
	if len(s.Primitives) == 0 {
		return core.HitRecord{}, nil
	}

	workers = workerCount(workers)
	chunks := split(s.Primitives, workers)

	pool := pond.NewResultPool[core.HitRecord](workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, chunk := range chunks {
		group.SubmitErr(func() (core.HitRecord, error) {
			var private core.HitRecord
			if err := ctx.Err(); err != nil {
				return private, err
			}
			intersectAll(chunk, ray, &private)
			return private, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return core.HitRecord{}, err
	}

	// Results arrive in submission order, so ties resolve to the earliest
	// primitive just like the sequential loop
	var hit core.HitRecord
	for _, r := range results {
		hit.Merge(r)
	}
	return hit, nil
}

// CastBatch casts every ray concurrently, one record per ray. Each worker
// writes only its own range of the result slice.
func (s *Scene) CastBatch(ctx context.Context, rays []core.Ray, workers int) ([]core.HitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]core.HitRecord, len(rays))
	if len(rays) == 0 {
		return results, nil
	}

	workers = workerCount(workers)
	start := time.Now()

	pool := pond.NewPool(workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, r := range spans(len(rays), workers*4) {
		group.SubmitErr(func() error {
			for i := r.start; i < r.end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.CastInto(rays[i], &results[i])
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	hits := 0
	for i := range results {
		if results[i].Valid() {
			hits++
		}
	}
	s.log.Debug("cast batch",
		zap.Int("rays", len(rays)),
		zap.Int("hits", hits),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)))

	return results, nil
}

func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

type span struct{ start, end int }

// spans divides [0, n) into at most parts contiguous non-empty ranges
func spans(n, parts int) []span {
	if n == 0 {
		return nil
	}
	if parts > n {
		parts = n
	}
	out := make([]span, 0, parts)
	size := (n + parts - 1) / parts
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		out = append(out, span{start, end})
	}
	return out
}

// split partitions prims into at most parts contiguous chunks
func split(prims []core.Primitive, parts int) [][]core.Primitive {
	var chunks [][]core.Primitive
	for _, r := range spans(len(prims), parts) {
		chunks = append(chunks, prims[r.start:r.end])
	}
	return chunks
}
