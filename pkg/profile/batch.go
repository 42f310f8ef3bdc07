package profile

import (
	"fmt"
	"runtime"
	"sync"
)

// Segment is one line segment of a batch, endpoints in cm.
type Segment struct {
	P0, P1 [3]float64
}

// SampleBatch extracts one profile per segment, sharing the options in
// opts (whose P0/P1 are ignored). Segments are independent queries
// against the same immutable grid, so they are processed in parallel
// across up to workers goroutines; workers <= 0 uses all CPUs. Results
// preserve segment order. Any failed segment aborts the batch: no
// partial result is returned.
func (s *Sampler) SampleBatch(segments []Segment, opts Request, workers int) ([]*Profile, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// The interpolator cache rebuilds lazily on first use; touch it once
	// up front so the workers only ever read stable state.
	if len(segments) > 0 {
		s.Grid.EvaluatePatientPoints(nil)
	}

	profiles := make([]*Profile, len(segments))
	errs := make([]error, len(segments))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, seg := range segments {
		wg.Add(1)
		go func(i int, seg Segment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			req := opts
			req.P0 = seg.P0[:]
			req.P1 = seg.P1[:]
			profiles[i], errs[i] = s.Sample(req)
		}(i, seg)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
	}
	return profiles, nil
}
