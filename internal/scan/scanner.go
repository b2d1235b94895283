package scan

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joshuamkite/freecell-engine/internal/game"
	"github.com/joshuamkite/freecell-engine/internal/metrics"
)

// TargetOp represents comparison operations for scanning.
type TargetOp string

const (
	OpEqual        TargetOp = "eq"
	OpGreater      TargetOp = "gt"
	OpGreaterEqual TargetOp = "ge"
	OpLess         TargetOp = "lt"
	OpLessEqual    TargetOp = "le"
	OpBetween      TargetOp = "between"
	OpOutside      TargetOp = "outside"
)

// ScanRequest describes a sweep over a contiguous range of deal numbers,
// evaluating one metric per opening layout and collecting the deals whose
// value matches the target condition.
type ScanRequest struct {
	Metric      string         `json:"metric"`
	NumberStart uint32         `json:"number_start"`
	NumberEnd   uint32         `json:"number_end"`
	Params      map[string]any `json:"params,omitempty"`
	TargetOp    TargetOp       `json:"target_op"`
	TargetVal   float64        `json:"target_val"`
	TargetVal2  float64        `json:"target_val2,omitempty"` // for "between" and "outside"
	Tolerance   float64        `json:"tolerance"`
	Limit       int            `json:"limit,omitempty"`
	TimeoutMs   int            `json:"timeout_ms,omitempty"`
}

// Hit is a single matching deal.
type Hit struct {
	GameNumber uint32  `json:"game_number"`
	Value      float64 `json:"value"`
}

// Summary contains aggregate statistics over every evaluated deal.
type Summary struct {
	TotalEvaluated uint64  `json:"total_evaluated"`
	HitsFound      int     `json:"hits_found"`
	MinValue       float64 `json:"min_value"`
	MaxValue       float64 `json:"max_value"`
	MeanValue      float64 `json:"mean_value"`
	TimedOut       bool    `json:"timed_out,omitempty"`
}

// ScanResult contains the complete scan results.
type ScanResult struct {
	Hits    []Hit       `json:"hits"`
	Summary Summary     `json:"summary"`
	Echo    ScanRequest `json:"echo"`
}

// scanJob is a batch of deal numbers for one worker.
type scanJob struct {
	start uint32
	end   uint32
}

// TargetEvaluator handles target condition evaluation with tolerance.
type TargetEvaluator struct {
	op        TargetOp
	val1      float64
	val2      float64
	tolerance float64
}

// NewTargetEvaluator creates a new target evaluator.
func NewTargetEvaluator(op TargetOp, val1, val2, tolerance float64) *TargetEvaluator {
	return &TargetEvaluator{op: op, val1: val1, val2: val2, tolerance: tolerance}
}

// Matches checks if a value matches the target criteria.
func (te *TargetEvaluator) Matches(value float64) bool {
	switch te.op {
	case OpEqual:
		return math.Abs(value-te.val1) <= te.tolerance
	case OpGreater:
		return value > te.val1+te.tolerance
	case OpGreaterEqual:
		return value >= te.val1-te.tolerance
	case OpLess:
		return value < te.val1-te.tolerance
	case OpLessEqual:
		return value <= te.val1+te.tolerance
	case OpBetween:
		return value >= te.val1-te.tolerance && value <= te.val2+te.tolerance
	case OpOutside:
		return value < te.val1-te.tolerance || value > te.val2+te.tolerance
	default:
		return false
	}
}

// Scanner sweeps deal-number ranges in parallel.
type Scanner struct {
	workerCount int
}

// NewScanner creates a scanner sized to the available CPUs.
func NewScanner() *Scanner {
	return &Scanner{workerCount: runtime.GOMAXPROCS(0)}
}

// Scan evaluates the requested metric across [NumberStart, NumberEnd] and
// returns hits sorted by deal number. Deal metrics are pure, so results
// are deterministic for a given request regardless of worker scheduling
// (absent a timeout cutting the sweep short).
func (s *Scanner) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	metric, exists := metrics.Get(req.Metric)
	if !exists {
		return nil, ErrMetricNotFound
	}
	if req.NumberStart < game.MinGameNumber || req.NumberEnd > game.MaxGameNumber || req.NumberEnd < req.NumberStart {
		return nil, ErrInvalidRange
	}

	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	evaluator := NewTargetEvaluator(req.TargetOp, req.TargetVal, req.TargetVal2, req.Tolerance)

	jobs := make(chan scanJob, s.workerCount*2)
	hits := make(chan Hit, 1000)

	var totalEvaluated uint64
	var sum, minVal, maxVal = 0.0, math.Inf(1), math.Inf(-1)
	var statsMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job, ok := <-jobs:
					if !ok {
						return
					}
					localSum, localMin, localMax := 0.0, math.Inf(1), math.Inf(-1)
					for n := job.start; n <= job.end; n++ {
						select {
						case <-ctx.Done():
							return
						default:
						}

						result, err := metric.Evaluate(game.Deal(n), req.Params)
						if err != nil {
							continue
						}
						atomic.AddUint64(&totalEvaluated, 1)
						localSum += result.Value
						if result.Value < localMin {
							localMin = result.Value
						}
						if result.Value > localMax {
							localMax = result.Value
						}

						if evaluator.Matches(result.Value) {
							select {
							case hits <- Hit{GameNumber: n, Value: result.Value}:
							case <-ctx.Done():
								return
							}
						}
					}
					statsMu.Lock()
					sum += localSum
					if localMin < minVal {
						minVal = localMin
					}
					if localMax > maxVal {
						maxVal = localMax
					}
					statsMu.Unlock()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go s.generateJobs(ctx, jobs, req.NumberStart, req.NumberEnd)

	go func() {
		wg.Wait()
		close(hits)
	}()

	collected := make([]Hit, 0, 256)
	for hit := range hits {
		collected = append(collected, hit)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].GameNumber < collected[j].GameNumber })
	if req.Limit > 0 && len(collected) > req.Limit {
		collected = collected[:req.Limit]
	}

	evaluated := atomic.LoadUint64(&totalEvaluated)
	summary := Summary{
		TotalEvaluated: evaluated,
		HitsFound:      len(collected),
		TimedOut:       ctx.Err() == context.DeadlineExceeded,
	}
	if evaluated > 0 {
		summary.MinValue = minVal
		summary.MaxValue = maxVal
		summary.MeanValue = sum / float64(evaluated)
	}

	return &ScanResult{Hits: collected, Summary: summary, Echo: req}, nil
}

// generateJobs slices the range into batches for smooth distribution.
func (s *Scanner) generateJobs(ctx context.Context, jobs chan<- scanJob, start, end uint32) {
	defer close(jobs)

	// Deal evaluation is much heavier than a raw RNG draw, so batches are
	// small to keep workers balanced.
	const batchSize = 512

	for current := start; current <= end; {
		batchEnd := current + batchSize - 1
		if batchEnd > end || batchEnd < current {
			batchEnd = end
		}

		select {
		case jobs <- scanJob{start: current, end: batchEnd}:
			if batchEnd == end {
				return
			}
			current = batchEnd + 1
		case <-ctx.Done():
			return
		}
	}
}
