package logits

import (
	"math"
	"math/rand"
)

// SamplerConfig configures the behaviour of a Sampler.
type SamplerConfig struct {
	Seed        int64
	Temperature float64
	TopK        int
	TopP        float64
}

// Sampler draws indices from a logit vector, applying temperature scaling, a
// top-k shortlist and an optional top-p cumulative cutoff. A non-positive
// Temperature selects greedy argmax. Scratch buffers are reused across
// calls; a Sampler is not safe for concurrent use.
type Sampler struct {
	rng    *rand.Rand
	cfg    SamplerConfig
	greedy bool
	topIdx []int
	topVal []float64
	prob   []float64
}

// NewSampler returns a new sampler with the provided configuration.
// TopK defaults to 40 and TopP outside (0,1] disables the nucleus cutoff.
func NewSampler(cfg SamplerConfig) *Sampler {
	greedy := cfg.Temperature <= 0
	if cfg.Temperature <= 0 {
		cfg.Temperature = 1
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 40
	}
	if cfg.TopP <= 0 || cfg.TopP > 1 {
		cfg.TopP = 1
	}
	return &Sampler{
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		cfg:    cfg,
		greedy: greedy,
	}
}

// Sample draws a single index from the provided logits vector and returns it
// together with the natural log of its probability under the truncated,
// renormalized distribution. The process:
//
//  1. Greedy mode returns argmax with logprob 0.
//  2. The logits are scaled by the inverse temperature and the indices of
//     the top k values are selected.
//  3. A softmax over the shortlist is computed with the max subtracted for
//     numerical stability.
//  4. If TopP < 1, the shortlist is truncated when the cumulative
//     probability reaches TopP and renormalized.
//  5. A random value in [0,1) selects an index from the result.
func (s *Sampler) Sample(logits []float64) (int, float64) {
	if len(logits) == 0 {
		return -1, 0
	}

	if s.greedy {
		return argmax(logits), 0
	}

	invTemp := 1.0 / s.cfg.Temperature
	k := min(s.cfg.TopK, len(logits))

	topIdx, topVal := s.topK(logits, k, invTemp)

	maxv := topVal[0]
	for i := 1; i < len(topVal); i++ {
		if topVal[i] > maxv {
			maxv = topVal[i]
		}
	}

	if cap(s.prob) < len(topVal) {
		s.prob = make([]float64, len(topVal))
	}
	prob := s.prob[:len(topVal)]
	var sum float64
	for i := range topVal {
		e := math.Exp(topVal[i] - maxv)
		prob[i] = e
		sum += e
	}
	if sum == 0 {
		return topIdx[0], 0
	}
	invSum := 1.0 / sum
	for i := range prob {
		prob[i] *= invSum
	}

	cut := len(prob)
	if s.cfg.TopP < 1 {
		var c float64
		for i := range prob {
			c += prob[i]
			if c >= s.cfg.TopP {
				cut = i + 1
				break
			}
		}
		var kept float64
		for i := 0; i < cut; i++ {
			kept += prob[i]
		}
		if kept > 0 {
			scale := 1.0 / kept
			for i := 0; i < cut; i++ {
				prob[i] *= scale
			}
		}
	}

	r := s.rng.Float64()
	var c float64
	for i := 0; i < cut; i++ {
		c += prob[i]
		if r <= c {
			return topIdx[i], math.Log(prob[i])
		}
	}

	return topIdx[cut-1], math.Log(prob[cut-1])
}

// argmax returns the index of the maximum value in the slice.
func argmax(x []float64) int {
	bestI := 0
	bestV := x[0]
	for i := 1; i < len(x); i++ {
		if x[i] > bestV {
			bestV = x[i]
			bestI = i
		}
	}
	return bestI
}

// topK returns the indices and values of the k largest elements in logits,
// scaled by invTemp, ordered from largest to smallest. O(V*K) insertion,
// fine for the small vocabularies this repo samples from.
func (s *Sampler) topK(logits []float64, k int, invTemp float64) ([]int, []float64) {
	if cap(s.topIdx) < k+1 {
		s.topIdx = make([]int, 0, k+1)
		s.topVal = make([]float64, 0, k+1)
	}
	topIdx := s.topIdx[:0]
	topVal := s.topVal[:0]

	for i, l := range logits {
		v := l * invTemp

		pos := len(topVal)
		for pos > 0 && topVal[pos-1] < v {
			pos--
		}
		if pos >= k {
			continue
		}

		topIdx = append(topIdx, 0)
		topVal = append(topVal, 0)

		copy(topIdx[pos+1:], topIdx[pos:])
		copy(topVal[pos+1:], topVal[pos:])
		topIdx[pos] = i
		topVal[pos] = v

		if len(topVal) > k {
			topIdx = topIdx[:k]
			topVal = topVal[:k]
		}
	}

	s.topIdx = topIdx
	s.topVal = topVal
	return topIdx, topVal
}
