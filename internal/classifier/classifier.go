// Package classifier assigns a migration risk label to a feature vector.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"

	"legacy-modernizer/internal/model"
)

// Sample is one labelled training vector.
type Sample struct {
	Features model.Features
	Label    model.RiskLevel
}

// DefaultSamples is the synthetic portfolio used when no training data is
// supplied: small utilities are LOW, large batch jobs with heavy SQL are HIGH.
var DefaultSamples = []Sample{
	{model.Features{20, 2, 0, 0, 5}, model.RiskLow},
	{model.Features{1500, 80, 25, 12, 95}, model.RiskHigh},
	{model.Features{400, 20, 5, 2, 45}, model.RiskMedium},
	{model.Features{50, 5, 0, 1, 10}, model.RiskLow},
	{model.Features{800, 45, 15, 8, 75}, model.RiskHigh},
}

var ErrNoSamples = errors.New("classifier: no training samples")

// Centroid is a nearest-centroid classifier over z-score scaled features.
// It is immutable once trained and safe for concurrent use.
type Centroid struct {
	mean      model.Features
	scale     model.Features
	labels    []model.RiskLevel
	centroids []model.Features
}

// Train fits a Centroid on samples.
func Train(samples []Sample) (*Centroid, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	c := &Centroid{}
	n := float64(len(samples))
	for _, s := range samples {
		if !known(s.Label) {
			return nil, fmt.Errorf("classifier: unknown label %q", s.Label)
		}
		for i, v := range s.Features {
			c.mean[i] += v / n
		}
	}
	for _, s := range samples {
		for i, v := range s.Features {
			d := v - c.mean[i]
			c.scale[i] += d * d / n
		}
	}
	for i := range c.scale {
		c.scale[i] = math.Sqrt(c.scale[i])
		if c.scale[i] == 0 {
			c.scale[i] = 1
		}
	}

	// Labels are visited in RiskLevels order so ties resolve to the lower risk.
	for _, label := range model.RiskLevels {
		var sum model.Features
		count := 0
		for _, s := range samples {
			if s.Label != label {
				continue
			}
			z := c.standardize(s.Features)
			for i := range sum {
				sum[i] += z[i]
			}
			count++
		}
		if count == 0 {
			continue
		}
		for i := range sum {
			sum[i] /= float64(count)
		}
		c.labels = append(c.labels, label)
		c.centroids = append(c.centroids, sum)
	}

	return c, nil
}

// Default returns a Centroid trained on DefaultSamples.
func Default() *Centroid {
	c, err := Train(DefaultSamples)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Centroid) Classify(ctx context.Context, f model.Features) (model.RiskLevel, error) {
	if err := ctx.Err(); err != nil {
		return model.RiskUnknown, err
	}
	z := c.standardize(f)

	best := model.RiskUnknown
	bestDist := math.Inf(1)
	for i, centroid := range c.centroids {
		var dist float64
		for j := range z {
			d := z[j] - centroid[j]
			dist += d * d
		}
		if dist < bestDist {
			best, bestDist = c.labels[i], dist
		}
	}
	return best, nil
}

func (c *Centroid) standardize(f model.Features) model.Features {
	var z model.Features
	for i, v := range f {
		z[i] = (v - c.mean[i]) / c.scale[i]
	}
	return z
}

func known(l model.RiskLevel) bool {
	for _, r := range model.RiskLevels {
		if r == l {
			return true
		}
	}
	return false
}

// Static always answers with the same label.
type Static model.RiskLevel

func (s Static) Classify(ctx context.Context, _ model.Features) (model.RiskLevel, error) {
	if err := ctx.Err(); err != nil {
		return model.RiskUnknown, err
	}
	return model.RiskLevel(s), nil
}
