package kernel

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// DefaultCapacityThresholdKg separates two-wheeler loads from four-wheeler loads.
const DefaultCapacityThresholdKg = 0.4

// Capacity is the vehicle tier of an agent and the tier a load requires.
type Capacity int

const (
	CapacityUnknown Capacity = iota
	CapacityTwoWheeler
	CapacityFourWheeler
)

var capacityNames = map[Capacity]string{
	CapacityUnknown:     "UNKNOWN",
	CapacityTwoWheeler:  "TWO_WHEELER",
	CapacityFourWheeler: "FOUR_WHEELER",
}

func (c Capacity) String() string {
	if name, ok := capacityNames[c]; ok {
		return name
	}
	return capacityNames[CapacityUnknown]
}

func (c Capacity) Validate() error {
	if c != CapacityTwoWheeler && c != CapacityFourWheeler {
		return errs.NewValueIsInvalidError("capacity")
	}
	return nil
}

func ParseCapacity(s string) (Capacity, error) {
	for c, name := range capacityNames {
		if c != CapacityUnknown && strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return CapacityUnknown, errs.NewValueIsInvalidErrorWithCause("capacity", fmt.Errorf("unknown capacity %q", s))
}

// CapacityClassifier maps a load weight onto the vehicle tier able to carry it.
type CapacityClassifier struct {
	thresholdKg float64
}

func NewCapacityClassifier(thresholdKg float64) CapacityClassifier {
	if thresholdKg <= 0 {
		thresholdKg = DefaultCapacityThresholdKg
	}
	return CapacityClassifier{thresholdKg: thresholdKg}
}

// Classify returns CapacityTwoWheeler iff weightKg is strictly below the
// threshold. The boundary value itself needs a four-wheeler.
func (c CapacityClassifier) Classify(weightKg float64) Capacity {
	threshold := c.thresholdKg
	if threshold <= 0 {
		threshold = DefaultCapacityThresholdKg
	}
	if weightKg < threshold {
		return CapacityTwoWheeler
	}
	return CapacityFourWheeler
}

func (c CapacityClassifier) ThresholdKg() float64 {
	return c.thresholdKg
}

func ClassifyWeight(weightKg float64) Capacity {
	return NewCapacityClassifier(DefaultCapacityThresholdKg).Classify(weightKg)
}
