package motion

import (
	"fmt"
	"strings"
)

// AggregationPolicy selects which regions of a tree feed the overall estimate.
type AggregationPolicy int

const (
	// AggregateAllRegions counts every region, so a subdivided region
	// contributes its own coarse vector on top of its children's.
	AggregateAllRegions AggregationPolicy = iota
	// AggregateLeavesOnly counts only regions without children.
	AggregateLeavesOnly
)

func (p AggregationPolicy) String() string {
	switch p {
	case AggregateAllRegions:
		return "all"
	case AggregateLeavesOnly:
		return "leaves"
	default:
		return fmt.Sprintf("AggregationPolicy(%d)", int(p))
	}
}

// MarshalText encodes the policy by name.
func (p AggregationPolicy) MarshalText() ([]byte, error) {
	if p != AggregateAllRegions && p != AggregateLeavesOnly {
		return nil, &ConfigError{Field: "Aggregation", Value: int(p), Reason: "unknown policy"}
	}
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (p *AggregationPolicy) UnmarshalText(b []byte) error {
	v, err := ParseAggregationPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParseAggregationPolicy accepts "all" or "leaves".
func ParseAggregationPolicy(s string) (AggregationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AggregateAllRegions, nil
	case "leaves", "leaves-only":
		return AggregateLeavesOnly, nil
	}
	return 0, &ConfigError{Field: "Aggregation", Value: s, Reason: "must be all or leaves"}
}

// MinorMotionThreshold is the strength a region must exceed to count in the
// overall estimate.
const MinorMotionThreshold = 0.1

// MinRegionSize is the exclusive lower bound on child region width and height.
const MinRegionSize = 10

// Config holds the estimator parameters. It is passed by value and never
// mutated once a frame pair is being processed.
type Config struct {
	GridRows              int               `json:"grid_rows"`
	GridCols              int               `json:"grid_cols"`
	SearchStepSize        int               `json:"search_step_size"` // pixels per candidate offset
	MotionThreshold       float64           `json:"motion_threshold"`
	MaxRecursiveDepth     int               `json:"max_recursive_depth"`
	SubdivisionFactor     int               `json:"subdivision_factor"`
	ExcludeBorderSections bool              `json:"exclude_border_sections"`
	Aggregation           AggregationPolicy `json:"aggregation"`
}

// DefaultConfig returns the standard estimator parameters.
func DefaultConfig() Config {
	return Config{
		GridRows:              5,
		GridCols:              5,
		SearchStepSize:        1,
		MotionThreshold:       0.3,
		MaxRecursiveDepth:     2,
		SubdivisionFactor:     2,
		ExcludeBorderSections: true,
		Aggregation:           AggregateAllRegions,
	}
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.GridRows < 1:
		return &ConfigError{Field: "GridRows", Value: c.GridRows, Reason: "must be >= 1"}
	case c.GridCols < 1:
		return &ConfigError{Field: "GridCols", Value: c.GridCols, Reason: "must be >= 1"}
	case c.SearchStepSize < 1:
		return &ConfigError{Field: "SearchStepSize", Value: c.SearchStepSize, Reason: "must be >= 1"}
	case c.MaxRecursiveDepth < 0:
		return &ConfigError{Field: "MaxRecursiveDepth", Value: c.MaxRecursiveDepth, Reason: "must be >= 0"}
	case c.SubdivisionFactor < 2:
		return &ConfigError{Field: "SubdivisionFactor", Value: c.SubdivisionFactor, Reason: "must be >= 2"}
	case c.Aggregation != AggregateAllRegions && c.Aggregation != AggregateLeavesOnly:
		return &ConfigError{Field: "Aggregation", Value: c.Aggregation, Reason: "unknown policy"}
	}
	return nil
}
