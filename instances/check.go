package instances

import (
	"fmt"

	"github.com/zeu5/cades/config"
	"github.com/zeu5/cades/core"
)

// Check validates the instance against the configured shape and reports
// where it departs from the configured generation parameters. A non-nil
// error means the simulator would reject the instance; warnings do not.
func Check(inst *core.ProblemInstance, cfg *config.Config) (warnings []string, err error) {
	p := cfg.Problem
	if err := inst.Validate(p.MaxNumItems, p.TotalBins); err != nil {
		return nil, err
	}
	warnings = make([]string, 0)

	n := inst.NumItems()
	if n < p.MinNumItems {
		warnings = append(warnings, fmt.Sprintf("%d items, configured minimum is %d", n, p.MinNumItems))
	}
	for i, c := range inst.Costs[:n] {
		if c < p.MinItemSize || c > p.MaxItemSize {
			warnings = append(warnings, fmt.Sprintf("item %d cost %v outside [%v,%v]", i, c, p.MinItemSize, p.MaxItemSize))
		}
	}
	for b, c := range inst.Capacities {
		if c < p.MinBinSize || c > p.MaxBinSize {
			warnings = append(warnings, fmt.Sprintf("bin %d capacity %v outside [%v,%v]", b, c, p.MinBinSize, p.MaxBinSize))
		}
	}

	groupSizes := make(map[int]int)
	for _, g := range inst.CriticalGroups {
		if g != 0 {
			groupSizes[g]++
		}
	}
	if len(groupSizes) > p.NumberOfCriticalItems {
		warnings = append(warnings, fmt.Sprintf("%d critical groups, configured %d", len(groupSizes), p.NumberOfCriticalItems))
	}
	for g, size := range groupSizes {
		if size < 2 {
			warnings = append(warnings, fmt.Sprintf("critical group %d has a single item", g))
		} else if size != p.NumberOfCopies {
			warnings = append(warnings, fmt.Sprintf("critical group %d has %d copies, configured %d", g, size, p.NumberOfCopies))
		}
	}

	edges := len(inst.Edges())
	if edges < p.MinComms || edges > p.MaxComms {
		warnings = append(warnings, fmt.Sprintf("%d communication edges outside [%d,%d]", edges, p.MinComms, p.MaxComms))
	}
	return warnings, nil
}
