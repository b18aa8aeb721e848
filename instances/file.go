package instances

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/zeu5/cades/core"
)

// File is the on-disk form of a set of problem instances.
type File struct {
	Instances []InstanceSpec `yaml:"instances"`
}

// InstanceSpec uses the provider encodings: critical_mask marks replica group k with
// k > 1 (0 and 1 are non-critical) and communications lists sender/receiver
// pairs.
type InstanceSpec struct {
	Costs          []float64 `yaml:"costs"`
	Capacities     []float64 `yaml:"capacities"`
	CriticalMask   []int     `yaml:"critical_mask,omitempty"`
	Communications [][]int   `yaml:"communications,omitempty"`
}

// Instance builds the problem instance, converting mask and edge encodings.
func (s InstanceSpec) Instance() (*core.ProblemInstance, error) {
	inst := &core.ProblemInstance{
		Costs:      append([]float64(nil), s.Costs...),
		Capacities: append([]float64(nil), s.Capacities...),
	}
	if s.CriticalMask != nil {
		inst.CriticalGroups = core.CriticalGroupsFromMask(s.CriticalMask)
	}
	if len(s.Communications) > 0 {
		edges := make([]core.Edge, 0, len(s.Communications))
		for i, pair := range s.Communications {
			if len(pair) != 2 {
				return nil, errors.Errorf("communication %d: want [sender, receiver], got %v", i, pair)
			}
			if pair[0] < 0 || pair[0] >= len(s.Costs) || pair[1] < 0 || pair[1] >= len(s.Costs) {
				return nil, errors.Errorf("communication %d: %v out of range", i, pair)
			}
			edges = append(edges, core.Edge{Sender: pair[0], Receiver: pair[1]})
		}
		inst.Communications = core.CommunicationsFromEdges(len(s.Costs), edges)
	}
	return inst, nil
}

// Parse decodes a YAML instance file.
func Parse(data []byte) ([]*core.ProblemInstance, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrap(err, "parsing instances")
	}
	out := make([]*core.ProblemInstance, 0, len(f.Instances))
	for i, is := range f.Instances {
		inst, err := is.Instance()
		if err != nil {
			return nil, errors.Wrapf(err, "instance %d", i)
		}
		out = append(out, inst)
	}
	return out, nil
}

// LoadFile reads the instances stored at path.
func LoadFile(path string) ([]*core.ProblemInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading instances %s", path)
	}
	return Parse(data)
}
