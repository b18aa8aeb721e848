package instances

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/zeu5/cades/config"
	"github.com/zeu5/cades/core"
)

const instancesYAML = `
instances:
  - costs: [2, 3, 4]
    capacities: [9]
  - costs: [2, 2, 1, 0]
    capacities: [4, 4]
    critical_mask: [2, 2, 1, 0]
    communications:
      - [0, 2]
      - [2, 1]
`

type InstancesTestSuite struct {
	suite.Suite
}

func TestInstancesTestSuite(t *testing.T) {
	suite.Run(t, new(InstancesTestSuite))
}

func (suite *InstancesTestSuite) TestParse() {
	insts, err := Parse([]byte(instancesYAML))
	suite.Require().NoError(err)
	suite.Require().Len(insts, 2)

	suite.Equal([]float64{2, 3, 4}, insts[0].Costs)
	suite.Nil(insts[0].CriticalGroups)
	suite.Nil(insts[0].Communications)

	second := insts[1]
	suite.Equal(3, second.NumItems())
	suite.Equal([]int{2, 2, 0, 0}, second.CriticalGroups)
	suite.Equal([]core.Edge{{Sender: 0, Receiver: 2}, {Sender: 2, Receiver: 1}}, second.Edges())
	suite.NoError(second.Validate(4, 2))
}

func (suite *InstancesTestSuite) TestParseErrors() {
	_, err := Parse([]byte("instances: ["))
	suite.Error(err)

	_, err = Parse([]byte(`
instances:
  - costs: [1, 1]
    capacities: [2]
    communications: [[0, 1, 1]]
`))
	suite.Error(err)

	_, err = Parse([]byte(`
instances:
  - costs: [1, 1]
    capacities: [2]
    communications: [[0, 5]]
`))
	suite.Error(err)
}

func (suite *InstancesTestSuite) TestLoadFile() {
	path := filepath.Join(suite.T().TempDir(), "instances.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(instancesYAML), 0644))
	insts, err := LoadFile(path)
	suite.Require().NoError(err)
	suite.Len(insts, 2)

	_, err = LoadFile(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}

func (suite *InstancesTestSuite) TestCheck() {
	cfg := config.Default()
	cfg.Problem.MaxNumItems = 4
	cfg.Problem.MinNumItems = 3
	cfg.Problem.TotalBins = 2
	cfg.Problem.MinBinSize = 4
	cfg.Problem.MaxBinSize = 4
	cfg.Problem.NumberOfCriticalItems = 1
	cfg.Problem.MaxComms = 1

	insts, err := Parse([]byte(instancesYAML))
	suite.Require().NoError(err)

	warnings, err := Check(insts[1], cfg)
	suite.NoError(err)
	suite.Equal([]string{"2 communication edges outside [0,1]"}, warnings)

	warnings, err = Check(insts[0], cfg)
	suite.NoError(err)
	suite.Equal([]string{"bin 0 capacity 9 outside [4,4]"}, warnings)

	_, err = Check(&core.ProblemInstance{Costs: []float64{1, 1, 1, 1, 1}, Capacities: []float64{4}}, cfg)
	suite.True(errors.Is(err, core.ErrInvalidInstance))
}

func (suite *InstancesTestSuite) TestCheckCriticalGroups() {
	cfg := config.Default()
	cfg.Problem.MinNumItems = 1
	inst := &core.ProblemInstance{
		Costs:          []float64{1, 1, 1, 1, 1, 1},
		Capacities:     []float64{12},
		CriticalGroups: []int{2, 3, 3, 3, 0, 0},
	}
	warnings, err := Check(inst, cfg)
	suite.NoError(err)
	suite.ElementsMatch([]string{
		"critical group 2 has a single item",
		"critical group 3 has 3 copies, configured 2",
	}, warnings)
}

func (suite *InstancesTestSuite) TestStaticProvider() {
	a := &core.ProblemInstance{Costs: []float64{1}, Capacities: []float64{1}}
	b := &core.ProblemInstance{Costs: []float64{2}, Capacities: []float64{2}}

	p := NewStaticProvider(1, a, b)
	suite.Equal(2, p.Len())
	for _, want := range []*core.ProblemInstance{b, a, b} {
		got, err := p.Next()
		suite.NoError(err)
		suite.Same(want, got)
	}

	_, err := NewStaticProvider(0).Next()
	suite.ErrorIs(err, ErrNoInstances)

	c := NewStaticProviderConstructor(a, b)
	got, err := c.NewProvider(2).Next()
	suite.NoError(err)
	suite.Same(a, got)
}
