package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/zeu5/cades/config"
)

type CmdTestSuite struct {
	suite.Suite
	dir string
}

func TestCmdTestSuite(t *testing.T) {
	suite.Run(t, new(CmdTestSuite))
}

func (suite *CmdTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	flags = DefaultFlags()
}

func (suite *CmdTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

func (suite *CmdTestSuite) execute(args ...string) error {
	root := RootCommand()
	root.SetArgs(args)
	root.SetOut(new(nopWriter))
	root.SetErr(new(nopWriter))
	return root.Execute()
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (suite *CmdTestSuite) TestValidate() {
	conf := suite.writeFile("config.yaml", `
problem:
  max_num_items: 3
  min_num_items: 1
  total_bins: 2
  number_of_critical_items: 1
`)
	valid := suite.writeFile("valid.yaml", `
instances:
  - costs: [1, 1, 1]
    capacities: [12]
`)
	suite.NoError(suite.execute("validate", "-c", conf, "-i", valid, "--log-level", "error"))

	invalid := suite.writeFile("invalid.yaml", `
instances:
  - costs: [1, 1, 1, 1]
    capacities: [12]
`)
	suite.ErrorIs(suite.execute("validate", "-c", conf, "-i", invalid, "--log-level", "error"), errInvalidInstances)
}

func (suite *CmdTestSuite) TestMissingInstances() {
	suite.Error(suite.execute("validate", "--log-level", "error"))
}

func (suite *CmdTestSuite) TestBadLogLevel() {
	suite.Error(suite.execute("validate", "--log-level", "loud"))
}

func (suite *CmdTestSuite) TestEvaluate() {
	insts := suite.writeFile("instances.yaml", `
instances:
  - costs: [1, 2, 3, 0]
    capacities: [6, 6]
    critical_mask: [2, 2, 0, 0]
    communications: [[0, 2]]
`)
	suite.NoError(suite.execute("evaluate", "-i", insts, "--episodes", "20", "--seed", "5", "--log-level", "error"))
	suite.Equal(uint64(5), cfg.Seed)
}

func (suite *CmdTestSuite) TestPrepareEvaluation() {
	c := config.Default()
	cmp := PrepareEvaluation(c, nil)
	suite.Len(cmp.Experiments, 2)
	suite.Contains(cmp.Analyzers, "Evaluation")
	suite.Contains(cmp.Analyzers, "Invariants")
	suite.Contains(cmp.Analyzers, "Errors")
	suite.NotContains(cmp.Analyzers, "Debug")
}
