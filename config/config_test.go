package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

func (suite *ConfigTestSuite) TestDefaultIsValid() {
	cfg := Default()
	suite.NoError(cfg.Validate())
	suite.Equal(12, cfg.Problem.MaxNumItems)
	suite.Equal(8, cfg.Problem.TotalBins)
	suite.Equal(10.0, cfg.Rewards.Success)
	suite.Equal(0.25, cfg.Rewards.Bonus)
}

func (suite *ConfigTestSuite) TestLoadMergesFilesInOrder() {
	first := suite.writeFile("a.yaml", `
problem:
  max_num_items: 4
  min_num_items: 2
  max_comms: 3
  number_of_critical_items: 1
rewards:
  success: 20
`)
	second := suite.writeFile("b.yaml", `
rewards:
  comm: 4
seed: 99
`)
	cfg, err := Load(first, second)
	suite.Require().NoError(err)
	suite.Equal(4, cfg.Problem.MaxNumItems)
	suite.Equal(8, cfg.Problem.TotalBins)
	suite.Equal(20.0, cfg.Rewards.Success)
	suite.Equal(4.0, cfg.Rewards.Comm)
	suite.Equal(-2.0, cfg.Rewards.BinOverflow)
	suite.Equal(uint64(99), cfg.Seed)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.dir, "missing.yaml"))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestLoadBadYaml() {
	path := suite.writeFile("bad.yaml", "problem: [")
	_, err := Load(path)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestValidateRejects() {
	cfg := Default()
	cfg.Problem.MaxNumItems = 0
	cfg.Problem.TotalBins = -1
	cfg.Rewards.BinOverflowScale = -0.5
	err := cfg.Validate()
	suite.Require().Error(err)
	verr, ok := err.(ValidationError)
	suite.Require().True(ok)
	suite.Error(verr.ErrForField("Problem.MaxNumItems"))
	suite.Error(verr.ErrForField("Problem.TotalBins"))
	suite.Error(verr.ErrForField("Rewards.BinOverflowScale"))
	suite.NoError(verr.ErrForField("Problem.MinComms"))
	suite.Contains(err.Error(), "validation failed")
}

func (suite *ConfigTestSuite) TestValidateCrossFieldChecks() {
	cfg := Default()
	cfg.Problem.MinComms = 7
	cfg.Problem.MinBinSize = 20
	err := cfg.Validate()
	suite.Require().Error(err)
	verr := err.(ValidationError)
	suite.Error(verr.ErrForField("Problem.MinComms"))
	suite.Error(verr.ErrForField("Problem.MinBinSize"))

	cfg = Default()
	cfg.Problem.MaxComms = 12*11 + 1
	suite.Error(cfg.Validate().(ValidationError).ErrForField("Problem.MaxComms"))
}

func (suite *ConfigTestSuite) TestLoadRejectsInvalidFile() {
	path := suite.writeFile("invalid.yaml", `
problem:
  total_bins: 0
`)
	_, err := Load(path)
	suite.Require().Error(err)
	suite.Error(err.(ValidationError).ErrForField("Problem.TotalBins"))
}

func (suite *ConfigTestSuite) TestValidateCriticalCopies() {
	cfg := Default()
	cfg.Problem.NumberOfCriticalItems = 7
	suite.Error(cfg.Validate().(ValidationError).ErrForField("Problem.NumberOfCriticalItems"))

	cfg = Default()
	cfg.Problem.NumberOfCopies = 1
	suite.Error(cfg.Validate().(ValidationError).ErrForField("Problem.NumberOfCopies"))
}
