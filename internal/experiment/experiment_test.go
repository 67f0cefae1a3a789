package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/bubblesim/internal/dynamo"
	"github.com/san-kum/bubblesim/internal/physics"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ExperimentSuite struct {
	suite.Suite
	ctx    context.Context
	reg    *Registry
	params dynamo.Params
}

func (s *ExperimentSuite) SetupTest() {
	s.ctx = context.Background()
	s.reg = NewRegistry()
	s.params = dynamo.Params{H: 1e-9, Tolerance: 1e-5}
}

func (s *ExperimentSuite) TestRunsAllMethodsInOrder() {
	exp := New(Config{
		Methods: []string{"rk4", "euler", "heun"},
		Params:  s.params,
		Model:   physics.NewBubble(),
	})
	require.NoError(s.T(), exp.Setup(s.reg))

	runs, err := exp.Run(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), runs, 3)

	require.Equal(s.T(), "rk4", runs[0].Method)
	require.Equal(s.T(), "rk4", runs[0].Label())
	require.Equal(s.T(), "euler", runs[1].Method)
	require.Equal(s.T(), "rk1", runs[1].Label())
	require.Equal(s.T(), "rk2", runs[2].Label())

	vt := physics.NewBubble().TerminalVelocity()
	for _, r := range runs {
		require.NotNil(s.T(), r.Trajectory)
		require.True(s.T(), r.Summary.Converged)
		require.Equal(s.T(), r.Trajectory.Final(), r.Summary.Final)
		require.InDelta(s.T(), vt, r.Summary.Final.Y, 5e-3)
	}
}

func (s *ExperimentSuite) TestSummaryOnlyMatchesFullRun() {
	full := New(Config{Methods: []string{"rk2"}, Params: s.params, Model: physics.NewBubble()})
	require.NoError(s.T(), full.Setup(s.reg))
	fullRuns, err := full.Run(s.ctx)
	require.NoError(s.T(), err)

	folded := New(Config{Methods: []string{"rk2"}, Params: s.params, Model: physics.NewBubble(), SummaryOnly: true})
	require.NoError(s.T(), folded.Setup(s.reg))
	foldedRuns, err := folded.Run(s.ctx)
	require.NoError(s.T(), err)

	require.Nil(s.T(), foldedRuns[0].Trajectory)
	require.Equal(s.T(), fullRuns[0].Summary, foldedRuns[0].Summary)
}

func (s *ExperimentSuite) TestAliasesAreDeduplicated() {
	exp := New(Config{Methods: []string{"euler", "rk1", "RK1"}, Params: s.params, Model: physics.NewBubble()})
	require.NoError(s.T(), exp.Setup(s.reg))
	require.Len(s.T(), exp.Methods(), 1)
}

func (s *ExperimentSuite) TestSetupErrors() {
	cases := []Config{
		{Methods: []string{"rk4"}, Params: s.params},
		{Methods: []string{"rk4"}, Params: dynamo.Params{H: 0, Tolerance: 1e-5}, Model: physics.NewBubble()},
		{Methods: nil, Params: s.params, Model: physics.NewBubble()},
		{Methods: []string{"midpoint"}, Params: s.params, Model: physics.NewBubble()},
	}
	for _, cfg := range cases {
		require.Error(s.T(), New(cfg).Setup(s.reg))
	}
}

func (s *ExperimentSuite) TestRunWithoutSetup() {
	_, err := New(Config{}).Run(s.ctx)
	require.Error(s.T(), err)
}

func (s *ExperimentSuite) TestDomainErrorNamesMethod() {
	params := s.params
	params.Y0 = -1
	exp := New(Config{Methods: []string{"heun"}, Params: params, Model: physics.NewBubble()})
	require.NoError(s.T(), exp.Setup(s.reg))

	_, err := exp.Run(s.ctx)
	require.ErrorIs(s.T(), err, dynamo.ErrInvalidState)
	require.Contains(s.T(), err.Error(), "heun:")
}

func (s *ExperimentSuite) TestStepCapSurfaces() {
	params := s.params
	params.MaxSteps = 10
	exp := New(Config{Methods: []string{"euler"}, Params: params, Model: physics.NewBubble()})
	require.NoError(s.T(), exp.Setup(s.reg))

	_, err := exp.Run(s.ctx)
	require.ErrorIs(s.T(), err, dynamo.ErrNotConverged)
}

func TestExperimentSuite(t *testing.T) {
	suite.Run(t, new(ExperimentSuite))
}

func TestReferenceBubbleRun(t *testing.T) {
	reg := NewRegistry()
	f := physics.NewBubble().Derive
	p := dynamo.Params{H: 1e-9, Tolerance: 1e-5}

	tests := []struct {
		method string
		steps  int
		final  float64
	}{
		{"euler", 706, 1.3016072846170867},
		{"heun", 709, 0},
		{"rk4", 709, 1.3016043897466694},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			m, err := reg.GetMethod(tt.method)
			require.NoError(t, err)

			sum, err := dynamo.Summarize(context.Background(), f, m, p)
			require.NoError(t, err)
			require.True(t, sum.Converged)
			require.Equal(t, tt.steps, sum.Steps)
			require.InDelta(t, float64(tt.steps)*1e-9, sum.Final.X, 1e-18)
			if tt.final != 0 {
				require.InDelta(t, tt.final, sum.Final.Y, 1e-13)
			}
		})
	}
}
