package satsolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yusuke-matsunaga/druid-sub002/satsolver"
)

func TestSimpleSat(t *testing.T) {
	s := satsolver.NewCDCL()
	a := s.NewVar()
	b := s.NewVar()

	require.True(t, s.AddClause(satsolver.MkLit(a, false), satsolver.MkLit(b, false)))
	require.True(t, s.AddClause(satsolver.MkLit(a, true), satsolver.MkLit(b, true)))

	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, satsolver.Sat, res)
	require.NotEqual(t, s.Value(a), s.Value(b))
}

func TestUnsatEmptyClauseChain(t *testing.T) {
	s := satsolver.NewCDCL()
	a := s.NewVar()

	require.True(t, s.AddClause(satsolver.MkLit(a, false)))
	require.False(t, s.AddClause(satsolver.MkLit(a, true)))
}

func TestForcedUnitsContradictBinaryClauseIsUnsat(t *testing.T) {
	s := satsolver.NewCDCL()
	a := s.NewVar()
	b := s.NewVar()

	// a and b are both forced true, contradicting the (!a | !b) clause.
	require.True(t, s.AddClause(satsolver.MkLit(a, false)))
	require.True(t, s.AddClause(satsolver.MkLit(b, false)))
	require.True(t, s.AddClause(satsolver.MkLit(a, true), satsolver.MkLit(b, true)))

	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, satsolver.Unsat, res)
}

func TestAndGateEncoding(t *testing.T) {
	s := satsolver.NewCDCL()
	a := s.NewVar()
	b := s.NewVar()
	out := s.NewVar()

	aL, bL, outL := satsolver.MkLit(a, false), satsolver.MkLit(b, false), satsolver.MkLit(out, false)
	satsolver.AddAndGate(s, outL, aL, bL)

	s.AddClause(aL)
	s.AddClause(bL.Not())

	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, satsolver.Sat, res)
	require.Equal(t, satsolver.False, s.Value(out))
}

func TestAssumptionsForceUnsat(t *testing.T) {
	s := satsolver.NewCDCL()
	a := s.NewVar()
	b := s.NewVar()
	require.True(t, s.AddClause(satsolver.MkLit(a, false), satsolver.MkLit(b, false)))
	require.True(t, s.AddClause(satsolver.MkLit(a, true), satsolver.MkLit(b, true)))

	res, err := s.Solve(satsolver.MkLit(a, true), satsolver.MkLit(b, true))
	require.NoError(t, err)
	require.Equal(t, satsolver.Unsat, res)
}

func TestStatsRecordActivity(t *testing.T) {
	s := satsolver.NewCDCL()
	a := s.NewVar()
	b := s.NewVar()
	s.AddClause(satsolver.MkLit(a, false), satsolver.MkLit(b, false))
	s.AddClause(satsolver.MkLit(a, true), satsolver.MkLit(b, true))

	_, err := s.Solve()
	require.NoError(t, err)
	require.Greater(t, s.Stats().Decisions+s.Stats().Propagations, int64(0))
}
