package distribute

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cnfsat/dpll-sat/cnf"
)

func rows(t *testing.T, sols []cnf.Solution) []string {
	t.Helper()
	out := make([]string, len(sols))
	for i, s := range sols {
		row := ""
		for v := 1; v < len(s.Model); v++ {
			if s.Model[v] {
				row += "1"
			} else {
				row += "0"
			}
		}
		out[i] = row
	}
	sort.Strings(out)
	return out
}

func runFleet(t *testing.T, f *cnf.Formula, maxUnsat, world int) []cnf.Solution {
	t.Helper()
	fleet := NewInMemoryFleet(world)

	var wg sync.WaitGroup
	var rootSolutions []cnf.Solution
	errs := make([]error, world)

	for i := 0; i < world; i++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			d := NewDistributor(fleet[rank], f, maxUnsat)
			sols, err := d.Run()
			errs[rank] = err
			if rank == 0 {
				rootSolutions = sols
			}
		}(i)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("distributed fleet did not terminate")
	}

	for rank, err := range errs {
		require.NoErrorf(t, err, "rank %d", rank)
	}
	return rootSolutions
}

// Spec §8 scenario 2, driven over a simulated 3-rank fleet.
func TestDistributorMatchesSequentialResult(t *testing.T) {
	f, err := cnf.NewFormula(2, [][]int{{1, 2}, {-1, -2}})
	require.NoError(t, err)

	got := runFleet(t, f, 0, 3)
	require.Equal(t, []string{"01", "10"}, rows(t, got))
}

func TestDistributorSingleRank(t *testing.T) {
	f, err := cnf.NewFormula(3, nil)
	require.NoError(t, err)

	got := runFleet(t, f, 0, 1)
	require.Len(t, got, 8)
}

func TestDistributorPigeonholeUnsat(t *testing.T) {
	v := func(p, h int) int { return 2*(p-1) + h }
	var raw [][]int
	for p := 1; p <= 3; p++ {
		raw = append(raw, []int{v(p, 1), v(p, 2)})
	}
	for h := 1; h <= 2; h++ {
		for p1 := 1; p1 <= 3; p1++ {
			for p2 := p1 + 1; p2 <= 3; p2++ {
				raw = append(raw, []int{-v(p1, h), -v(p2, h)})
			}
		}
	}
	f, err := cnf.NewFormula(6, raw)
	require.NoError(t, err)

	got := runFleet(t, f, 0, 4)
	require.Empty(t, got)
}
