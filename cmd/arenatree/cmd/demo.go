package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/arenatree/pkg/arenatree"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a synthetic tree in-process and print its diagnostics",
	Long: `demo inserts a synthetic, scrambled key set into a fresh tree,
removes a subset of it, then prints the resulting shape (height, leaf
and branch counts, split/merge/rebalance counters) and runs the
invariant checker. It is
a one-shot command: the tree does not outlive the process.

Example:
  arenatree demo --capacity=8 --count=5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfigWithOverrides(cmd)
		if err != nil {
			return fmt.Errorf("failed to resolve config: %w", err)
		}
		count, _ := cmd.Flags().GetInt("count")
		removeFraction, _ := cmd.Flags().GetFloat64("remove-fraction")

		tree, err := arenatree.New[int, int](config.Capacity)
		if err != nil {
			return fmt.Errorf("failed to create tree: %w", err)
		}

		for _, k := range scrambledRange(count) {
			tree.Insert(k, k*k)
		}

		removed := 0
		if removeFraction > 0 && removeFraction <= 1 {
			target := int(float64(count) * removeFraction)
			for i := 0; i < target; i++ {
				if _, ok := tree.Remove(i * count / target); ok {
					removed++
				}
			}
		}

		stats := tree.Stats()
		fmt.Printf("capacity:       %d\n", config.Capacity)
		fmt.Printf("inserted:       %d\n", count)
		fmt.Printf("removed:        %d\n", removed)
		fmt.Printf("len:            %d\n", tree.Len())
		fmt.Printf("height:         %d\n", tree.Height())
		fmt.Printf("leaf count:     %d\n", tree.LeafCount())
		fmt.Printf("branch count:   %d\n", tree.BranchCount())
		fmt.Printf("splits:         %d\n", stats.Splits)
		fmt.Printf("merges:         %d\n", stats.Merges)
		fmt.Printf("rebalances:     %d\n", stats.Rebalances)

		if err := tree.Check(); err != nil {
			return fmt.Errorf("invariant check failed: %w", err)
		}
		fmt.Println("check:          ok")
		return nil
	},
}

// scrambledRange returns [0, n) in a fixed, non-sorted permutation so the
// demo exercises splits and merges from every side of a node rather than
// the sorted-insert fast path.
func scrambledRange(n int) []int {
	if n <= 0 {
		return nil
	}
	// Start from 167 and step up to the first stride coprime with n, so the
	// walk visits every index exactly once.
	stride := 167
	for {
		a, b := stride, n
		for b != 0 {
			a, b = b, a%b
		}
		if a == 1 {
			break
		}
		stride++
	}
	out := make([]int, n)
	idx := 0
	for i := 0; i < n; i++ {
		out[i] = idx
		idx = (idx + stride) % n
	}
	return out
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Int("count", 1000, "number of keys to insert")
	demoCmd.Flags().Float64("remove-fraction", 0.3, "fraction of inserted keys to remove afterward (0 disables removal)")
}
