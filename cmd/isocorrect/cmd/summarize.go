package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func runSummarize(cmd *cobra.Command, args []string) error {
	compounds, err := loadCompounds(args[0])
	if err != nil {
		return err
	}
	measurements, err := loadMeasurements(args[1])
	if err != nil {
		return err
	}

	isotopologues, fragmented, unmeasured := 0, 0, 0
	for _, c := range compounds {
		if c.IsIsotopologue() {
			isotopologues++
		} else {
			fragmented++
		}
		if _, ok := measurements[c.Name]; !ok {
			unmeasured++
		}
	}

	fmt.Printf("Compounds: %d (%d isotopologue, %d fragmented)\n", len(compounds), isotopologues, fragmented)
	if unmeasured > 0 {
		fmt.Printf("Compounds without measurement rows: %d\n", unmeasured)
	}

	totalRows, totalColumns := 0, 0
	for _, vectors := range measurements {
		for _, v := range vectors {
			totalRows += v.Len()
		}
		totalColumns += len(vectors)
	}
	fmt.Printf("Measurement experiments: %d, total rows across experiments: %d\n", totalColumns, totalRows)

	if showStats {
		reportStats()
	}
	return nil
}
