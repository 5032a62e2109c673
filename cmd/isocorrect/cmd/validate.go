package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func runValidate(cmd *cobra.Command, args []string) error {
	table, err := loadAbundanceTable(abundanceFile)
	if err != nil {
		return err
	}

	compounds, err := loadCompounds(args[0])
	if err != nil {
		return err
	}

	invalid := 0
	for _, c := range compounds {
		if err := c.Validate(table); err != nil {
			fmt.Printf("INVALID %s: %v\n", c.Name, err)
			invalid++
			continue
		}
		fmt.Printf("OK %s (%s)\n", c.Name, isotopologueLabel(c.IsIsotopologue()))
	}

	fmt.Printf("\n%d compound(s) checked, %d invalid\n", len(compounds), invalid)
	if invalid > 0 {
		return fmt.Errorf("%d compound(s) failed validation", invalid)
	}
	return nil
}

func isotopologueLabel(isIsotopologue bool) string {
	if isIsotopologue {
		return "isotopologue"
	}
	return "fragmented"
}
