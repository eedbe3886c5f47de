package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DevelopBG/PTV-Assistant-for-travel/fuzzyindex"
)

var stopsCmd = &cobra.Command{
	Use:   "stops <query> | stops --near <lat> <lng> [limit]",
	Short: "Finds stops by fuzzy name match or by location",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  stops,
}

var (
	near       bool
	stopsLimit int
	minScore   int
)

func init() {
	stopsCmd.Flags().BoolVarP(&near, "near", "n", false, "Interpret arguments as lat lng [limit]")
	stopsCmd.Flags().IntVarP(&stopsLimit, "limit", "l", 10, "Maximum results")
	stopsCmd.Flags().IntVarP(&minScore, "min-score", "s", fuzzyindex.DefaultMinScore, "Minimum fuzzy match score")
	rootCmd.AddCommand(stopsCmd)
}

func stops(cmd *cobra.Command, args []string) error {
	cat, _, err := loadCatalogue()
	if err != nil {
		return err
	}

	if near {
		if len(args) < 2 {
			return fmt.Errorf("--near requires lat and lng")
		}
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid lat: %w", err)
		}
		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid lng: %w", err)
		}
		limit := stopsLimit
		if len(args) == 3 {
			limit, err = strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid limit: %w", err)
			}
		}

		for _, stop := range cat.NearbyStops(lat, lng, limit) {
			fmt.Printf("%s: %s\n", stop.ID, stop.Name)
		}
		return nil
	}

	candidates := []fuzzyindex.Candidate{}
	for _, stop := range cat.IterStops() {
		candidates = append(candidates, fuzzyindex.Candidate{StopID: stop.ID, Name: stop.Name})
	}
	index := fuzzyindex.Build(candidates)

	matches := index.LookupFuzzy(args[0], stopsLimit, minScore)
	if len(matches) == 0 {
		return fmt.Errorf("no stop matching %q", args[0])
	}
	for _, m := range matches {
		fmt.Printf("%s: %s (%d)\n", m.StopID, m.Name, m.Score)
	}
	return nil
}
