package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/dispatcher"
	"github.com/DevelopBG/PTV-Assistant-for-travel/fuzzyindex"
	"github.com/DevelopBG/PTV-Assistant-for-travel/realtimeoverlay"
	"github.com/DevelopBG/PTV-Assistant-for-travel/response"
)

var planCmd = &cobra.Command{
	Use:   "plan <origin> <destination>",
	Short: "Plans the earliest journey between two stops, per mode",
	Args:  cobra.ExactArgs(2),
	RunE:  plan,
}

var (
	departFlag   string
	dateFlag     string
	realtimeFlag bool
	realtimeURLs []string
	modesFlag    []string
)

func init() {
	planCmd.Flags().StringVarP(&departFlag, "time", "t", "now", "Departure time HH:MM[:SS], or now")
	planCmd.Flags().StringVarP(&dateFlag, "date", "d", "today", "Travel date YYYY-MM-DD, or today")
	planCmd.Flags().BoolVarP(&realtimeFlag, "realtime", "r", false, "Overlay realtime trip updates")
	planCmd.Flags().StringSliceVarP(
		&realtimeURLs,
		"realtime-url",
		"",
		[]string{},
		"Realtime trip-update URL as <mode_tag>=<url>, repeatable",
	)
	planCmd.Flags().StringSliceVarP(&modesFlag, "modes", "m", []string{}, "Modes to plan (default all)")
	rootCmd.AddCommand(planCmd)
}

func plan(cmd *cobra.Command, args []string) error {
	originQuery, destQuery := args[0], args[1]

	departSecs, err := response.ParseDepartureTime(departFlag, time.Now())
	if err != nil {
		return err
	}
	date, err := response.ParseDate(dateFlag, time.Now())
	if err != nil {
		return err
	}

	cat, conns, err := loadCatalogue()
	if err != nil {
		return err
	}

	origin, originName := resolvePerMode(cat, originQuery)
	if len(origin) == 0 {
		return fmt.Errorf("origin %q not found", originQuery)
	}
	dest, destName := resolvePerMode(cat, destQuery)
	if len(dest) == 0 {
		return fmt.Errorf("destination %q not found", destQuery)
	}
	fmt.Printf("planning %s -> %s on %s\n", originName, destName, date)

	var modes []string
	if len(modesFlag) > 0 {
		modes = modesFlag
	}

	d := dispatcher.New(cat, conns, dispatcher.Config{})
	result, err := d.Plan(context.Background(), origin, dest, departSecs, date, modes)
	if err != nil {
		return err
	}

	var fetcher *realtimeoverlay.Fetcher
	if realtimeFlag {
		urls, err := parseRealtimeURLs()
		if err != nil {
			return err
		}
		fetcher = realtimeoverlay.NewFetcher(urls)
		if !fetcher.Enabled() {
			fmt.Printf("realtime disabled: %s not set or no --realtime-url given\n", realtimeoverlay.APIKeyEnvVar)
			fetcher = nil
		}
	}

	for _, mode := range d.Modes() {
		slot, ok := result.ByMode[mode]
		if !ok {
			continue
		}

		fmt.Printf("== %s\n", mode)
		if slot.Journey == nil {
			if slot.Note != dispatcher.NoteNone {
				fmt.Printf("no journey (%s)\n", slot.Note)
			} else {
				fmt.Println("no journey")
			}
			continue
		}

		if fetcher != nil {
			if _, err := fetcher.Overlay(context.Background(), slot.Journey, mode, cat); err != nil {
				fmt.Printf("realtime overlay skipped: %v\n", err)
			}
		}

		out, err := json.MarshalIndent(response.FromJourney(slot.Journey, cat), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}

	return nil
}

// resolvePerMode fuzzy-matches query against each mode's stop names
// independently, returning {mode -> best stop id} plus the display
// name of the overall best match.
func resolvePerMode(cat *catalogue.Catalogue, query string) (map[string]string, string) {
	resolved := map[string]string{}
	bestName := ""
	bestScore := -1

	for _, mode := range cat.Modes() {
		candidates := []fuzzyindex.Candidate{}
		for _, stop := range cat.IterStopsForMode(mode) {
			candidates = append(candidates, fuzzyindex.Candidate{StopID: stop.ID, Name: stop.Name})
		}

		matches := fuzzyindex.Build(candidates).LookupFuzzy(query, 1, 0)
		if len(matches) == 0 {
			continue
		}
		resolved[mode] = matches[0].StopID
		if matches[0].Score > bestScore {
			bestScore = matches[0].Score
			bestName = matches[0].Name
		}
	}

	return resolved, bestName
}

func parseRealtimeURLs() (map[string]string, error) {
	urls := map[string]string{}
	for _, flag := range realtimeURLs {
		parts := strings.SplitN(flag, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("'%s' is not on form <mode_tag>=<url>", flag)
		}
		urls[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return urls, nil
}
