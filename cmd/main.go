package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/connection"
	"github.com/DevelopBG/PTV-Assistant-for-travel/registry"
)

var rootCmd = &cobra.Command{
	Use:          "ptv",
	Short:        "PTV journey planning tool",
	Long:         "Plans multi-mode public transport journeys from GTFS feeds",
	SilenceUsage: true,
}

var (
	bundleFlags []string
	registryDir string
)

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(
		&bundleFlags,
		"bundle",
		"b",
		[]string{},
		"GTFS bundle as <mode_tag>=<directory>, repeatable",
	)
	rootCmd.PersistentFlags().StringVarP(
		&registryDir,
		"registry-dir",
		"",
		"",
		"Directory for the on-disk feed registry (omit for in-memory)",
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func parseBundleFlags() ([]catalogue.BundleSource, error) {
	if len(bundleFlags) == 0 {
		return nil, fmt.Errorf("at least one --bundle <mode_tag>=<directory> is required")
	}

	sources := make([]catalogue.BundleSource, 0, len(bundleFlags))
	for _, flag := range bundleFlags {
		parts := strings.SplitN(flag, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("'%s' is not on form <mode_tag>=<directory>", flag)
		}
		sources = append(sources, catalogue.BundleSource{
			ModeTag:  strings.TrimSpace(parts[0]),
			FeedPath: strings.TrimSpace(parts[1]),
		})
	}
	return sources, nil
}

// loadCatalogue loads every --bundle, records each feed in the
// registry, and returns the merged catalogue plus its connection set.
func loadCatalogue() (*catalogue.Catalogue, *connection.Set, error) {
	sources, err := parseBundleFlags()
	if err != nil {
		return nil, nil, err
	}

	cat, missing, err := catalogue.Load(sources)
	if err != nil {
		return nil, nil, err
	}
	for _, m := range missing {
		fmt.Printf("optional file absent: %s\n", m)
	}
	for _, w := range cat.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	conns := connection.Build(cat)

	reg, err := openRegistry()
	if err != nil {
		return nil, nil, err
	}
	defer reg.Close()

	for _, src := range sources {
		hash, err := hashBundleDir(src.FeedPath)
		if err != nil {
			return nil, nil, fmt.Errorf("hashing bundle %q: %w", src.ModeTag, err)
		}
		meta := &registry.FeedMetadata{
			ModeTag:         src.ModeTag,
			Path:            src.FeedPath,
			Hash:            hash,
			LoadedAt:        time.Now(),
			StopCount:       len(cat.IterStopsForMode(src.ModeTag)),
			ConnectionCount: len(conns.ForMode(src.ModeTag).Regular),
		}
		for _, trip := range cat.IterTrips() {
			if trip.ModeTag == src.ModeTag {
				meta.TripCount++
			}
		}
		if err := reg.WriteFeedMetadata(meta); err != nil {
			return nil, nil, fmt.Errorf("recording bundle %q: %w", src.ModeTag, err)
		}
	}

	return cat, conns, nil
}

func openRegistry() (registry.Registry, error) {
	if registryDir == "" {
		return registry.NewMemoryRegistry(), nil
	}
	return registry.NewSQLiteRegistry(registry.SQLiteConfig{OnDisk: true, Directory: registryDir})
}

// hashBundleDir digests every file in a bundle directory, in name
// order, so the registry can tell feed versions apart.
func hashBundleDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		io.WriteString(h, name)
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
