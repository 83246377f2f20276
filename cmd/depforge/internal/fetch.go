package internal

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/depforge/depforge/internal/env"
	"github.com/depforge/depforge/internal/fetch"
)

var (
	fetchProjectRoot string
	fetchCacheRoot   string
	fetchVars        []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [manifest]",
	Short: "Fetch every manifest package into the cache root",
	Long: `Fetch downloads, verifies and extracts every package pinned in the
manifest, in order. Packages already materialized in the cache root are
skipped without any network access, so fetch can warm a CI cache and is
safe to re-run. No build-target state is touched.

Resolved bindings are printed one per line as <name>_SOURCE_DIR=<path>
and <name>_VERSION=<version>.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchProjectRoot, "project", "C", ".", "Project root the default cache root is derived from")
	fetchCmd.Flags().StringVar(&fetchCacheRoot, "cache-root", "", "Cache root override")
	fetchCmd.Flags().StringArrayVar(&fetchVars, "var", nil, "Manifest variable (key=value), usable as var.<key>")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	vars, err := parseVars(fetchVars)
	if err != nil {
		return err
	}

	root := env.CacheRoot(fetchProjectRoot, fetchCacheRoot)
	cache := fetch.New(root)

	bindings, err := cache.All(cmd.Context(), args[0], vars)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, bindings[k])
	}
	return nil
}
