package internal

import (
	"fmt"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/depforge/depforge/internal/env"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "depforge",
	Short: "depforge fetches and builds pinned native dependencies",
	Long: `depforge materializes third-party packages pinned by URL and content
hash into a local cache, and drives isolated configure/build/install cycles
for packages that carry their own build system.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
		env.Setup()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

// parseVars parses repeated "key=value" flags into a map.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid variable %q: want key=value", pair)
		}
		vars[k] = v
	}
	return vars, nil
}
