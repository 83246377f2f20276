package internal

import (
	"github.com/spf13/cobra"

	"github.com/depforge/depforge/internal/env"
	"github.com/depforge/depforge/internal/extbuild"
	"github.com/depforge/depforge/internal/fetch"
	"github.com/depforge/depforge/internal/link"
	"github.com/depforge/depforge/internal/manifest"
)

var (
	buildProjectRoot string
	buildCacheRoot   string
	buildVars        []string
)

var buildCmd = &cobra.Command{
	Use:   "build [manifest]",
	Short: "Fetch and build every manifest package with a build block",
	Long: `Build runs the fetch phase, then drives the configure/build/install
cycle of every manifest package that declares a build block, in manifest
order. The ambient build configuration (DEPFORGE_BUILD_TYPE, DEPFORGE_CC,
DEPFORGE_CFLAGS, DEPFORGE_SANITIZER_FLAGS, ...) is propagated into each
external build. The first failure aborts the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildProjectRoot, "project", "C", ".", "Project root the default cache root is derived from")
	buildCmd.Flags().StringVar(&buildCacheRoot, "cache-root", "", "Cache root override")
	buildCmd.Flags().StringArrayVar(&buildVars, "var", nil, "Manifest variable (key=value), usable as var.<key>")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	vars, err := parseVars(buildVars)
	if err != nil {
		return err
	}

	m, err := manifest.Load(args[0], vars)
	if err != nil {
		return err
	}

	root := env.CacheRoot(buildProjectRoot, buildCacheRoot)
	cache := fetch.New(root)
	driver := extbuild.NewDriver(extbuild.Options{
		Root:     root,
		Settings: env.BuildSettings(),
		Registry: link.NewRegistry(),
	})

	for _, e := range m.Entries {
		var res fetch.Result
		switch e.Kind {
		case manifest.PackageEntry:
			res, err = cache.FetchPackage(cmd.Context(), e.Name, e.Version, fetch.ArchiveSource{URL: e.URL, Hash: e.Hash})
		case manifest.FileEntry:
			res, err = cache.FetchFile(cmd.Context(), e.Name, e.Version, fetch.FileSource{URL: e.URL, Filename: e.Filename, Hash: e.Hash})
		}
		if err != nil {
			return err
		}
		if e.Build == nil {
			continue
		}

		step, err := driver.BuildExternal(extbuild.Request{
			Name:            e.Name,
			Version:         e.Version,
			SourceDir:       res.SourceDir,
			ExtraArgs:       e.Build.Args,
			ArtifactTargets: e.Build.Artifacts,
			System:          e.Build.System,
			Shared:          e.Build.Shared,
		})
		if err != nil {
			return err
		}
		if err := step.Run(); err != nil {
			return err
		}
	}
	return nil
}
