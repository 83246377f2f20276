// Package env resolves the configuration inputs consumed by the fetch
// and build layers from the process environment, under the DEPFORGE_
// prefix.
package env

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/depforge/depforge/internal/extbuild"
)

// Setup binds the DEPFORGE_* environment variables. Call once before
// reading any configuration.
func Setup() {
	viper.SetEnvPrefix("DEPFORGE")
	viper.AutomaticEnv()
}

// CacheRoot resolves the fetch cache root: an explicit override wins,
// then DEPFORGE_CACHE_ROOT, then the default <projectRoot>/_deps.
func CacheRoot(projectRoot, override string) string {
	if override != "" {
		return override
	}
	if v := viper.GetString("cache_root"); v != "" {
		return v
	}
	return filepath.Join(projectRoot, "_deps")
}

// BuildSettings reads the ambient build configuration propagated into
// external builds.
func BuildSettings() extbuild.Settings {
	return extbuild.Settings{
		BuildType:               viper.GetString("build_type"),
		CCompiler:               viper.GetString("cc"),
		CXXCompiler:             viper.GetString("cxx"),
		CFlags:                  viper.GetString("cflags"),
		CXXFlags:                viper.GetString("cxxflags"),
		SanitizerFlags:          viper.GetString("sanitizer_flags"),
		CacheLauncher:           viper.GetString("cache_launcher"),
		PositionIndependentCode: viper.GetBool("pic"),
		Generator:               viper.GetString("generator"),
	}
}
