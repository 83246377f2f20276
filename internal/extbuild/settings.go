package extbuild

// Settings is the ambient build configuration propagated into every
// external build, passed explicitly so the driver is testable without a
// surrounding build system.
type Settings struct {
	// BuildType is the active configuration name (Debug, Release, ...).
	BuildType string

	CCompiler   string
	CXXCompiler string
	CFlags      string
	CXXFlags    string

	// SanitizerFlags are forwarded byte-for-byte so the external build's
	// instrumentation matches the parent build's. Mismatched sanitizer
	// runtimes between parent and dependency corrupt the ABI silently.
	SanitizerFlags string

	// CacheLauncher is an optional compilation cache program (ccache,
	// sccache) prefixed to compiler invocations.
	CacheLauncher string

	PositionIndependentCode bool

	// Generator selects the build file generator matching the parent
	// build (e.g. "Ninja").
	Generator string
}

// EffectiveCFlags returns the C flags with sanitizer flags appended.
func (s Settings) EffectiveCFlags() string {
	return joinFlags(s.CFlags, s.SanitizerFlags)
}

// EffectiveCXXFlags returns the C++ flags with sanitizer flags appended.
func (s Settings) EffectiveCXXFlags() string {
	return joinFlags(s.CXXFlags, s.SanitizerFlags)
}

func joinFlags(flags, extra string) string {
	switch {
	case flags == "":
		return extra
	case extra == "":
		return flags
	default:
		return flags + " " + extra
	}
}
