package version

// values are set via ldflags on release builds
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

var FullVersion = composeFullVersion()

func composeFullVersion() string {
	ret := Version
	if GitCommit != "" {
		ret += " (" + GitCommit + ")"
	}
	return ret
}
