package version

// Set via -ldflags at build time.
var (
	Version = ""
	Commit  = ""
)

// String renders the build version for --version output. A source build
// without ldflags reports "dev".
func String() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit == "" {
		return v
	}
	return v + " (" + shortCommit(Commit) + ")"
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
