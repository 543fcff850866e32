package cmd

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const gqlparserModule = "github.com/vektah/gqlparser/v2"

var versionShort bool

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the schemadiff release, the revision it was built from, the
GraphQL parser it bundles and the Go toolchain and platform.

Values not stamped in at link time are taken from the module build
information when it is available.`,
	Run: runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}

type buildDetails struct {
	version  string
	commit   string
	modified bool
	parser   string
}

// resolveBuild combines the link-time Version and Commit with what the Go
// toolchain recorded in the binary.
func resolveBuild() buildDetails {
	d := buildDetails{version: Version, commit: Commit, parser: "unknown"}
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return d
	}
	if d.version == "0.0.1-dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		d.version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if d.commit == "unknown" && s.Value != "" {
				d.commit = s.Value
			}
		case "vcs.modified":
			d.modified = s.Value == "true"
		}
	}
	for _, dep := range info.Deps {
		if dep.Path != gqlparserModule {
			continue
		}
		d.parser = dep.Version
		if dep.Replace != nil {
			d.parser = dep.Replace.Version
		}
	}
	return d
}

func runVersion(cmd *cobra.Command, args []string) {
	d := resolveBuild()
	if versionShort {
		cmd.Println(d.version)
		return
	}
	commit := d.commit
	if d.modified {
		commit += " (modified)"
	}
	cmd.Printf("schemadiff version %s\n", d.version)
	cmd.Printf("  Commit: %s\n", commit)
	cmd.Printf("  GraphQL parser: gqlparser %s\n", d.parser)
	cmd.Printf("  Go version: %s\n", runtime.Version())
	cmd.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
