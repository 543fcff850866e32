package cmd

import (
	"bytes"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	originalVersion, originalCommit, originalRead := Version, Commit, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, readBuildInfo = originalVersion, originalCommit, originalRead
		versionShort = false
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func runVersionOutput() string {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	runVersion(versionCmd, []string{})
	return buf.String()
}

func TestVersionCommandStructure(t *testing.T) {
	assert.NotNil(t, versionCmd)
	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotEmpty(t, versionCmd.Long)
	assert.NotNil(t, versionCmd.Run)
	assert.NotNil(t, versionCmd.Flags().Lookup("short"))
}

func TestRunVersion(t *testing.T) {
	stamped := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/dbsmedya/schemadiff", Version: "v0.4.0"},
		Deps: []*debug.Module{
			{Path: "github.com/spf13/cobra", Version: "v1.10.1"},
			{Path: gqlparserModule, Version: "v2.5.31"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "9f2c1e7"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name         string
		version      string
		commit       string
		info         *debug.BuildInfo
		wantInOutput []string
	}{
		{
			name:    "dev build without build info",
			version: "0.0.1-dev",
			commit:  "unknown",
			wantInOutput: []string{
				"schemadiff version 0.0.1-dev",
				"Commit: unknown",
				"GraphQL parser: gqlparser unknown",
				"Go version:",
				"OS/Arch:",
			},
		},
		{
			name:    "dev build falls back to build info",
			version: "0.0.1-dev",
			commit:  "unknown",
			info:    stamped,
			wantInOutput: []string{
				"schemadiff version v0.4.0",
				"Commit: 9f2c1e7 (modified)",
				"GraphQL parser: gqlparser v2.5.31",
			},
		},
		{
			name:    "link-time values win",
			version: "1.0.0",
			commit:  "abc123def456",
			info:    stamped,
			wantInOutput: []string{
				"schemadiff version 1.0.0",
				"Commit: abc123def456 (modified)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.info)
			Version = tt.version
			Commit = tt.commit

			output := runVersionOutput()
			for _, want := range tt.wantInOutput {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestRunVersionShort(t *testing.T) {
	stubBuildInfo(t, nil)
	Version = "1.2.3"
	versionShort = true

	assert.Equal(t, "1.2.3\n", runVersionOutput())
}

func TestVersionOutputFormat(t *testing.T) {
	stubBuildInfo(t, nil)
	Version = "1.2.3"
	Commit = "abc123"

	output := runVersionOutput()
	lines := bytes.Split(bytes.TrimSpace([]byte(output)), []byte("\n"))
	assert.Len(t, lines, 5)

	assert.Contains(t, string(lines[0]), "schemadiff version 1.2.3")
	assert.Contains(t, string(lines[1]), "Commit: abc123")
	assert.Contains(t, string(lines[2]), "gqlparser unknown")
	assert.Contains(t, string(lines[3]), runtime.Version())
	assert.Contains(t, string(lines[4]), runtime.GOOS+"/"+runtime.GOARCH)
}
