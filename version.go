package mentor

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version is the release version in SemVer format (without `v`).
var Version = strings.TrimSpace(embeddedVersion)
