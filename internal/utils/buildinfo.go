package utils

import (
	"runtime/debug"
)

const unknownVersion = "unknown"

// GetApplicationVersion determines the application version from Go build info.
// Module builds installed via go install carry the tagged version; development
// builds report unknownVersion.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
