// Package storage holds the attachment blob stores.
package storage

import (
	"fmt"
	"path"
	"strings"

	"srdashboard/internal/shared/constants"
)

// objectName extracts the stored name from a public /uploads/<name> path and
// rejects anything that could escape the upload area.
func objectName(publicPath string) (string, error) {
	if !strings.HasPrefix(publicPath, constants.UploadsURLPrefix) {
		return "", fmt.Errorf("path %q is outside %s", publicPath, constants.UploadsURLPrefix)
	}
	return checkName(strings.TrimPrefix(publicPath, constants.UploadsURLPrefix))
}

func checkName(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || path.Base(name) != name {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return name, nil
}

func publicPath(name string) string {
	return constants.UploadsURLPrefix + name
}
