package content

import (
	"os"

	"termquest/logging"
)

const pathName = "TERMQUEST_CONTENT"

// EnvPath returns the content file named by $TERMQUEST_CONTENT, or "" for
// the built-in content.
func EnvPath() string {
	path := os.Getenv(pathName)
	if path == "" {
		logging.S().Infof("$%s not set, default to built-in content", pathName)
	}
	return path
}
