package websocket

import (
	"os"
	"strconv"
	"time"

	"termquest/logging"
)

const (
	timeoutName = "TERMQUEST_CONNECTION_TIMEOUT"
)

var (
	connectionTimeout = time.Duration(getEnvTimeout()) * time.Minute
)

func getEnvTimeout() int {
	if timeout := os.Getenv(timeoutName); timeout == "" {
		logging.S().Infof("$%s not set, default to 5 minutes", timeoutName)
	} else {
		n, err := strconv.Atoi(timeout)
		if err == nil && n > 0 {
			return n
		}
		logging.S().Warnf("$%s (%v) is not a valid integer, default to 5 minutes", timeoutName, timeout)
	}

	return 5
}
