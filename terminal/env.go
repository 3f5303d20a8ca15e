package terminal

import (
	"os"
	"strconv"
	"time"

	"termquest/logging"
)

const (
	ttlName          = "TERMQUEST_SESSION_TTL"
	historyLimitName = "TERMQUEST_HISTORY_LIMIT"
)

var (
	sessionTTL   = time.Duration(getEnvInt(ttlName, 30, "30 minutes")) * time.Minute
	historyLimit = getEnvInt(historyLimitName, 500, "500 lines")
)

func getEnvInt(name string, fallback int, describe string) int {
	if value := os.Getenv(name); value == "" {
		logging.S().Infof("$%s not set, default to %s", name, describe)
	} else {
		n, err := strconv.Atoi(value)
		if err == nil && n >= 0 {
			return n
		}
		logging.S().Warnf("$%s (%v) is not a valid integer, default to %s", name, value, describe)
	}

	return fallback
}
