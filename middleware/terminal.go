package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"termquest/terminal"
)

const TerminalKey = "terminal"

// TerminalLookup finds a live terminal by id.
type TerminalLookup interface {
	Get(id string) (*terminal.Terminal, bool)
}

// GetTerminal resolves the terminal named by the :id path parameter, the
// X-Terminal-ID header or the terminal query parameter, in that order.
func GetTerminal(terminals TerminalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			id = c.GetHeader("X-Terminal-ID")
		}
		if id == "" {
			id = c.Query("terminal")
		}
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing terminal id"})
			return
		}

		t, ok := terminals.Get(id)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%v: %s", terminal.ErrNotFound, id)})
			return
		}
		c.Set(TerminalKey, t)
		c.Next()
	}
}

// Terminal returns the terminal stored by GetTerminal.
func Terminal(c *gin.Context) *terminal.Terminal {
	return c.MustGet(TerminalKey).(*terminal.Terminal)
}
