package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"termquest/logging"
	"termquest/middleware"
	"termquest/terminal"
	"termquest/websocket"
	"termquest/websocket/service/fs"
	"termquest/websocket/service/heartbeat"
	termsvc "termquest/websocket/service/terminal"
)

// TerminalManager creates, finds and drops live terminals.
type TerminalManager interface {
	middleware.TerminalLookup
	Create(variant terminal.Variant) (*terminal.Terminal, error)
	Remove(id string) bool
}

type SessionController struct {
	Terminals TerminalManager
	*zap.SugaredLogger
}

func NewSessionController(terminals TerminalManager) *SessionController {
	return &SessionController{
		Terminals:     terminals,
		SugaredLogger: logging.Named("controller"),
	}
}

type createRequest struct {
	Variant string `json:"variant"`
}

type execRequest struct {
	Input string `json:"input"`
}

type sublocationRequest struct {
	Name string `json:"name"`
}

func (sc *SessionController) CreateSession(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	variant, err := terminal.ParseVariant(req.Variant)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := sc.Terminals.Create(variant)
	if err != nil {
		logging.WithContext(c.Request.Context()).Error("error creating terminal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, t.State())
}

func (sc *SessionController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.Terminal(c).State())
}

func (sc *SessionController) Exec(c *gin.Context) {
	var req execRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, middleware.Terminal(c).Execute(req.Input))
}

func (sc *SessionController) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": middleware.Terminal(c).History()})
}

func (sc *SessionController) Complete(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.Terminal(c).Complete(c.Query("input")))
}

func (sc *SessionController) SetSubLocation(c *gin.Context) {
	var req sublocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := middleware.Terminal(c)
	if err := t.SetSubLocation(req.Name); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, terminal.ErrNotQuest) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, t.State())
}

func (sc *SessionController) DeleteSession(c *gin.Context) {
	sc.Terminals.Remove(middleware.Terminal(c).ID)
	c.Status(http.StatusNoContent)
}

// StartTerminal upgrades to a websocket carrying the terminal, fs and
// heartbeat services. Terminals started over it die with the connection.
func (sc *SessionController) StartTerminal(c *gin.Context) {
	wsServer, err := websocket.NewServer(c.Writer, c.Request)
	if err != nil {
		// the upgrader has already answered the request
		sc.Warnf("websocket upgrade failed: %v", err)
		return
	}

	terminalService := termsvc.NewService(sc.Terminals)
	fsService := fs.NewTerminalService(sc.Terminals)
	heartbeatService := heartbeat.NewService()

	wsServer.Register(terminalService)
	wsServer.Register(fsService)

	wsServer.RegisterPassive(heartbeatService)

	wsServer.Start()
}
