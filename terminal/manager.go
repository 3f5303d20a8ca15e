package terminal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"termquest/content"
	"termquest/interpreter"
	"termquest/logging"
	"termquest/metrics"
	"termquest/quest"
	"termquest/sandbox"
)

type Options struct {
	// TTL is how long a terminal may stay idle. Zero uses $TERMQUEST_SESSION_TTL.
	TTL time.Duration
	// HistoryLimit caps each terminal's history. Zero uses $TERMQUEST_HISTORY_LIMIT.
	HistoryLimit int
	Logger       *zap.Logger
}

type Manager struct {
	content      *content.Content
	ttl          time.Duration
	historyLimit int
	logger       *zap.Logger

	terminals map[string]*Terminal
	now       func() time.Time

	*zap.SugaredLogger
	*sync.RWMutex
}

func NewManager(c *content.Content, opts Options) *Manager {
	m := &Manager{
		content:       c,
		ttl:           opts.TTL,
		historyLimit:  opts.HistoryLimit,
		logger:        opts.Logger,
		terminals:     make(map[string]*Terminal),
		now:           time.Now,
		SugaredLogger: logging.Named("terminal"),
		RWMutex:       &sync.RWMutex{},
	}
	if m.ttl == 0 {
		m.ttl = sessionTTL
	}
	if m.historyLimit == 0 {
		m.historyLimit = historyLimit
	}
	if m.logger == nil {
		m.logger = logging.L().Named("interpreter")
	}
	return m
}

// Create starts a terminal of the given variant with a fresh id.
func (m *Manager) Create(variant Variant) (*Terminal, error) {
	id := uuid.NewString()

	var t *Terminal
	switch variant {
	case VariantSandbox:
		it, err := sandbox.New(m.content.SandboxConfig(m.historyLimit, m.logger.With(zap.String("terminal", id))))
		if err != nil {
			return nil, err
		}
		t = newTerminal(id, variant, it, nil, m.now)
	case VariantQuest:
		q, err := quest.New(m.content.QuestConfig(m.historyLimit, m.logger.With(zap.String("terminal", id))))
		if err != nil {
			return nil, err
		}
		t = newTerminal(id, variant, q.Interpreter, q, m.now)
	default:
		return nil, ErrUnknownVariant
	}

	m.Lock()
	m.terminals[id] = t
	m.Unlock()

	metrics.TerminalStarted(string(variant))
	m.Infof("(id: %s) %s terminal started", id, variant)
	return t, nil
}

func (m *Manager) Get(id string) (*Terminal, bool) {
	m.RLock()
	defer m.RUnlock()
	t, ok := m.terminals[id]
	return t, ok
}

// Remove drops a terminal and reports whether it existed.
func (m *Manager) Remove(id string) bool {
	m.Lock()
	t, ok := m.terminals[id]
	delete(m.terminals, id)
	m.Unlock()

	if ok {
		metrics.TerminalStopped(string(t.Variant))
		m.Infof("(id: %s) terminal removed", id)
	}
	return ok
}

func (m *Manager) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.terminals)
}

// Expire removes every terminal idle for longer than the TTL and returns
// how many were dropped.
func (m *Manager) Expire() int {
	now := m.now()

	m.Lock()
	var expired []*Terminal
	for id, t := range m.terminals {
		if t.idleSince(now) > m.ttl {
			expired = append(expired, t)
			delete(m.terminals, id)
		}
	}
	m.Unlock()

	for _, t := range expired {
		metrics.TerminalStopped(string(t.Variant))
		m.Infof("(id: %s) terminal expired", t.ID)
	}
	if len(expired) > 0 {
		metrics.RecordExpired(len(expired))
	}
	return len(expired)
}

// Run sweeps idle terminals every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Expire()
		}
	}
}

// Execute runs input on the terminal with the given id.
func (m *Manager) Execute(id, input string) (interpreter.Result, error) {
	t, ok := m.Get(id)
	if !ok {
		return interpreter.Result{}, ErrNotFound
	}
	return t.Execute(input), nil
}
