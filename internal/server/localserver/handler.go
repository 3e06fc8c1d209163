package localserver

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/yndnr/navkeep-go/internal/core/domain"
	"github.com/yndnr/navkeep-go/internal/core/service"
)

// Handler executes host bridge commands against the engine.
type Handler struct {
	state   *service.StateService
	monitor *service.LifecycleMonitor
	logger  *slog.Logger
}

// NewHandler creates a bridge command handler.
func NewHandler(state *service.StateService, monitor *service.LifecycleMonitor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		state:   state,
		monitor: monitor,
		logger:  logger.With("component", "bridge"),
	}
}

// Execute runs one bridge command line and returns the reply line.
// Command words are case-insensitive; arguments are not.
func (h *Handler) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return errReply(domain.ErrBadRequest.WithDetails("empty command"))
	}

	cmd := strings.ToUpper(fields[0])
	args := fields[1:]

	switch cmd {
	case "PING":
		return "PONG"
	case "EVENT":
		return h.handleEvent(args)
	case "ROUTE":
		return h.handleRoute(args)
	case "STATE":
		return h.handleState()
	default:
		return errReply(domain.ErrBadRequest.WithDetails("unknown command: " + cmd))
	}
}

func (h *Handler) handleEvent(args []string) string {
	if len(args) != 1 {
		return errReply(domain.ErrMissingArgument.WithDetails("usage: EVENT active|inactive|background"))
	}

	// The event is queued, not handled inline; OK means the engine
	// will observe it in arrival order.
	if err := h.monitor.NotifyLifecycle(args[0]); err != nil {
		return errReply(err)
	}
	return "OK"
}

func (h *Handler) handleRoute(args []string) string {
	if len(args) != 1 {
		return errReply(domain.ErrMissingArgument.WithDetails("usage: ROUTE <name>"))
	}

	// Validated at the boundary so the shell hears about typos; the
	// engine itself only logs and drops bad names.
	if err := domain.ValidateRouteName(args[0]); err != nil {
		return errReply(err)
	}
	if err := h.monitor.NotifyRoute(args[0]); err != nil {
		return errReply(err)
	}
	return "OK"
}

func (h *Handler) handleState() string {
	view := h.state.View()

	data, err := json.Marshal(view)
	if err != nil {
		h.logger.Error("state view marshal failed", "error", err)
		return errReply(domain.ErrInternalServer.WithCause(err))
	}
	return string(data)
}

// errReply formats an error as a bridge reply line.
func errReply(err error) string {
	code := domain.GetErrorCode(err)
	if code == "" {
		code = "NK-SYS-5000"
	}

	msg := err.Error()
	if domain.IsDomainError(err, "") {
		// The code is already the line's second word; strip the
		// bracketed prefix from the message.
		if idx := strings.Index(msg, "] "); idx >= 0 {
			msg = msg[idx+2:]
		}
	}
	return "ERR " + code + " " + msg
}
