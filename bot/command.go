// Package bot wires the query pipeline to a chat transport: a pluggable
// command registry, a per-user in-flight guard, a short-lived reply
// cache and the Telegram binding.
package bot

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context provides user context to commands
type Context struct {
	Ctx  context.Context
	User int64
	Args []string
}

// Command represents a pluggable command handler
type Command struct {
	Name        string
	Description string
	Usage       string
	Instant     bool // replies without the processing notice
	Handler     func(ctx *Context) (string, error)
}

// Registry holds registered commands in registration order.
type Registry struct {
	commands map[string]*Command
	order    []string
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd *Command) {
	if _, ok := r.commands[cmd.Name]; !ok {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
}

// Get returns a command by name
func (r *Registry) Get(name string) *Command {
	return r.commands[name]
}

// List returns all commands in registration order
func (r *Registry) List() []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name])
	}
	return cmds
}

// Dispatch routes slash-command input to the matching handler.
// Returns (reply, handled); handled=false means the input is not a
// known command.
func (r *Registry) Dispatch(ctx *Context, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	cmd := r.Get(name)
	if cmd == nil {
		return "", false
	}

	ctx.Args = parts[1:]
	return r.Run(ctx, cmd), true
}

// Run executes a command, mapping handler errors to the generic
// user-facing failure text so nothing leaks past the handler boundary.
func (r *Registry) Run(ctx *Context, cmd *Command) string {
	rid := uuid.New().String()[:8]
	log := logrus.WithFields(logrus.Fields{"cmd": cmd.Name, "user": ctx.User, "req": rid})

	reply, err := cmd.Handler(ctx)
	if err != nil {
		log.WithError(err).Error("command failed")
		return msgErrorAPI
	}
	log.Info("command handled")
	return reply
}
