package session

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"slash-history/interaction"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Session is a connection to a [*discordgo.Session] with additional metadata as
// well as all registered event handlers (see [discordgo.EventHandler])
// slash-commands (see [discordgo.ApplicationCommand]).
type Session struct {
	// The underlying session.
	dcs *discordgo.Session

	// Application ID associated with the bot.
	AppID string

	// Server ID the session is connected to (see [discordgo.Guild]).
	ServerID string

	// Maps registered event handler names to their cancellation callbacks (see
	// [discordgo.Session.AddHandler]).
	Handlers map[string]func()

	// Maps registered command names to their handler functions.
	Commands map[string]Handler

	// Per-user rate limit applied to all commands. May be nil.
	Cooldown *Cooldown

	// Called for every command that passed the cooldown, before its handler
	// runs. May be nil.
	Invoked func(*interaction.Data)
}

// NewSession creates a new session, connecting the application to the given
// server.
func NewSession(token string, sID string, cd *Cooldown) (*Session, error) {
	dcs, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("session creation failed: %w", err)
	}

	return &Session{
		dcs:      dcs,
		ServerID: sID,
		Handlers: make(map[string]func()),
		Commands: make(map[string]Handler),
		Cooldown: cd,
	}, nil
}

// Open configures the underlying session.
func (s *Session) Open(cmds []Command) error {
	if err := s.awaitReady(); err != nil {
		return err
	}

	// Register generic handler for all slash-commands.
	if err := s.HandlerAdd("handle-command", func(dcs *discordgo.Session, i *discordgo.InteractionCreate) {
		s.dispatch(dcs, dcs, i.Interaction)
	}); err != nil {
		return err
	}

	// Unregister left-over commands. Application commands are registered on the
	// server itself. Deprecations or changes to command names leave behind
	// "ghost"-commands that don't work and simply produce an error.
	appCmds, err := s.dcs.ApplicationCommands(s.AppID, s.ServerID)
	if err != nil {
		return err
	}

	for _, c := range appCmds {
		if slices.ContainsFunc(cmds, func(c2 Command) bool { return c.Name == c2.Definition.Name }) {
			continue
		}

		log.Debug("Unregistering left-over command", "id", c.ID, "name", c.Name)
		if err := s.dcs.ApplicationCommandDelete(s.AppID, s.ServerID, c.ID); err != nil {
			log.Warn("Failed to unregister command", "id", c.ID, "name", c.Name, "err", err)
		}
	}

	// Register commands.
	for _, c := range cmds {
		if err := s.CommandAdd(c); err != nil {
			return err
		}
	}

	return nil
}

// Close removes all registered handlers and closes the underlying connection.
func (s *Session) Close() error {
	for name := range s.Handlers {
		s.HandlerRemove(name)
	}

	return s.dcs.Close()
}

// awaitReady starts initialization of the underlying session and synchronously
// waits for the initialization to finish.
func (s *Session) awaitReady() error {
	var rdy sync.WaitGroup
	rdy.Add(1)

	// Register handler to await session initialization. This ensures that AppID is
	// available.
	if err := s.HandlerAdd("session-ready", func(dcs *discordgo.Session, r *discordgo.Ready) {
		s.AppID = dcs.State.User.ID
		log.Info("Session ready", "id", s.AppID)
		rdy.Done()
	}); err != nil {
		return err
	}

	if err := s.dcs.Open(); err != nil {
		return err
	}

	log.Info("Awaiting session ready")
	rdy.Wait()
	s.HandlerRemove("session-ready")

	return nil
}

// dispatch routes a command interaction to its registered handler and sends
// the handler's response.
func (s *Session) dispatch(r interaction.Responder, dcs *discordgo.Session, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := interaction.New(i)
	h, ok := s.Commands[data.Name()]
	if !ok {
		log.Warn("Unknown command", "name", data.Name())
		return
	}

	if !s.Cooldown.Allow(data.UserID()) {
		log.Info("Command rate limited", "name", data.Name(), "uID", data.UserID())
		interaction.Reply(r, i, interaction.Ephemeral("Slow down! Try again in a moment."))
		return
	}

	if s.Invoked != nil {
		s.Invoked(data)
	}

	log.Info("Executing command", "path", data.Path(), "uID", data.UserID())
	if resp := h(dcs, data); resp != nil {
		interaction.Respond(r, i, resp)
	}
}

// CommandAdd adds a new slash-command (see [discordgo.ApplicationCommand]) from
// a [Command].
func (s *Session) CommandAdd(cmd Command) error {
	if _, ok := s.Commands[cmd.Definition.Name]; ok {
		return fmt.Errorf("command with name `%s` already exists", cmd.Definition.Name)
	}

	if _, err := s.dcs.ApplicationCommandCreate(s.AppID, s.ServerID, cmd.Definition); err != nil {
		return fmt.Errorf("command creation `%s` failed: %w", cmd.Definition.Name, err)
	}

	log.Info("Command registered", "name", cmd.Definition.Name)
	s.Commands[cmd.Definition.Name] = cmd.Handler
	return nil
}

// HandlerAdd adds an event handler and associates it with the given name. Names
// must be unique to allow deleting them at a later point in time. Errors if a
// handler for the given name already exists.
func (s *Session) HandlerAdd(name string, handler any) error {
	if _, ok := s.Handlers[name]; ok {
		return fmt.Errorf("handler for name `%s` already exists", name)
	}

	rv := reflect.ValueOf(handler)
	rt := rv.Type()

	// Wrap handler to allow generic logging for all handlers.
	fn := reflect.MakeFunc(rt, func(in []reflect.Value) []reflect.Value {
		log.Debug("Executing handler", "name", name)
		rv.Call(in)
		return nil
	}).Interface()

	log.Info("Handler registered", "name", name)
	s.Handlers[name] = s.dcs.AddHandler(fn)
	return nil
}

// HandlerRemove removes the event handler for the given name. Results in a noop
// if no handler exists for the name.
func (s *Session) HandlerRemove(name string) {
	if h, ok := s.Handlers[name]; ok {
		log.Debug("Handler removed", "name", name)
		h()
		delete(s.Handlers, name)
	}
}
