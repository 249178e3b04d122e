// Package interaction provides typed access to the options of an application
// command interaction (see [discordgo.ApplicationCommandInteractionData]) as
// well as helpers for replying to it.
package interaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

var (
	ErrNotCommand      = errors.New("interaction: not an application command")
	ErrNoOption        = errors.New("interaction: option not present")
	ErrMalformedOption = errors.New("interaction: option has no resolved value")
)

// Data is a read-only view of an application command interaction. It never
// modifies or retains more than the interaction it was created from.
type Data struct {
	i   *discordgo.Interaction
	cmd discordgo.ApplicationCommandInteractionData
}

// New wraps the given interaction. For interactions that are not application
// commands (or autocompletes of one), the returned view has no options and
// every lookup reports absence.
func New(i *discordgo.Interaction) *Data {
	d := &Data{i: i}
	if i == nil {
		return d
	}

	if i.Type != discordgo.InteractionApplicationCommand && i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return d
	}

	switch cmd := i.Data.(type) {
	case discordgo.ApplicationCommandInteractionData:
		d.cmd = cmd
	case *discordgo.ApplicationCommandInteractionData:
		if cmd != nil {
			d.cmd = *cmd
		}
	}

	return d
}

// Interaction returns the wrapped interaction.
func (d *Data) Interaction() *discordgo.Interaction {
	return d.i
}

// IsCommand reports whether the wrapped interaction carries command data.
func (d *Data) IsCommand() bool {
	return d.cmd.Name != ""
}

// Name returns the name of the invoked top-level command.
func (d *Data) Name() string {
	return d.cmd.Name
}

// UserID returns the ID of the invoking user, whether the command was used in a
// guild or in a direct message.
func (d *Data) UserID() string {
	if d.i == nil {
		return ""
	}
	if d.i.Member != nil && d.i.Member.User != nil {
		return d.i.Member.User.ID
	}
	if d.i.User != nil {
		return d.i.User.ID
	}
	return ""
}

// Path returns the full invocation path, e.g. "history admin prune".
func (d *Data) Path() string {
	parts := []string{d.cmd.Name}
	if g, ok := d.SubcommandGroup(); ok {
		parts = append(parts, g.Name)
	}
	if sc, ok := d.Subcommand(); ok {
		parts = append(parts, sc.Name)
	}
	return strings.Join(parts, " ")
}

// Subcommand returns the first subcommand found either at the top level or
// within the first top-level subcommand group. Top-level subcommands take
// precedence.
func (d *Data) Subcommand() (*Option, bool) {
	opts := d.cmd.Options
	if g, ok := d.SubcommandGroup(); ok {
		opts = append(append([]*Option(nil), opts...), g.Options...)
	}

	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o, true
		}
	}
	return nil, false
}

// SubcommandGroup returns the first top-level subcommand group. Nested options
// are not considered.
func (d *Data) SubcommandGroup() (*Option, bool) {
	for _, o := range d.cmd.Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			return o, true
		}
	}
	return nil, false
}

// Options returns the list named lookups are performed on. Only the first
// top-level option decides the shape:
//
//   - a subcommand yields its children
//   - a subcommand group yields the children of the group's first child
//   - anything else yields the top-level options
//
// Nesting deeper than group → subcommand is not supported by the platform, and
// only the first child of a group is ever consulted.
func (d *Data) Options() []*Option {
	if len(d.cmd.Options) == 0 {
		return d.cmd.Options
	}

	first := d.cmd.Options[0]
	switch first.Type {
	case discordgo.ApplicationCommandOptionSubCommand:
		return first.Options
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(first.Options) == 0 {
			return nil
		}
		return first.Options[0].Options
	}

	return d.cmd.Options
}

// Lookup finds the option with the given name and type in [Data.Options] and
// returns its resolved value. It reports [ErrNoOption] if no such option exists
// and [ErrMalformedOption] if the option is present without a usable value.
// Views of interactions that are not application commands report
// [ErrNotCommand].
func (d *Data) Lookup(name string, kind discordgo.ApplicationCommandOptionType) (Value, error) {
	if !d.IsCommand() {
		return nil, ErrNotCommand
	}

	for _, o := range d.Options() {
		if o.Type != kind || o.Name != name {
			continue
		}

		v, ok := resolve(o, d.cmd.Resolved)
		if !ok {
			return nil, fmt.Errorf("%w: %s (%s)", ErrMalformedOption, name, kind)
		}
		return v, nil
	}

	return nil, ErrNoOption
}

// get is the degrading form of Lookup shared by all typed accessors.
func (d *Data) get(name string, kind discordgo.ApplicationCommandOptionType) Value {
	v, err := d.Lookup(name, kind)
	if err != nil {
		if errors.Is(err, ErrMalformedOption) {
			log.Warn("Ignoring malformed option", "cmd", d.cmd.Name, "name", name, "kind", kind)
		}
		return nil
	}
	return v
}

func (d *Data) GetString(name string) (string, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionString).(String)
	return string(v), ok
}

func (d *Data) GetInteger(name string) (int64, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionInteger).(Integer)
	return int64(v), ok
}

func (d *Data) GetBool(name string) (bool, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionBoolean).(Boolean)
	return bool(v), ok
}

func (d *Data) GetNumber(name string) (float64, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionNumber).(Number)
	return float64(v), ok
}

// GetUser returns the named user option together with the user's partial
// guild member, if any.
func (d *Data) GetUser(name string) (User, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionUser).(User)
	return v, ok
}

func (d *Data) GetChannel(name string) (*discordgo.Channel, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionChannel).(Channel)
	return v.Channel, ok
}

func (d *Data) GetRole(name string) (*discordgo.Role, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionRole).(Role)
	return v.Role, ok
}

func (d *Data) GetAttachment(name string) (*discordgo.MessageAttachment, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionAttachment).(Attachment)
	return v.MessageAttachment, ok
}

func (d *Data) GetMentionable(name string) (Mentionable, bool) {
	v, ok := d.get(name, discordgo.ApplicationCommandOptionMentionable).(Mentionable)
	return v, ok
}
