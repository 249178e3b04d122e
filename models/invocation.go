package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"slash-history/interaction"
)

// Invocation is a single recorded use of a slash-command, including the
// options it was invoked with.
type Invocation struct {
	ID        string `db:"id"`
	Path      string `db:"path"`
	UserID    string `db:"user_id"`
	ChannelID string `db:"channel_id"`
	GuildID   string `db:"guild_id"`
	Options   string `db:"options"`
	CreatedAt int64  `db:"created_at"`
}

// NewInvocation creates an [Invocation] from the given command interaction.
func NewInvocation(d *interaction.Data, at time.Time) *Invocation {
	i := d.Interaction()

	return &Invocation{
		ID:        i.ID,
		Path:      d.Path(),
		UserID:    d.UserID(),
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
		Options:   FormatOptions(d),
		CreatedAt: at.Unix(),
	}
}

func (i *Invocation) Scan() []any {
	return []any{&i.ID, &i.Path, &i.UserID, &i.ChannelID, &i.GuildID, &i.Options, &i.CreatedAt}
}

func (i *Invocation) Time() time.Time {
	return time.Unix(i.CreatedAt, 0)
}

// String formats the invocation as a single line of a history listing.
func (i *Invocation) String() string {
	cmd := "/" + i.Path
	if i.Options != "" {
		cmd += " " + i.Options
	}

	return fmt.Sprintf("<t:%d:R> <@%s> in <#%s> `%s`", i.CreatedAt, i.UserID, i.ChannelID, cmd)
}

// FormatOptions renders all named options of the interaction as space separated
// name:value pairs, in the order they were sent. Options without a usable value
// are skipped.
func FormatOptions(d *interaction.Data) string {
	var parts []string
	for _, o := range d.Options() {
		v, err := d.Lookup(o.Name, o.Type)
		if err != nil {
			continue
		}
		parts = append(parts, o.Name+":"+FormatValue(v))
	}
	return strings.Join(parts, " ")
}

// FormatValue renders a resolved option value the way it would be typed into
// the client.
func FormatValue(v interaction.Value) string {
	switch v := v.(type) {
	case interaction.String:
		return strconv.Quote(string(v))
	case interaction.Integer:
		return strconv.FormatInt(int64(v), 10)
	case interaction.Number:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case interaction.Boolean:
		return strconv.FormatBool(bool(v))
	case interaction.User:
		return "<@" + v.ID + ">"
	case interaction.Channel:
		return "<#" + v.ID + ">"
	case interaction.Role:
		return "<@&" + v.ID + ">"
	case interaction.Attachment:
		return v.Filename
	case interaction.Mentionable:
		if v.User != nil {
			return "<@" + v.User.ID + ">"
		}
		return "<@&" + v.Role.ID + ">"
	}

	return ""
}
