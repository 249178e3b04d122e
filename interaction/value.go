package interaction

import "github.com/bwmarrin/discordgo"

// Option is a single node of an application command's option tree.
type Option = discordgo.ApplicationCommandInteractionDataOption

// Value is the resolved payload of a leaf option. The set of implementations is
// closed; each variant reports the option type it was resolved from.
type Value interface {
	Kind() discordgo.ApplicationCommandOptionType
	isValue()
}

type String string

type Integer int64

type Boolean bool

type Number float64

// User is a resolved user option. Member is only present for interactions that
// originate from a guild.
type User struct {
	*discordgo.User
	Member *discordgo.Member
}

// Channel is a resolved channel option. Only the partial fields sent with the
// interaction (ID, name, type, permissions) are populated.
type Channel struct {
	*discordgo.Channel
}

type Role struct {
	*discordgo.Role
}

type Attachment struct {
	*discordgo.MessageAttachment
}

// Mentionable is either a user or a role. Exactly one of the two is set.
type Mentionable struct {
	User *User
	Role *discordgo.Role
}

func (String) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionString
}
func (Integer) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionInteger
}
func (Boolean) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionBoolean
}
func (Number) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionNumber
}
func (User) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionUser
}
func (Channel) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionChannel
}
func (Role) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionRole
}
func (Attachment) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionAttachment
}
func (Mentionable) Kind() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionMentionable
}

func (String) isValue()      {}
func (Integer) isValue()     {}
func (Boolean) isValue()     {}
func (Number) isValue()      {}
func (User) isValue()        {}
func (Channel) isValue()     {}
func (Role) isValue()        {}
func (Attachment) isValue()  {}
func (Mentionable) isValue() {}

// resolve converts the raw value of a leaf option into its [Value] variant,
// looking up snowflake IDs in the interaction's resolved data where needed.
func resolve(opt *Option, res *discordgo.ApplicationCommandInteractionDataResolved) (Value, bool) {
	if opt.Value == nil {
		return nil, false
	}

	switch opt.Type {
	case discordgo.ApplicationCommandOptionString:
		v, ok := opt.Value.(string)
		return String(v), ok

	case discordgo.ApplicationCommandOptionInteger:
		// Numbers decoded from JSON are float64. Payloads built in code may carry
		// proper integers.
		switch v := opt.Value.(type) {
		case float64:
			return Integer(int64(v)), true
		case int64:
			return Integer(v), true
		case int:
			return Integer(int64(v)), true
		}
		return nil, false

	case discordgo.ApplicationCommandOptionNumber:
		switch v := opt.Value.(type) {
		case float64:
			return Number(v), true
		case int64:
			return Number(float64(v)), true
		case int:
			return Number(float64(v)), true
		}
		return nil, false

	case discordgo.ApplicationCommandOptionBoolean:
		v, ok := opt.Value.(bool)
		return Boolean(v), ok

	case discordgo.ApplicationCommandOptionUser:
		u, ok := resolveUser(opt, res)
		if !ok {
			return nil, false
		}
		return *u, true

	case discordgo.ApplicationCommandOptionChannel:
		id, ok := opt.Value.(string)
		if !ok || res == nil {
			return nil, false
		}
		ch, ok := res.Channels[id]
		if !ok || ch == nil {
			return nil, false
		}
		return Channel{ch}, true

	case discordgo.ApplicationCommandOptionRole:
		r, ok := resolveRole(opt, res)
		if !ok {
			return nil, false
		}
		return Role{r}, true

	case discordgo.ApplicationCommandOptionAttachment:
		id, ok := opt.Value.(string)
		if !ok || res == nil {
			return nil, false
		}
		a, ok := res.Attachments[id]
		if !ok || a == nil {
			return nil, false
		}
		return Attachment{a}, true

	case discordgo.ApplicationCommandOptionMentionable:
		if u, ok := resolveUser(opt, res); ok {
			return Mentionable{User: u}, true
		}
		if r, ok := resolveRole(opt, res); ok {
			return Mentionable{Role: r}, true
		}
		return nil, false
	}

	return nil, false
}

func resolveUser(opt *Option, res *discordgo.ApplicationCommandInteractionDataResolved) (*User, bool) {
	id, ok := opt.Value.(string)
	if !ok || res == nil {
		return nil, false
	}

	u, ok := res.Users[id]
	if !ok || u == nil {
		return nil, false
	}

	// Resolved members omit the user field; it is restored here so callers can
	// treat the member as complete.
	m := res.Members[id]
	if m != nil && m.User == nil {
		mc := *m
		mc.User = u
		m = &mc
	}

	return &User{u, m}, true
}

func resolveRole(opt *Option, res *discordgo.ApplicationCommandInteractionDataResolved) (*discordgo.Role, bool) {
	id, ok := opt.Value.(string)
	if !ok || res == nil {
		return nil, false
	}

	r, ok := res.Roles[id]
	return r, ok && r != nil
}
