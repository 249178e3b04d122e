package session

import (
	"slash-history/interaction"

	"github.com/bwmarrin/discordgo"
)

// Handler represents a handler for a [*discordgo.ApplicationCommand].
//
// Handlers are called with a typed view of the interaction (see
// [interaction.Data]), not the usual [*discordgo.InteractionCreate]. A nil
// response sends nothing, leaving the handler to respond on its own.
type Handler func(*discordgo.Session, *interaction.Data) *discordgo.InteractionResponse

// Command wraps a [*discordgo.ApplicationCommand], containing both the command
// definition itself, as well as the corresponding event handler in form of a
// [Handler] (see also [discordgo.EventHandler]).
type Command struct {
	Definition *discordgo.ApplicationCommand
	Handler    Handler
}
