package interaction

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Responder sends interaction responses. It is satisfied by
// [*discordgo.Session].
type Responder interface {
	InteractionRespond(*discordgo.Interaction, *discordgo.InteractionResponse, ...discordgo.RequestOption) error
}

// Reply responds to the interaction with a message built by build. Failures
// are logged and otherwise ignored, such that a failed reply never aborts the
// calling handler.
func Reply(r Responder, i *discordgo.Interaction, build func(*discordgo.InteractionResponseData)) {
	data := &discordgo.InteractionResponseData{}
	build(data)

	Respond(r, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Respond sends the given response. Like [Reply], errors are only logged.
func Respond(r Responder, i *discordgo.Interaction, resp *discordgo.InteractionResponse) {
	if err := r.InteractionRespond(i, resp); err != nil {
		log.Error("Failed to respond to interaction", "id", i.ID, "err", err)
		return
	}

	log.Debug("Interaction response sent", "id", i.ID, "type", resp.Type)
}

// Content returns a reply builder for a plain text message.
func Content(msg string) func(*discordgo.InteractionResponseData) {
	return func(d *discordgo.InteractionResponseData) {
		d.Content = msg
	}
}

// Ephemeral returns a reply builder for a text message only visible to the
// invoking user.
func Ephemeral(msg string) func(*discordgo.InteractionResponseData) {
	return func(d *discordgo.InteractionResponseData) {
		d.Content = msg
		d.Flags |= discordgo.MessageFlagsEphemeral
	}
}
