package main

import (
	"slash-history/interaction"
	"slash-history/session"

	"github.com/bwmarrin/discordgo"
)

var (
	minLimit = float64(1)
	minDays  = 0.01
)

// Commands returns all slash-commands served by the bot.
func (h *History) Commands() []session.Command {
	limit := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "limit",
		Description: "Maximum number of commands to list.",
		MinValue:    &minLimit,
		MaxValue:    maxLimit,
	}

	return []session.Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "history",
				Description: "Browse recently used slash-commands.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "user",
						Description: "Commands recently used by a user.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionUser,
								Name:        "target",
								Description: "User to list commands for.",
								Required:    true,
							},
							limit,
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "channel",
						Description: "Commands recently used in a channel.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionChannel,
								Name:        "channel",
								Description: "Channel to list commands for.",
								Required:    true,
							},
							limit,
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "search",
						Description: "Commands whose name contains the query.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionString,
								Name:        "query",
								Description: "Part of the command name, e.g. `history user`.",
								Required:    true,
								MaxLength:   maxQuery,
							},
							limit,
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
						Name:        "admin",
						Description: "Manage the recorded history.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionSubCommand,
								Name:        "prune",
								Description: "Delete recorded commands older than the given age.",
								Options: []*discordgo.ApplicationCommandOption{
									{
										Type:        discordgo.ApplicationCommandOptionNumber,
										Name:        "days",
										Description: "Age in days, fractions allowed.",
										Required:    true,
										MinValue:    &minDays,
									},
									{
										Type:        discordgo.ApplicationCommandOptionBoolean,
										Name:        "dry-run",
										Description: "Only report how many commands would be deleted.",
									},
								},
							},
							{
								Type:        discordgo.ApplicationCommandOptionSubCommand,
								Name:        "mute",
								Description: "Stop recording commands of members with a role.",
								Options: []*discordgo.ApplicationCommandOption{
									{
										Type:        discordgo.ApplicationCommandOptionRole,
										Name:        "role",
										Description: "Role to mute.",
										Required:    true,
									},
								},
							},
							{
								Type:        discordgo.ApplicationCommandOptionSubCommand,
								Name:        "unmute",
								Description: "Resume recording commands of members with a role.",
								Options: []*discordgo.ApplicationCommandOption{
									{
										Type:        discordgo.ApplicationCommandOptionRole,
										Name:        "role",
										Description: "Role to unmute.",
										Required:    true,
									},
								},
							},
						},
					},
				},
			},
			Handler: h.HandleHistory,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "whois",
				Description: "Describe a user or role.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionMentionable,
						Name:        "who",
						Description: "User or role to describe.",
						Required:    true,
					},
				},
			},
			Handler: h.HandleWhois,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "echo-file",
				Description: "Show the metadata of an uploaded file.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionAttachment,
						Name:        "file",
						Description: "File to inspect.",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "spoiler",
						Description: "Hide the file name behind a spoiler.",
					},
				},
			},
			Handler: func(s *discordgo.Session, d *interaction.Data) *discordgo.InteractionResponse {
				h.EchoFile(s, d)
				return nil
			},
		},
	}
}
