package main

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"slash-history/db"
	"slash-history/interaction"
	"slash-history/models"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

const (
	defaultLimit = 10
	maxLimit     = 25
	maxQuery     = 100

	// Discord rejects message content longer than this.
	maxContent = 2000
	maxTitle   = 200
)

// History records slash-command invocations and answers queries about them.
type History struct {
	dal *DAL
	now func() time.Time
}

func NewHistory(dal *DAL) *History {
	return &History{dal, time.Now}
}

// Record stores the given invocation, unless the invoking member holds a muted
// role. Failures are logged only.
func (h *History) Record(d *interaction.Data) {
	i := d.Interaction()

	if i.Member != nil && len(i.Member.Roles) > 0 {
		muted, err := h.dal.MutedRoles.GetAll()
		if err != nil {
			log.Warn("Failed to fetch muted roles", "err", err)
			return
		}

		if slices.ContainsFunc(muted, func(m *models.MutedRole) bool { return slices.Contains(i.Member.Roles, m.RoleID) }) {
			log.Debug("Skipping invocation of muted member", "uID", d.UserID(), "path", d.Path())
			return
		}
	}

	inv := models.NewInvocation(d, h.now())
	if err := h.dal.Invocations.Create(inv.ID, inv); err != nil {
		log.Warn("Failed to record invocation", "id", inv.ID, "path", inv.Path, "err", err)
	}
}

// Prune deletes all invocations older than the given age and returns the number
// of deleted invocations.
func (h *History) Prune(age time.Duration) (int64, error) {
	cutoff := h.now().Add(-age).Unix()
	log.Info("Pruning history", "age", age, "cutoff", cutoff)

	n, err := h.dal.Invocations.DeleteWhere("created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune failed: %w", err)
	}

	log.Info("History pruned", "deleted", n)
	return n, nil
}

// HandleHistory handles all subcommands of the history command.
func (h *History) HandleHistory(_ *discordgo.Session, d *interaction.Data) *discordgo.InteractionResponse {
	sc, ok := d.Subcommand()
	if !ok {
		return ephemeral("Unknown subcommand.")
	}

	if g, ok := d.SubcommandGroup(); ok {
		if g.Name != "admin" {
			return ephemeral("Unknown subcommand.")
		}
		if !isAdmin(d.Interaction()) {
			return ephemeral("You need the Manage Server permission for this.")
		}

		switch sc.Name {
		case "prune":
			return h.prune(d)
		case "mute":
			return h.mute(d)
		case "unmute":
			return h.unmute(d)
		}
		return ephemeral("Unknown subcommand.")
	}

	limit := defaultLimit
	if v, ok := d.GetInteger("limit"); ok {
		limit = int(min(max(v, 1), maxLimit))
	}

	var (
		invs  []*models.Invocation
		err   error
		title string
	)

	switch sc.Name {
	case "user":
		target, ok := d.GetUser("target")
		if !ok {
			return ephemeral("Missing user.")
		}
		title = "Recent commands by " + target.Mention()
		invs, err = h.dal.Invocations.Where("user_id = ? order by created_at desc limit ?", target.ID, limit)

	case "channel":
		ch, ok := d.GetChannel("channel")
		if !ok {
			return ephemeral("Missing channel.")
		}
		title = "Recent commands in " + ch.Mention()
		invs, err = h.dal.Invocations.Where("channel_id = ? order by created_at desc limit ?", ch.ID, limit)

	case "search":
		q, ok := d.GetString("query")
		q = strings.TrimSpace(q)
		if !ok || q == "" {
			return ephemeral("Missing search query.")
		}
		title = fmt.Sprintf("Recent commands matching `%s`", fmtQuery(q))
		invs, err = h.dal.Invocations.Where("instr(path, ?) > 0 order by created_at desc limit ?", q, limit)

	default:
		return ephemeral("Unknown subcommand.")
	}

	if err != nil {
		log.Warn("History lookup failed", "path", d.Path(), "err", err)
		return ephemeral("Could not retrieve the history.")
	}

	return message(fmtInvocations(title, invs))
}

func (h *History) prune(d *interaction.Data) *discordgo.InteractionResponse {
	days, ok := d.GetNumber("days")
	if !ok || days <= 0 {
		return ephemeral("The number of days must be positive.")
	}
	dryRun, _ := d.GetBool("dry-run")

	age := time.Duration(days * float64(24*time.Hour))
	if dryRun {
		n, err := h.dal.Invocations.CountWhere("created_at < ?", h.now().Add(-age).Unix())
		if err != nil {
			return ephemeral("Could not count invocations.")
		}
		return ephemeral(fmt.Sprintf("Pruning would delete %d invocations.", n))
	}

	n, err := h.Prune(age)
	if err != nil {
		log.Warn("Manual prune failed", "days", days, "err", err)
		return ephemeral("Could not prune the history.")
	}
	return ephemeral(fmt.Sprintf("Deleted %d invocations.", n))
}

func (h *History) mute(d *interaction.Data) *discordgo.InteractionResponse {
	role, ok := d.GetRole("role")
	if !ok {
		return ephemeral("Missing role.")
	}

	var existed bool
	err := h.dal.DB.Transaction(func(tx db.Tx) error {
		txMuted := h.dal.MutedRoles.WithTx(tx)

		if _, err := txMuted.Get(role.ID); err == nil {
			existed = true
			return nil
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		return txMuted.Create(role.ID, models.NewMutedRole(role, h.now()))
	})
	if err != nil {
		log.Warn("Failed to mute role", "rID", role.ID, "err", err)
		return ephemeral("Could not mute the role.")
	}

	if existed {
		return ephemeral(role.Mention() + " is already muted.")
	}
	return ephemeral("Commands by members of " + role.Mention() + " are no longer recorded.")
}

func (h *History) unmute(d *interaction.Data) *discordgo.InteractionResponse {
	role, ok := d.GetRole("role")
	if !ok {
		return ephemeral("Missing role.")
	}

	n, err := h.dal.MutedRoles.DeleteWhere("id = ?", role.ID)
	if err != nil {
		log.Warn("Failed to unmute role", "rID", role.ID, "err", err)
		return ephemeral("Could not unmute the role.")
	}
	if n == 0 {
		return ephemeral(role.Mention() + " is not muted.")
	}
	return ephemeral("Commands by members of " + role.Mention() + " are recorded again.")
}

// HandleWhois describes the mentioned user or role.
func (h *History) HandleWhois(_ *discordgo.Session, d *interaction.Data) *discordgo.InteractionResponse {
	who, ok := d.GetMentionable("who")
	if !ok {
		return ephemeral("Nobody to look up.")
	}

	var sb strings.Builder
	var cnt int64
	var err error

	if who.User != nil {
		fmt.Fprintf(&sb, "%s (`%s`)", who.User.Mention(), who.User.Username)
		if m := who.User.Member; m != nil && m.Nick != "" {
			fmt.Fprintf(&sb, ", known here as **%s**", m.Nick)
		}
		cnt, err = h.dal.Invocations.CountWhere("user_id = ?", who.User.ID)
	} else {
		fmt.Fprintf(&sb, "%s (`%s`)", who.Role.Mention(), who.Role.Name)
		cnt, err = h.dal.MutedRoles.CountWhere("id = ?", who.Role.ID)
		if err == nil && cnt > 0 {
			sb.WriteString(", muted")
		}
		return message(sb.String())
	}

	if err != nil {
		log.Warn("Invocation count failed", "err", err)
		return message(sb.String())
	}

	fmt.Fprintf(&sb, ", %d recorded commands", cnt)
	return message(sb.String())
}

// EchoFile replies with the metadata of the given attachment.
func (h *History) EchoFile(r interaction.Responder, d *interaction.Data) {
	a, ok := d.GetAttachment("file")
	if !ok {
		interaction.Reply(r, d.Interaction(), interaction.Ephemeral("No file attached."))
		return
	}
	spoiler, _ := d.GetBool("spoiler")

	name := a.Filename
	if spoiler {
		name = "||" + name + "||"
	}

	interaction.Reply(r, d.Interaction(), func(data *discordgo.InteractionResponseData) {
		data.Content = fmt.Sprintf("%s: %s, %d bytes", name, a.ContentType, a.Size)
		data.Flags = discordgo.MessageFlagsEphemeral
	})
}

func isAdmin(i *discordgo.Interaction) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageGuild != 0
}

// fmtInvocations formats the given invocations below title, dropping trailing
// lines that would exceed the message length limit.
func fmtInvocations(title string, invs []*models.Invocation) string {
	var sb strings.Builder
	header := "## " + title
	if len(header) > maxTitle {
		header = strings.ToValidUTF8(header[:maxTitle], "") + "…"
	}
	sb.WriteString(header + "\n")

	if len(invs) == 0 {
		sb.WriteString("Nothing recorded.")
		return sb.String()
	}

	for _, inv := range invs {
		line := inv.String() + "\n"
		if sb.Len()+len(line) > maxContent {
			break
		}
		sb.WriteString(line)
	}

	return sb.String()
}

// fmtQuery prepares a search query for display inside a code span.
func fmtQuery(q string) string {
	q = strings.ReplaceAll(q, "`", "'")
	if r := []rune(q); len(r) > maxQuery {
		q = string(r[:maxQuery]) + "…"
	}
	return q
}

func message(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	}
}

func ephemeral(content string) *discordgo.InteractionResponse {
	resp := message(content)
	resp.Data.Flags = discordgo.MessageFlagsEphemeral
	return resp
}
