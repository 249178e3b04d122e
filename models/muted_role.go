package models

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// MutedRole is a role whose members' invocations are not recorded.
type MutedRole struct {
	RoleID  string `db:"id"`
	Name    string `db:"name"`
	MutedAt int64  `db:"muted_at"`
}

// NewMutedRole creates a [MutedRole] for the given role.
func NewMutedRole(r *discordgo.Role, at time.Time) *MutedRole {
	return &MutedRole{r.ID, r.Name, at.Unix()}
}

func (m *MutedRole) Scan() []any {
	return []any{&m.RoleID, &m.Name, &m.MutedAt}
}
