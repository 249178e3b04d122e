package interaction

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func command(opts []*Option, res *discordgo.ApplicationCommandInteractionDataResolved) *Data {
	return New(&discordgo.Interaction{
		ID:   "1",
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name:     "cmd",
			Options:  opts,
			Resolved: res,
		},
	})
}

func sub(name string, opts ...*Option) *Option {
	return &Option{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts}
}

func group(name string, opts ...*Option) *Option {
	return &Option{Name: name, Type: discordgo.ApplicationCommandOptionSubCommandGroup, Options: opts}
}

func leaf(name string, kind discordgo.ApplicationCommandOptionType, v any) *Option {
	return &Option{Name: name, Type: kind, Value: v}
}

func TestCreateScenario(t *testing.T) {
	d := command([]*Option{
		sub("create",
			leaf("name", discordgo.ApplicationCommandOptionString, "foo"),
			leaf("count", discordgo.ApplicationCommandOptionInteger, float64(3)),
		),
	}, nil)

	if v, ok := d.GetString("name"); !ok || v != "foo" {
		t.Fatalf("GetString(name) = %q, %v; want foo, true", v, ok)
	}
	if v, ok := d.GetInteger("count"); !ok || v != 3 {
		t.Fatalf("GetInteger(count) = %d, %v; want 3, true", v, ok)
	}
	if _, ok := d.GetBool("count"); ok {
		t.Fatal("GetBool(count) must not match an integer option")
	}
	if _, ok := d.GetString("missing"); ok {
		t.Fatal("GetString(missing) must be absent")
	}
	if sc, ok := d.Subcommand(); !ok || sc.Name != "create" {
		t.Fatalf("Subcommand() = %v, %v; want create", sc, ok)
	}
	if _, ok := d.SubcommandGroup(); ok {
		t.Fatal("SubcommandGroup() must be absent")
	}
	if p := d.Path(); p != "cmd create" {
		t.Fatalf("Path() = %q", p)
	}
}

func TestAdminBanScenario(t *testing.T) {
	u := &discordgo.User{ID: "42", Username: "u"}
	d := command([]*Option{
		group("admin",
			sub("ban",
				leaf("target", discordgo.ApplicationCommandOptionUser, "42"),
			),
		),
	}, &discordgo.ApplicationCommandInteractionDataResolved{
		Users: map[string]*discordgo.User{"42": u},
	})

	got, ok := d.GetUser("target")
	if !ok || got.User != u || got.Member != nil {
		t.Fatalf("GetUser(target) = %+v, %v; want (u, nil), true", got, ok)
	}
	if g, ok := d.SubcommandGroup(); !ok || g.Name != "admin" {
		t.Fatalf("SubcommandGroup() = %v, %v; want admin", g, ok)
	}
	if sc, ok := d.Subcommand(); !ok || sc.Name != "ban" {
		t.Fatalf("Subcommand() = %v, %v; want ban", sc, ok)
	}
	if p := d.Path(); p != "cmd admin ban" {
		t.Fatalf("Path() = %q", p)
	}
}

func TestEffectiveOptions(t *testing.T) {
	str := discordgo.ApplicationCommandOptionString

	tests := []struct {
		name string
		opts []*Option
		want string
		ok   bool
	}{
		{
			name: "flat",
			opts: []*Option{leaf("a", str, "top")},
			want: "top",
			ok:   true,
		},
		{
			name: "empty",
			opts: nil,
		},
		{
			name: "subcommand ignores siblings",
			opts: []*Option{
				sub("s", leaf("b", str, "inner")),
				leaf("a", str, "top"),
			},
			ok: false,
		},
		{
			name: "subcommand children",
			opts: []*Option{
				sub("s", leaf("a", str, "inner")),
				leaf("a", str, "top"),
			},
			want: "inner",
			ok:   true,
		},
		{
			name: "group uses first child only",
			opts: []*Option{
				group("g",
					sub("first", leaf("a", str, "first")),
					sub("second", leaf("a", str, "second")),
				),
			},
			want: "first",
			ok:   true,
		},
		{
			name: "group without children",
			opts: []*Option{group("g")},
		},
		{
			name: "subcommand not first",
			opts: []*Option{
				leaf("a", str, "top"),
				sub("s", leaf("a", str, "inner")),
			},
			want: "top",
			ok:   true,
		},
		{
			name: "first match wins",
			opts: []*Option{
				leaf("a", str, "one"),
				leaf("a", str, "two"),
			},
			want: "one",
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := command(tt.opts, nil).GetString("a")
			if ok != tt.ok || got != tt.want {
				t.Fatalf("GetString(a) = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSubcommandGroupTopLevelOnly(t *testing.T) {
	d := command([]*Option{
		sub("s", group("nested")),
	}, nil)

	if _, ok := d.SubcommandGroup(); ok {
		t.Fatal("nested groups must not be reported")
	}
}

func TestSubcommandPrefersTopLevel(t *testing.T) {
	d := command([]*Option{
		group("g", sub("inner")),
		sub("outer"),
	}, nil)

	if sc, ok := d.Subcommand(); !ok || sc.Name != "outer" {
		t.Fatalf("Subcommand() = %v, %v; want outer", sc, ok)
	}
}

func TestKindMismatch(t *testing.T) {
	d := command([]*Option{
		leaf("x", discordgo.ApplicationCommandOptionString, "str"),
	}, nil)

	if _, ok := d.GetInteger("x"); ok {
		t.Fatal("GetInteger must not match a string option")
	}
	if _, ok := d.GetNumber("x"); ok {
		t.Fatal("GetNumber must not match a string option")
	}
	if _, ok := d.GetUser("x"); ok {
		t.Fatal("GetUser must not match a string option")
	}
}

func TestResolvedTypes(t *testing.T) {
	u := &discordgo.User{ID: "u1"}
	m := &discordgo.Member{Nick: "nick"}
	ch := &discordgo.Channel{ID: "c1", Name: "general"}
	r := &discordgo.Role{ID: "r1", Name: "mods"}
	a := &discordgo.MessageAttachment{ID: "a1", Filename: "log.txt"}

	d := command([]*Option{
		leaf("bool", discordgo.ApplicationCommandOptionBoolean, true),
		leaf("num", discordgo.ApplicationCommandOptionNumber, 1.5),
		leaf("int", discordgo.ApplicationCommandOptionInteger, int64(7)),
		leaf("user", discordgo.ApplicationCommandOptionUser, "u1"),
		leaf("channel", discordgo.ApplicationCommandOptionChannel, "c1"),
		leaf("role", discordgo.ApplicationCommandOptionRole, "r1"),
		leaf("file", discordgo.ApplicationCommandOptionAttachment, "a1"),
		leaf("who", discordgo.ApplicationCommandOptionMentionable, "r1"),
	}, &discordgo.ApplicationCommandInteractionDataResolved{
		Users:       map[string]*discordgo.User{"u1": u},
		Members:     map[string]*discordgo.Member{"u1": m},
		Channels:    map[string]*discordgo.Channel{"c1": ch},
		Roles:       map[string]*discordgo.Role{"r1": r},
		Attachments: map[string]*discordgo.MessageAttachment{"a1": a},
	})

	if v, ok := d.GetBool("bool"); !ok || !v {
		t.Errorf("GetBool = %v, %v", v, ok)
	}
	if v, ok := d.GetNumber("num"); !ok || v != 1.5 {
		t.Errorf("GetNumber = %v, %v", v, ok)
	}
	if v, ok := d.GetInteger("int"); !ok || v != 7 {
		t.Errorf("GetInteger = %v, %v", v, ok)
	}
	if v, ok := d.GetUser("user"); !ok || v.User != u || v.Member == nil || v.Member.Nick != "nick" || v.Member.User != u {
		t.Errorf("GetUser = %+v, %v", v, ok)
	}
	if m.User != nil {
		t.Error("resolved member must not be modified")
	}
	if v, ok := d.GetChannel("channel"); !ok || v != ch {
		t.Errorf("GetChannel = %v, %v", v, ok)
	}
	if v, ok := d.GetRole("role"); !ok || v != r {
		t.Errorf("GetRole = %v, %v", v, ok)
	}
	if v, ok := d.GetAttachment("file"); !ok || v != a {
		t.Errorf("GetAttachment = %v, %v", v, ok)
	}
	if v, ok := d.GetMentionable("who"); !ok || v.Role != r || v.User != nil {
		t.Errorf("GetMentionable = %+v, %v", v, ok)
	}
}

func TestLookupMalformed(t *testing.T) {
	d := command([]*Option{
		leaf("nil", discordgo.ApplicationCommandOptionString, nil),
		leaf("dangling", discordgo.ApplicationCommandOptionUser, "404"),
	}, &discordgo.ApplicationCommandInteractionDataResolved{})

	if _, err := d.Lookup("nil", discordgo.ApplicationCommandOptionString); !errors.Is(err, ErrMalformedOption) {
		t.Errorf("Lookup(nil) err = %v; want ErrMalformedOption", err)
	}
	if _, err := d.Lookup("dangling", discordgo.ApplicationCommandOptionUser); !errors.Is(err, ErrMalformedOption) {
		t.Errorf("Lookup(dangling) err = %v; want ErrMalformedOption", err)
	}
	if _, err := d.Lookup("none", discordgo.ApplicationCommandOptionUser); !errors.Is(err, ErrNoOption) {
		t.Errorf("Lookup(none) err = %v; want ErrNoOption", err)
	}
	if _, ok := d.GetString("nil"); ok {
		t.Error("GetString on a malformed option must be absent")
	}
}

func TestNonCommandInteraction(t *testing.T) {
	d := New(&discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "btn"},
	})

	if d.IsCommand() {
		t.Fatal("component interactions are not commands")
	}
	if _, ok := d.GetString("a"); ok {
		t.Fatal("lookups on non-commands must be absent")
	}
	if _, ok := d.Subcommand(); ok {
		t.Fatal("Subcommand on non-commands must be absent")
	}
	if _, err := d.Lookup("a", discordgo.ApplicationCommandOptionString); !errors.Is(err, ErrNotCommand) {
		t.Fatalf("Lookup() err = %v; want ErrNotCommand", err)
	}

	if New(nil).IsCommand() {
		t.Fatal("nil interaction is not a command")
	}
}

func TestUserID(t *testing.T) {
	guild := New(&discordgo.Interaction{Member: &discordgo.Member{User: &discordgo.User{ID: "m"}}})
	dm := New(&discordgo.Interaction{User: &discordgo.User{ID: "d"}})

	if id := guild.UserID(); id != "m" {
		t.Errorf("guild UserID() = %q", id)
	}
	if id := dm.UserID(); id != "d" {
		t.Errorf("dm UserID() = %q", id)
	}
}
