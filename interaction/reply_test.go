package interaction

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeResponder struct {
	err   error
	calls []*discordgo.InteractionResponse
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.calls = append(f.calls, resp)
	return f.err
}

func TestReply(t *testing.T) {
	r := &fakeResponder{}
	Reply(r, &discordgo.Interaction{ID: "1"}, Ephemeral("hi"))

	if len(r.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(r.calls))
	}

	resp := r.calls[0]
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("unexpected response type %v", resp.Type)
	}
	if resp.Data.Content != "hi" || resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Errorf("unexpected response data %+v", resp.Data)
	}
}

func TestReplyFailureSwallowed(t *testing.T) {
	r := &fakeResponder{err: errors.New("boom")}
	Reply(r, &discordgo.Interaction{ID: "1"}, Content("hi"))

	if len(r.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(r.calls))
	}
}
