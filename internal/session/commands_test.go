package session

import (
	"slices"
	"testing"

	"github.com/foxseedlab/radiobot/internal/discord"
)

func TestSlashCommandDefinitions(t *testing.T) {
	defs := SlashCommandDefinitions(80)

	names := SlashCommandNames(defs)
	for _, want := range []string{commandJoin, commandPlay, commandStop, commandDisconnect, commandVolume, commandEcho} {
		if !slices.Contains(names, want) {
			t.Fatalf("missing command %q in %v", want, names)
		}
	}

	var volume discord.SlashCommandDefinition
	for _, def := range defs {
		if def.Name == commandVolume {
			volume = def
		}
	}
	if len(volume.Options) != 1 {
		t.Fatalf("unexpected volume options: %+v", volume.Options)
	}
	opt := volume.Options[0]
	if opt.Type != discord.OptionInteger || opt.Required || opt.MaxValue != 80 {
		t.Fatalf("unexpected volume option: %+v", opt)
	}
	if opt.MinValue == nil || *opt.MinValue != 0 {
		t.Fatalf("expected min value 0, got %v", opt.MinValue)
	}
}
