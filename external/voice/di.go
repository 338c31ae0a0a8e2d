package voice

import (
	"github.com/foxseedlab/radiobot/internal/audio"
	"github.com/foxseedlab/radiobot/internal/discord"
	"github.com/foxseedlab/radiobot/internal/voice"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Engine, error) {
		dc := do.MustInvoke[discord.Client](i)
		opener := do.MustInvoke[audio.StreamOpener](i)
		newEncoder := do.MustInvoke[audio.EncoderFactory](i)
		return NewEngine(dc, opener, newEncoder), nil
	})
	do.Provide(injector, func(i do.Injector) (voice.Engine, error) {
		return do.MustInvoke[*Engine](i), nil
	})
}
