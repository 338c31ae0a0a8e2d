package audio

import (
	"github.com/foxseedlab/radiobot/internal/audio"
	"github.com/foxseedlab/radiobot/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.ProvideValue(injector, audio.EncoderFactory(NewOpusEncoder))
	do.Provide(injector, func(i do.Injector) (audio.StreamOpener, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewFFmpegOpener(c.FFmpegPath), nil
	})
}
