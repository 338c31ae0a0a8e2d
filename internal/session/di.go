package session

import (
	"github.com/foxseedlab/radiobot/internal/config"
	"github.com/foxseedlab/radiobot/internal/discord"
	"github.com/foxseedlab/radiobot/internal/repository"
	"github.com/foxseedlab/radiobot/internal/voice"
	"github.com/foxseedlab/radiobot/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		engine := do.MustInvoke[voice.Engine](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewManager(cfg, dc, engine, repo, wh), nil
	})
}
