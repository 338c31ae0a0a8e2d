package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	audioimpl "github.com/foxseedlab/radiobot/external/audio"
	"github.com/foxseedlab/radiobot/external/discord"
	repositoryimpl "github.com/foxseedlab/radiobot/external/repository"
	voiceimpl "github.com/foxseedlab/radiobot/external/voice"
	webhookimpl "github.com/foxseedlab/radiobot/external/webhook"
	"github.com/foxseedlab/radiobot/internal/config"
	discordpkg "github.com/foxseedlab/radiobot/internal/discord"
	"github.com/foxseedlab/radiobot/internal/session"
	"github.com/samber/do/v2"
)

const (
	discordConnectTimeout = 20 * time.Second
	shutdownTimeout       = 10 * time.Second
	migrateTimeout        = time.Minute
)

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	voiceimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func runBot(cfg *config.Config) error {
	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve discord client: %w", err)
	}
	engine, err := do.Invoke[*voiceimpl.Engine](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve voice engine: %w", err)
	}
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve session manager: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		return fmt.Errorf("discord connect failed: %w", err)
	}
	slog.Info("startup: discord connected")
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	botUserID, err := dc.GetBotUserID()
	if err != nil {
		return fmt.Errorf("failed to resolve bot user id: %w", err)
	}
	engine.SetBotUserID(botUserID)

	defs := session.SlashCommandDefinitions(cfg.MaxVolume)
	if guildID, ok := cfg.CommandGuildID(); ok {
		if err := dc.UpsertSlashCommands(guildID, defs); err != nil {
			return fmt.Errorf("failed to upsert slash commands (guild_id=%q): %w", guildID, err)
		}
		slog.Info("slash commands registered", "guild_id", guildID, "global", guildID == "", "commands", session.SlashCommandNames(defs))
	} else {
		slog.Warn("slash commands not registered; set DISCORD_PUBLISH_GLOBAL or run with ENV=development")
	}

	dc.RegisterVoiceStateUpdateHandler(engine.HandleVoiceStateUpdate)
	dc.RegisterSlashCommandHandler(manager.HandleSlashCommand)
	slog.Info("discord handlers registered")

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	case <-done:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	manager.Shutdown(shutdownCtx)
	return nil
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	pool, err := repositoryimpl.OpenMigrated(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	pool.Close()
	slog.Info("database migrations applied")
	return nil
}
