package session

import "github.com/foxseedlab/radiobot/internal/discord"

const (
	commandJoin       = "join"
	commandPlay       = "play"
	commandStop       = "stop"
	commandDisconnect = "disconnect"
	commandVolume     = "volume"
	commandEcho       = "echo"

	optionChannel = "channel"
	optionURL     = "url"
	optionVolume  = "volume"
	optionMessage = "message"
)

func SlashCommandDefinitions(maxVolume int) []discord.SlashCommandDefinition {
	minVolume := 0
	return []discord.SlashCommandDefinition{
		{
			Name:        commandJoin,
			Description: slashCommandJoinDescription,
			Options: []discord.SlashCommandOption{
				{Name: optionChannel, Description: slashOptionChannelDescription, Type: discord.OptionVoiceChannel},
			},
		},
		{
			Name:        commandPlay,
			Description: slashCommandPlayDescription,
			Options: []discord.SlashCommandOption{
				{Name: optionURL, Description: slashOptionURLDescription, Type: discord.OptionString, Required: true},
			},
		},
		{
			Name:        commandStop,
			Description: slashCommandStopDescription,
		},
		{
			Name:        commandDisconnect,
			Description: slashCommandDisconnectDescription,
		},
		{
			Name:        commandVolume,
			Description: slashCommandVolumeDescription,
			Options: []discord.SlashCommandOption{
				{
					Name:        optionVolume,
					Description: slashOptionVolumeDescription,
					Type:        discord.OptionInteger,
					MinValue:    &minVolume,
					MaxValue:    maxVolume,
				},
			},
		},
		{
			Name:        commandEcho,
			Description: slashCommandEchoDescription,
			Options: []discord.SlashCommandOption{
				{Name: optionMessage, Description: slashOptionMessageDescription, Type: discord.OptionString, Required: true},
			},
		},
	}
}

func SlashCommandNames(defs []discord.SlashCommandDefinition) []string {
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	return names
}
