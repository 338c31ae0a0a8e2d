package session

import "fmt"

const (
	slashCommandJoinDescription       = "Join your voice channel, or the given one."
	slashCommandPlayDescription       = "Stream a web radio URL into the voice channel."
	slashCommandStopDescription       = "Stop the current stream."
	slashCommandDisconnectDescription = "Leave the voice channel."
	slashCommandVolumeDescription     = "Show or set the volume of this server."
	slashCommandEchoDescription       = "Repeat a message."

	slashOptionChannelDescription = "Voice channel to join"
	slashOptionURLDescription     = "Stream URL"
	slashOptionVolumeDescription  = "Volume in percent"
	slashOptionMessageDescription = "Message to repeat"

	messageGuildOnly           = ":warning: **This command only works in a server.**"
	messageUnknownCommand      = ":warning: **Unknown command.**"
	messageJoinVCFirst         = ":warning: **Join a voice channel first.**"
	messageInvalidURL          = ":warning: **That does not look like a valid stream URL.**"
	messageNotConnected        = ":warning: **I am not in a voice channel.**"
	messageNothingPlaying      = ":warning: **Nothing is playing.**"
	messageCooldown            = ":hourglass: **Slow down a little and try again.**"
	messageGenericFailure      = ":x: **Sorry, something went wrong. Please try again later.**"
	messageStopped             = ":stop_button: **Stopped.**"
	messageDisconnected        = ":wave: **Left the voice channel.**"
	messageEmptyEcho           = ":warning: **Nothing to repeat.**"
	messageJoinedFormat        = ":radio: **Joined** <#%s>"
	messageAlreadyJoinedFormat = ":radio: **Already in** <#%s>"
	messageNowPlayingFormat    = ":arrow_forward: **Now playing** <%s> at %d%%"
	messageVolumeFormat        = ":loud_sound: **Volume is %d%%**"
	messageVolumeSetFormat     = ":loud_sound: **Volume set to %d%%**"
	messageVolumeSavedFormat   = ":loud_sound: **Volume set to %d%%**\n-# Applies to the next stream."
	messageVolumeRangeFormat   = ":warning: **Volume must be between 0 and %d.**"
)

func joinedMessage(channelID string, alreadyJoined bool) string {
	if alreadyJoined {
		return fmt.Sprintf(messageAlreadyJoinedFormat, channelID)
	}
	return fmt.Sprintf(messageJoinedFormat, channelID)
}

func nowPlayingMessage(url string, volume int) string {
	return fmt.Sprintf(messageNowPlayingFormat, url, volume)
}

func volumeMessage(volume int) string {
	return fmt.Sprintf(messageVolumeFormat, volume)
}

func volumeSetMessage(volume int, live bool) string {
	if live {
		return fmt.Sprintf(messageVolumeSetFormat, volume)
	}
	return fmt.Sprintf(messageVolumeSavedFormat, volume)
}

func volumeRangeMessage(maxVolume int) string {
	return fmt.Sprintf(messageVolumeRangeFormat, maxVolume)
}
