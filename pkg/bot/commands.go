package bot

import (
	"fmt"

	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Command names without the leading slash.
const (
	CommandStart             = "start"
	CommandAllPools          = "all_pools"
	CommandConcentratedPools = "concentrated_pools"
	CommandStandardPools     = "standard_pools"
)

// commandPoolTypes maps listing commands to their pool type filter.
var commandPoolTypes = map[string]pools.PoolType{
	CommandAllPools:          pools.PoolTypeAll,
	CommandConcentratedPools: pools.PoolTypeConcentrated,
	CommandStandardPools:     pools.PoolTypeStandard,
}

// BotCommands returns the command menu published to Telegram.
func BotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: CommandStart, Description: "Start the bot"},
		{Command: CommandAllPools, Description: "View all available liquidity pools on Raydium"},
		{Command: CommandConcentratedPools, Description: "View all concentrated liquidity pools on Raydium"},
		{Command: CommandStandardPools, Description: "View all standard liquidity pools on Raydium"},
	}
}

// RegisterCommands publishes the command menu with setMyCommands.
func RegisterCommands(sender Sender) error {
	resp, err := sender.Request(tgbotapi.NewSetMyCommands(BotCommands()...))
	if err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}
	if resp != nil && !resp.Ok {
		return fmt.Errorf("set my commands: %s", resp.Description)
	}
	return nil
}
