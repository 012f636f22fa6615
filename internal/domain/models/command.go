package models

import "strings"

// CommandType enumerates the chat commands farm workers can send.
type CommandType string

const (
	CommandMilk    CommandType = "milk"
	CommandHealth  CommandType = "health"
	CommandIncome  CommandType = "income"
	CommandExpense CommandType = "expense"
	CommandStock   CommandType = "stock"
	CommandSummary CommandType = "summary"
	CommandAlerts  CommandType = "alerts"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"milk":     CommandMilk,
	"health":   CommandHealth,
	"income":   CommandIncome,
	"expense":  CommandExpense,
	"expenses": CommandExpense,
	"stock":    CommandStock,
	"summary":  CommandSummary,
	"alerts":   CommandAlerts,
	"help":     CommandHelp,
}

// Command is a parsed chat instruction.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand splits a chat message into a command keyword and arguments. The keyword is
// case-insensitive and may carry a leading slash; arguments keep their original case.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}
	tokens := strings.Fields(message)
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if t, ok := commandAliases[head]; ok {
		cmd.Type = t
	}
	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
