package bot

import "strings"

// commandKind is the closed set of inbound message shapes. Everything with a
// leading slash that is not /start or /broadcast is treated as a shorten
// attempt, matching the bot's historical behavior; plain text is a bare URL.
type commandKind int

const (
	cmdBare commandKind = iota
	cmdStart
	cmdBroadcast
	cmdShorten
)

// command is one parsed message: the kind, the literal command token (kept
// for usage hints), the whitespace-split arguments, and the raw tail after
// the token (broadcast wants the message verbatim, not re-joined fields).
type command struct {
	kind  commandKind
	token string
	args  []string
	tail  string
}

func parseCommand(text string) command {
	trimmed := strings.TrimSpace(text)

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return command{kind: cmdBare}
	}

	first := fields[0]
	if !strings.HasPrefix(first, "/") {
		return command{kind: cmdBare, args: fields, tail: trimmed}
	}

	// Group chats suffix commands with the bot name: "/start@MyBot".
	name := strings.TrimPrefix(first, "/")
	if at := strings.Index(name, "@"); at != -1 {
		name = name[:at]
	}

	cmd := command{
		token: first,
		args:  fields[1:],
		tail:  strings.TrimSpace(strings.TrimPrefix(trimmed, first)),
	}

	switch name {
	case "start":
		cmd.kind = cmdStart
	case "broadcast":
		cmd.kind = cmdBroadcast
	default:
		cmd.kind = cmdShorten
	}

	return cmd
}

// Callback data values baked into the inline keyboards we send out.
const (
	callbackShowHelp = "show_help"
	callbackCopyInfo = "copy_link_info"
)

// callbackAction is the closed set of recognized button presses. Unknown data
// still gets acknowledged — every callback must clear its pending state.
type callbackAction int

const (
	actionUnknown callbackAction = iota
	actionShowHelp
	actionCopyInfo
)

func parseCallback(data string) callbackAction {
	switch data {
	case callbackShowHelp:
		return actionShowHelp
	case callbackCopyInfo:
		return actionCopyInfo
	default:
		return actionUnknown
	}
}
