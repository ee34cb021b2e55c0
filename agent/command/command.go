// Package command recognizes the agent control phrases typed into the console.
package command

import "strings"

type Command int

const (
	None Command = iota
	AgentOn
	AgentOff
)

const (
	PhraseOn  = "AI ON"
	PhraseOff = "AI OFF"
)

const (
	confirmOnText  = "Agent_Status এখন ON। সব ইনকোয়ারিতে সাথে সাথেই রিপ্লাই করা হবে।"
	confirmOffText = "Agent_Status এখন OFF। আমি এখন সাইলেন্ট মোডে আছি।"
)

// Parse matches raw against the control phrases after trimming and upper-casing.
// Near matches such as "AI  ON" or "AI ON please" are not commands.
func Parse(raw string) Command {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case PhraseOn:
		return AgentOn
	case PhraseOff:
		return AgentOff
	default:
		return None
	}
}

func (c Command) String() string {
	switch c {
	case AgentOn:
		return PhraseOn
	case AgentOff:
		return PhraseOff
	default:
		return ""
	}
}

// Confirmation is the system notice appended after the command is applied.
func (c Command) Confirmation() string {
	switch c {
	case AgentOn:
		return confirmOnText
	case AgentOff:
		return confirmOffText
	default:
		return ""
	}
}
