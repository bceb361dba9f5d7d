package runner

import "strings"

// Command is a parsed slash command.
type Command struct {
	Name string
	Arg  string
}

// Commands understood by the loop.
const (
	CmdTopics = "topics"
	CmdTopic  = "topic"
	CmdLesson = "lesson"
	CmdChat   = "chat"
	CmdQuiz   = "quiz"
	CmdReset  = "reset"
	CmdHelp   = "help"
	CmdQuit   = "quit"
)

// HelpText lists the commands.
const HelpText = `Commands:
  /topics       list the curriculum
  /topic <id>   open a topic and load its lesson
  /lesson       show the current lesson
  /chat         show the conversation
  /quiz         ask for a quiz on the current topic
  /reset        start over
  /help         show this help
  /quit         exit
Anything else is sent to the tutor as a question.`

// ParseCommand reports whether line is a slash command and splits it.
// "/exit" is an alias of /quit.
func ParseCommand(line string) (Command, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return Command{}, false
	}
	name, arg, _ := strings.Cut(line[1:], " ")
	name = strings.ToLower(name)
	if name == "exit" {
		name = CmdQuit
	}
	return Command{Name: name, Arg: strings.TrimSpace(arg)}, true
}
