/*
Package runner implements the interactive terminal loop of the tutor.

It bridges a tutor.Tutor and the outside world: lines read from the user are either
slash commands (/topics, /topic <id>, /lesson, /chat, /quiz, /reset, /help, /quit)
or questions relayed to the model. Output goes through a pluggable IOHandler, so the
same loop serves humans (TextHandler) and programs (JSONHandler, one JSON event per line).

# Usage

	r := runner.NewRunner(t,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithInitialTopic("t1-1"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
