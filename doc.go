/*
Package mentor is an AI tutoring assistant for a fixed programming curriculum.

A learner picks a topic, reads a generated mini-lesson, and chats with a tutor persona
backed by a hosted language model. Replies are markdown; the markdown package splits them
into text and fenced code blocks with bold spans marked, ready for any display surface.

# Architecture

The core (package tutor) applies conversation operations against two ports: a ModelClient
and a CurriculumSource. Adapters provide the Gemini REST client, an in-memory scripted model,
the embedded YAML catalog, a Loam-backed markdown catalog, and Redis or in-memory lesson caches.
The same service is exposed through a terminal runner, an HTTP API and an MCP server.

# Usage

	cfg, err := config.Load("mentor.yaml")
	if err != nil {
		log.Fatal(err)
	}

	app, err := mentor.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	conv, err := app.Service.Open(ctx, "t1-1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(conv.Lesson)

	reply, err := app.Service.Ask(ctx, conv.ID, "What does UPROPERTY do?")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(reply.Text)

Without an API key the App still starts: conversations open with a system message and
questions are answered with a fixed notice instead of failing.
*/
package mentor
