package tutor

import "fmt"

// Texts shown in place of a model reply.
const (
	MissingCredentialsText = "Error: the API key is missing or invalid. Please check your environment configuration."
	UnavailableText        = "The AI tutor is unavailable. Configure an API key and start a new conversation."
	LessonFailedText       = "Failed to load the lesson content. Please try again."
	LessonEmptyText        = "Could not generate lesson content."
	ChatFailedText         = "Something went wrong talking to the AI tutor. Please check your network connection or API key."
	NoReplyText            = "Sorry, I could not generate a reply."
)

// WelcomeText greets the learner at the start of a conversation.
func WelcomeText(courseTitle string) string {
	if courseTitle == "" {
		courseTitle = "your course"
	}
	return fmt.Sprintf("**Welcome to %s!**\n\nI am your AI tutor. Pick a topic to start learning, or ask me anything right here.", courseTitle)
}

// LessonPrompt asks the model for a mini-lesson on the topic's prompt context.
func LessonPrompt(promptContext string) string {
	return fmt.Sprintf("Provide a structured mini-lesson on: %s. Include clear explanations and code examples.", promptContext)
}

// QuizText is the prefilled request for a quiz on a topic.
func QuizText(topicTitle string) string {
	return fmt.Sprintf("Give me a quiz question about %s.", topicTitle)
}
