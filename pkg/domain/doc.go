/*
Package domain contains the core models of the tutor.

It defines the course catalog, the conversation a learner has with the tutor and the
model session that backs it. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Curriculum: Modules of Topics, each with the prompt used to generate its lesson.
  - Conversation: The active topic, its lesson, the view and the chat log.
  - Message: One chat entry from the learner, the tutor or the system.
  - ModelSession: The system instruction, settings and history sent to the model.
*/
package domain
