/*
Package ports defines the driven ports (interfaces) for the mentor tutor.

These interfaces decouple the conversation controller from the model provider, the curriculum
source and the lesson cache, so each can be substituted with a fake in tests.

# Key Interfaces

  - ModelClient: Creates model sessions and sends messages or one-shot prompts.
  - CurriculumSource: Provides the read-only course catalog.
  - LessonCache: Stores generated lesson text by topic.
  - DistributedLocker: Coordinates lesson generation across replicas.
*/
package ports
