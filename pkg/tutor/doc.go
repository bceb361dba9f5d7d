/*
Package tutor drives a tutoring conversation.

A Tutor owns the collaborators (model client, curriculum, lesson cache, locker) and applies
the conversation operations to a domain.Conversation: starting it, selecting a topic and
generating its lesson, relaying questions to the model, and switching views.

Model failures never reach the caller as errors. They are replaced by fixed, readable
messages so the conversation can continue; nothing is retried automatically.

Service binds a Tutor to a session.Manager for callers that address conversations by ID,
such as the HTTP and MCP adapters.
*/
package tutor
