/*
Package session keeps the live tutoring conversations of a process.

Conversations are held in memory only. Every mutation runs under a per-conversation lock
so two questions sent to the same conversation are answered one after the other, while
different conversations proceed in parallel. Lock entries are reference counted and
dropped once no caller holds them.
*/
package session
