/*
Package markdown turns model replies into display blocks.

It understands exactly three constructs: fenced code blocks (three backticks, an optional
language tag and a newline), paragraphs separated by a blank line, and inline bold emphasis
delimited by a pair of double asterisks. Anything else is passed through as literal text.

	blocks := markdown.Render("Hello\n\n**World**\n\n```cpp\nint x = 1;\n```")
	nodes := markdown.Present(blocks)

Render never fails: every input string has a defined block sequence, and the same input always
yields the same blocks. The package holds no state and is safe for concurrent use.

Callers must supply complete text. A fence split across two partial buffers does not match and
is rendered as plain text.
*/
package markdown
