/*
Package template compiles inverse-format templates and matches them against input.

A template is the mirror image of a format string: literal text is matched verbatim and
placeholder markers capture whatever lies between the surrounding literals. The captured
pieces are returned as byte spans into the input and can later be converted into typed
values (see package convert).

# Syntax

	{}              a placeholder, captures one span
	{{ and }}       a literal '{' and '}'
	{:SEP:}         a repeated group: zero or more items separated by SEP
	{:SEP:N}        a repeated group with exactly N items
	{[INNER]:SEP:}  a repeated group whose items are matched against INNER

Inside SEP, "\:" stands for ':' and "\\" for '\'. Inside INNER, "]]" stands for a
literal ']'. INNER is a template of its own and may contain further groups.

Examples:

	"{}-{}"           on "12-34"        captures "12" and "34"
	"a{{literal}}b{}" on "a{literal}bXY" captures "XY"
	"[{:, :}]"        on "[1, 2, 3]"    captures a group of items "1", "2", "3"
	"{[{}={}]:&:}"    on "a=1&b=2"      captures items ("a","1") and ("b","2")

# Matching Rules

 1. A placeholder ends where the next literal first occurs (leftmost match).
    There is no backtracking: "{}-{}" on "1-2-3" captures "1" and "2-3".

 2. A placeholder in last position captures the rest of the input, which may be empty.

 3. A literal that does not follow a placeholder must occur exactly at the cursor.
    Input left over after a trailing literal is an error.

 4. Two captures may not follow each other without a literal between them, because
    the boundary between them would be undecidable.

A compiled *Template is immutable. It can be reused for any number of inputs and shared
between goroutines without locking.
*/
package template
