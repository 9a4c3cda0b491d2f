package vocab

// DefaultEntries returns the built-in demonstration vocabulary, weighted
// roughly like code-completion output. Used when no vocabulary file is
// supplied to the CLI or server.
func DefaultEntries() []Entry {
	return []Entry{
		{Text: "def", Weight: 6},
		{Text: "func", Weight: 6},
		{Text: "return", Weight: 5},
		{Text: "if", Weight: 4},
		{Text: "for", Weight: 4},
		{Text: "class", Weight: 3},
		{Text: "import", Weight: 3},
		{Text: " main", Weight: 5},
		{Text: " value", Weight: 4},
		{Text: " result", Weight: 4},
		{Text: " self", Weight: 3},
		{Text: " x", Weight: 3},
		{Text: " i", Weight: 3},
		{Text: "(", Weight: 5},
		{Text: ")", Weight: 5},
		{Text: "()", Weight: 4},
		{Text: ":", Weight: 5},
		{Text: "=", Weight: 4},
		{Text: "==", Weight: 2},
		{Text: ",", Weight: 3},
		{Text: ".", Weight: 3},
		{Text: " ", Weight: 8},
		{Text: "\n", Weight: 6},
		{Text: "\t", Weight: 3},
		{Text: "0", Weight: 2},
		{Text: "1", Weight: 2},
		{Text: "in", Weight: 2},
		{Text: "not", Weight: 2},
		{Text: "None", Weight: 2},
		{Text: "True", Weight: 1},
		{Text: "False", Weight: 1},
	}
}
