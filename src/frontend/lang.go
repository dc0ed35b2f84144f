package frontend

import "unicode/utf8"

type reservedItem struct {
	val string
	typ itemType
}

// Token types that are not a single punctuation rune. Single rune tokens use the rune as their type.
const (
	itemIdentifier itemType = utf8.MaxRune + 1 + iota
	itemInteger
	itemFloat
	itemString
	itemTypeName // int, float, str or bool.
	itemBool     // true or false.
	itemIf
	itemDo
	itemEnd
	itemFun
	itemEnum
	itemEQ // ==
	itemNE // !=
	itemGE // >=
	itemLE // <=
)

// itemNames provides print friendly names of the named token types.
var itemNames = map[itemType]string{
	itemEOF:        "EOF",
	itemError:      "ERROR",
	itemIdentifier: "IDENTIFIER",
	itemInteger:    "INTEGER",
	itemFloat:      "FLOAT",
	itemString:     "STRING",
	itemTypeName:   "TYPE",
	itemBool:       "BOOL",
	itemIf:         "IF",
	itemDo:         "DO",
	itemEnd:        "END",
	itemFun:        "FUN",
	itemEnum:       "ENUM",
	itemEQ:         "EQ",
	itemNE:         "NE",
	itemGE:         "GE",
	itemLE:         "LE",
}

// rw contains the set of all reserved keywords.
// The first dimension equals the length of the word.
// The second dimension is the slice of all words of that length.
// Indexing by length and searching should be faster than using a hash table.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{
		{val: "do", typ: itemDo},
		{val: "if", typ: itemIf},
	},
	// Three-grams
	{
		{val: "end", typ: itemEnd},
		{val: "fun", typ: itemFun},
		{val: "int", typ: itemTypeName},
		{val: "str", typ: itemTypeName},
	},
	// Four-grams
	{
		{val: "bool", typ: itemTypeName},
		{val: "enum", typ: itemEnum},
		{val: "true", typ: itemBool},
	},
	// Five-grams
	{
		{val: "float", typ: itemTypeName},
		{val: "false", typ: itemBool},
	},
}

// isKeyword returns true if the string s is a reserved keyword.
// On the return of true the itemType of the keyword is returned.
// On the return of false the itemType is either itemIdentifier or itemError.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 {
		return false, itemError
	}
	if len(s) > len(rw) {
		return false, itemIdentifier
	}

	// Check if string s is a reserved word by iterating over all words in rw of length len(s).
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, itemIdentifier
}

// tokenName returns a print friendly name of token type typ.
func tokenName(typ itemType) string {
	if s, ok := itemNames[typ]; ok {
		return s
	}
	return string(rune(typ))
}
