// Package naming converts document names (scheme names, API key names,
// parameter names, schema names) into valid host-language identifiers.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser upper-cases the first letter of each word and leaves the rest
// alone, so "apiKey" stays "ApiKey" rather than "Apikey".
var titleCaser = cases.Title(language.English, cases.NoLower)

// reservedWords are the host keywords and builtin type names that must be
// quoted when used as identifiers.
var reservedWords = map[string]bool{
	"abstract": true, "annotation": true, "any": true, "anydata": true, "as": true,
	"ascending": true, "base16": true, "base64": true, "boolean": true, "break": true,
	"by": true, "byte": true, "check": true, "checkpanic": true, "class": true,
	"client": true, "commit": true, "configurable": true, "const": true, "continue": true,
	"decimal": true, "default": true, "descending": true, "distinct": true, "do": true,
	"else": true, "enum": true, "equals": true, "error": true, "external": true,
	"fail": true, "false": true, "field": true, "final": true, "float": true,
	"flush": true, "fork": true, "from": true, "function": true, "future": true,
	"handle": true, "if": true, "import": true, "in": true, "int": true,
	"is": true, "isolated": true, "join": true, "json": true, "let": true,
	"limit": true, "listener": true, "lock": true, "map": true, "match": true,
	"never": true, "new": true, "null": true, "object": true, "on": true,
	"order": true, "outer": true, "panic": true, "private": true, "public": true,
	"readonly": true, "record": true, "remote": true, "resource": true, "retry": true,
	"return": true, "returns": true, "rollback": true, "select": true, "service": true,
	"source": true, "start": true, "stream": true, "string": true, "table": true,
	"transaction": true, "transactional": true, "trap": true, "true": true, "type": true,
	"typedesc": true, "typeof": true, "var": true, "wait": true, "where": true,
	"while": true, "worker": true, "xml": true,
}

var (
	// nonIdentifierChars matches runs of characters that cannot appear in an
	// unquoted identifier.
	nonIdentifierChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	// plainIdentifier matches names that need no rewriting.
	plainIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// IsReserved reports whether name is a host keyword.
func IsReserved(name string) bool {
	return reservedWords[name]
}

// ValidName converts name into a valid identifier. Characters outside
// [a-zA-Z0-9_] act as word separators and the following word is capitalized.
// When typeName is true the first letter is upper-cased, otherwise it is
// lower-cased. Reserved words and names starting with a digit are escaped.
//
// Example: ValidName("X-API-KEY", false) -> "xAPIKEY"
// Example: ValidName("room id", true)    -> "RoomId"
func ValidName(name string, typeName bool) string {
	if name == "" {
		return ""
	}
	if !plainIdentifier.MatchString(name) {
		parts := nonIdentifierChars.Split(name, -1)
		var b strings.Builder
		for _, p := range parts {
			if p == "" {
				continue
			}
			if b.Len() == 0 {
				b.WriteString(p)
				continue
			}
			b.WriteString(titleCaser.String(p))
		}
		name = b.String()
		if name == "" {
			return ""
		}
	}
	if typeName {
		name = upperFirst(name)
	} else {
		name = lowerFirst(name)
	}
	return Escape(name)
}

// Escape quotes name with a leading apostrophe if it is a reserved word or
// starts with a digit. Already quoted names are returned unchanged.
func Escape(name string) string {
	if name == "" || strings.HasPrefix(name, "'") {
		return name
	}
	if reservedWords[name] || unicode.IsDigit([]rune(name)[0]) {
		return "'" + name
	}
	return name
}

// Unescape removes the quoting added by Escape.
func Unescape(name string) string {
	return strings.TrimPrefix(name, "'")
}

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) start a new word.
// Example: "user_profile" -> "UserProfile"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, word := range splitWords(s) {
		b.WriteString(titleCaser.String(word))
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "user_profile" -> "userProfile"
func ToCamelCase(s string) string {
	return lowerFirst(ToPascalCase(s))
}

// TrimHandlerPrefix turns a remote function name such as "onSubscribe" into
// the message name "Subscribe". The second result is false if the name does
// not follow the on<Name> convention.
func TrimHandlerPrefix(fn string) (string, bool) {
	fn = Unescape(fn)
	if len(fn) <= 2 || !strings.HasPrefix(fn, "on") {
		return "", false
	}
	rest := fn[2:]
	if !unicode.IsUpper([]rune(rest)[0]) {
		return "", false
	}
	return rest, true
}

// StripQuotes removes one pair of surrounding double quotes.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == '/' || r == ' '
	})
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
