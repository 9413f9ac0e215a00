package language

import (
	"github.com/argus-grade/argus/internal/models"
)

// profile captures everything the shared lexer and parsers need to know
// about one language: keyword set, comment syntax, block style, and which
// keywords introduce function and class scopes.
type profile struct {
	lang          models.ProgrammingLanguage
	keywords      map[string]bool
	funcKeywords  map[string]bool
	classKeywords map[string]bool
	boolLiterals  map[string]bool
	nullLiterals  map[string]bool
	lineComments  []string
	blockComments [][2]string
	indentBlocks  bool
	tripleQuotes  bool
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var pythonProfile = &profile{
	lang: models.LangPython,
	keywords: set(
		"and", "as", "assert", "async", "await", "break", "class", "continue",
		"def", "del", "elif", "else", "except", "finally", "for", "from",
		"global", "if", "import", "in", "is", "lambda", "nonlocal", "not",
		"or", "pass", "raise", "return", "try", "while", "with", "yield",
	),
	funcKeywords:  set("def", "lambda"),
	classKeywords: set("class"),
	boolLiterals:  set("True", "False"),
	nullLiterals:  set("None"),
	lineComments:  []string{"#"},
	indentBlocks:  true,
	tripleQuotes:  true,
}

var javaProfile = &profile{
	lang: models.LangJava,
	keywords: set(
		"abstract", "assert", "boolean", "break", "byte", "case", "catch",
		"char", "class", "const", "continue", "default", "do", "double",
		"else", "enum", "extends", "final", "finally", "float", "for", "goto",
		"if", "implements", "import", "instanceof", "int", "interface",
		"long", "native", "new", "package", "private", "protected", "public",
		"return", "short", "static", "strictfp", "super", "switch",
		"synchronized", "this", "throw", "throws", "transient", "try",
		"void", "volatile", "while",
	),
	classKeywords: set("class", "interface", "enum"),
	boolLiterals:  set("true", "false"),
	nullLiterals:  set("null"),
	lineComments:  []string{"//"},
	blockComments: [][2]string{{"/*", "*/"}},
}

var cProfile = &profile{
	lang: models.LangC,
	keywords: set(
		"auto", "break", "case", "char", "const", "continue", "default",
		"do", "double", "else", "enum", "extern", "float", "for", "goto",
		"if", "inline", "int", "long", "register", "restrict", "return",
		"short", "signed", "sizeof", "static", "struct", "switch", "typedef",
		"union", "unsigned", "void", "volatile", "while",
	),
	classKeywords: set("struct", "union", "enum"),
	boolLiterals:  set("true", "false"),
	nullLiterals:  set("NULL"),
	lineComments:  []string{"//"},
	blockComments: [][2]string{{"/*", "*/"}},
}

var cppProfile = &profile{
	lang: models.LangCPP,
	keywords: set(
		"auto", "bool", "break", "case", "catch", "char", "class", "const",
		"constexpr", "continue", "default", "delete", "do", "double", "else",
		"enum", "explicit", "extern", "float", "for", "friend", "goto", "if",
		"inline", "int", "long", "mutable", "namespace", "new", "noexcept",
		"operator", "private", "protected", "public", "register", "return",
		"short", "signed", "sizeof", "static", "struct", "switch", "template",
		"this", "throw", "try", "typedef", "typename", "union", "unsigned",
		"using", "virtual", "void", "volatile", "while",
	),
	classKeywords: set("class", "struct", "union", "enum"),
	boolLiterals:  set("true", "false"),
	nullLiterals:  set("nullptr", "NULL"),
	lineComments:  []string{"//"},
	blockComments: [][2]string{{"/*", "*/"}},
}

var javaScriptProfile = &profile{
	lang: models.LangJavaScript,
	keywords: set(
		"async", "await", "break", "case", "catch", "class", "const",
		"continue", "debugger", "default", "delete", "do", "else", "export",
		"extends", "finally", "for", "function", "if", "import", "in",
		"instanceof", "let", "new", "of", "return", "static", "super",
		"switch", "this", "throw", "try", "typeof", "var", "void", "while",
		"with", "yield",
	),
	funcKeywords:  set("function"),
	classKeywords: set("class"),
	boolLiterals:  set("true", "false"),
	nullLiterals:  set("null", "undefined"),
	lineComments:  []string{"//"},
	blockComments: [][2]string{{"/*", "*/"}},
}

func tsProfile(lang models.ProgrammingLanguage) *profile {
	p := &profile{}
	*p = *javaScriptProfile
	p.lang = lang
	p.keywords = set(
		"abstract", "any", "as", "async", "await", "break", "case", "catch",
		"class", "const", "continue", "debugger", "declare", "default",
		"delete", "do", "else", "enum", "export", "extends", "finally",
		"for", "function", "if", "implements", "import", "in", "instanceof",
		"interface", "is", "keyof", "let", "namespace", "never", "new",
		"number", "of", "private", "protected", "public", "readonly",
		"return", "static", "string", "super", "switch", "this", "throw",
		"try", "type", "typeof", "var", "void", "while", "with", "yield",
	)
	p.classKeywords = set("class", "interface", "enum")
	return p
}

func jsxProfile(lang models.ProgrammingLanguage, base *profile) *profile {
	p := &profile{}
	*p = *base
	p.lang = lang
	return p
}

// profiles is the dispatch table keyed by declared language.
var profiles = map[models.ProgrammingLanguage]*profile{
	models.LangPython:     pythonProfile,
	models.LangJava:       javaProfile,
	models.LangC:          cProfile,
	models.LangCPP:        cppProfile,
	models.LangJavaScript: javaScriptProfile,
	models.LangTypeScript: tsProfile(models.LangTypeScript),
	models.LangJSX:        jsxProfile(models.LangJSX, javaScriptProfile),
	models.LangTSX:        jsxProfile(models.LangTSX, tsProfile(models.LangTSX)),
}

func profileFor(lang models.ProgrammingLanguage) *profile {
	return profiles[lang]
}
