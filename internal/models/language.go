package models

import "fmt"

// ProgrammingLanguage identifies the declared language of a submission.
type ProgrammingLanguage string

const (
	LangPython     ProgrammingLanguage = "python"
	LangJava       ProgrammingLanguage = "java"
	LangC          ProgrammingLanguage = "c"
	LangCPP        ProgrammingLanguage = "cpp"
	LangJavaScript ProgrammingLanguage = "javascript"
	LangTypeScript ProgrammingLanguage = "typescript"
	LangJSX        ProgrammingLanguage = "jsx"
	LangTSX        ProgrammingLanguage = "tsx"
)

// SupportedLanguages lists every language the analyzer accepts.
var SupportedLanguages = []ProgrammingLanguage{
	LangPython,
	LangJava,
	LangC,
	LangCPP,
	LangJavaScript,
	LangTypeScript,
	LangJSX,
	LangTSX,
}

// ParseLanguage validates a raw language string. Unsupported languages are
// rejected before any analysis work begins.
func ParseLanguage(raw string) (ProgrammingLanguage, error) {
	lang := ProgrammingLanguage(raw)
	for _, supported := range SupportedLanguages {
		if lang == supported {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
}
