package language

import (
	"github.com/argus-grade/argus/internal/models"
)

// parse builds the identifier-erased structural tree for a token stream.
// A failure here is recoverable: the caller degrades to the lexical-only
// stream and flags the result.
func parse(tokens []rawToken, prof *profile) (*models.ASTNode, error) {
	if prof.indentBlocks {
		return parseIndent(tokens, prof)
	}
	return parseBraces(tokens, prof)
}

func headerKind(prof *profile, word string) (models.NodeKind, bool) {
	if prof.funcKeywords[word] {
		return models.NodeFunctionDef, true
	}
	if prof.classKeywords[word] {
		return models.NodeClassDef, true
	}
	switch word {
	case "if", "elif":
		return models.NodeIf, true
	case "else":
		return models.NodeElse, true
	case "for":
		return models.NodeFor, true
	case "while", "do":
		return models.NodeWhile, true
	case "switch", "match":
		return models.NodeSwitch, true
	case "case":
		return models.NodeCase, true
	case "try":
		return models.NodeTry, true
	case "catch", "except", "finally":
		return models.NodeCatch, true
	}
	return "", false
}

var assignOps = set("=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", "**=", "//=", ">>>=")

var binaryOps = set(
	"+", "-", "*", "/", "%", "**", "//", "<", ">", "<=", ">=", "==", "!=",
	"===", "!==", "&", "|", "^", "<<", ">>", ">>>",
)

// atomKind maps a non-header token to an expression-level node kind.
// Tokens with no structural weight (punctuation, member access, arrows)
// produce no node.
func atomKind(prof *profile, tok rawToken, nextIsLParen bool) (models.NodeKind, bool) {
	switch tok.kind {
	case models.TokenIdentifier:
		if nextIsLParen {
			return models.NodeCall, true
		}
		return models.NodeIdentifier, true
	case models.TokenLiteral:
		return models.NodeLiteral, true
	case models.TokenKeyword:
		switch tok.text {
		case "return", "yield":
			return models.NodeReturn, true
		case "and", "or", "not":
			return models.NodeBoolOp, true
		}
		return "", false
	case models.TokenOperator:
		switch {
		case tok.text == "&&" || tok.text == "||" || tok.text == "??":
			return models.NodeBoolOp, true
		case assignOps[tok.text]:
			return models.NodeAssign, true
		case binaryOps[tok.text]:
			return models.NodeBinOp, true
		}
	}
	return "", false
}

// matchingParen returns the index just past the ')' matching the '(' at
// open, or -1 if the group never closes.
func matchingParen(tokens []rawToken, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

type braceFrame struct {
	node     *models.ASTNode
	isHeader bool
}

// parseBraces handles the brace-delimited languages (Java, C, C++,
// JavaScript/TypeScript and the JSX variants). Header statements own their
// condition atoms until their block opens or the statement ends; blocks are
// matched by brace depth.
func parseBraces(tokens []rawToken, prof *profile) (*models.ASTNode, error) {
	root := &models.ASTNode{Kind: models.NodeProgram, Line: 1}
	stack := []braceFrame{{node: root}}

	top := func() *models.ASTNode { return stack[len(stack)-1].node }
	appendNode := func(kind models.NodeKind, line int) *models.ASTNode {
		n := &models.ASTNode{Kind: kind, Line: line}
		parent := top()
		parent.Children = append(parent.Children, n)
		return n
	}
	popHeaders := func() {
		for len(stack) > 1 && stack[len(stack)-1].isHeader {
			stack = stack[:len(stack)-1]
		}
	}

	parenDepth, bracketDepth := 0, 0

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.text {
		case "(":
			parenDepth++
		case ")":
			if parenDepth == 0 {
				return nil, &models.ParseError{Language: prof.lang, Line: tok.line, Reason: "unbalanced ')'"}
			}
			parenDepth--
		case "[":
			bracketDepth++
		case "]":
			if bracketDepth == 0 {
				return nil, &models.ParseError{Language: prof.lang, Line: tok.line, Reason: "unbalanced ']'"}
			}
			bracketDepth--
		}

		if tok.kind == models.TokenPunct {
			switch tok.text {
			case "{":
				block := appendNode(models.NodeBlock, tok.line)
				stack = append(stack, braceFrame{node: block})
			case "}":
				popped := false
				for len(stack) > 1 {
					frame := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					if !frame.isHeader {
						popped = true
						break
					}
				}
				if !popped {
					return nil, &models.ParseError{Language: prof.lang, Line: tok.line, Reason: "unbalanced '}'"}
				}
				popHeaders()
			case ";":
				// Semicolons inside parens (for-loop clauses) do not end
				// the header statement.
				if parenDepth == 0 {
					popHeaders()
				}
			}
			continue
		}

		if tok.kind == models.TokenKeyword {
			if kind, ok := headerKind(prof, tok.text); ok {
				n := appendNode(kind, tok.line)
				stack = append(stack, braceFrame{node: n, isHeader: true})
				continue
			}
		}

		// Method and function definitions without an introducing keyword:
		// identifier '(' ... ')' '{'.
		if tok.kind == models.TokenIdentifier && i+1 < len(tokens) && tokens[i+1].text == "(" {
			if after := matchingParen(tokens, i+1); after >= 0 && after < len(tokens) && tokens[after].text == "{" {
				n := appendNode(models.NodeFunctionDef, tok.line)
				stack = append(stack, braceFrame{node: n, isHeader: true})
				continue
			}
		}

		// Arrow function bodies: '=>' '{'.
		if tok.text == "=>" && i+1 < len(tokens) && tokens[i+1].text == "{" {
			n := appendNode(models.NodeFunctionDef, tok.line)
			stack = append(stack, braceFrame{node: n, isHeader: true})
			continue
		}

		nextIsLParen := i+1 < len(tokens) && tokens[i+1].text == "("
		if kind, ok := atomKind(prof, tok, nextIsLParen); ok {
			appendNode(kind, tok.line)
		}
	}

	for _, frame := range stack[1:] {
		if !frame.isHeader {
			return nil, &models.ParseError{Language: prof.lang, Line: frame.node.Line, Reason: "unclosed '{'"}
		}
	}
	if parenDepth != 0 {
		return nil, &models.ParseError{Language: prof.lang, Reason: "unclosed '('"}
	}
	if bracketDepth != 0 {
		return nil, &models.ParseError{Language: prof.lang, Reason: "unclosed '['"}
	}

	return root, nil
}

type indentFrame struct {
	node   *models.ASTNode
	indent int
}

// parseIndent handles Python, where block structure follows indentation.
// Lines continued inside open brackets do not open or close blocks.
func parseIndent(tokens []rawToken, prof *profile) (*models.ASTNode, error) {
	root := &models.ASTNode{Kind: models.NodeProgram, Line: 1}
	stack := []indentFrame{{node: root, indent: -1}}

	top := func() *models.ASTNode { return stack[len(stack)-1].node }
	appendNode := func(kind models.NodeKind, line int) *models.ASTNode {
		n := &models.ASTNode{Kind: kind, Line: line}
		parent := top()
		parent.Children = append(parent.Children, n)
		return n
	}

	parenDepth, bracketDepth, braceDepth := 0, 0, 0
	curLine := 0

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.line != curLine && parenDepth == 0 && bracketDepth == 0 && braceDepth == 0 {
			curLine = tok.line
			for len(stack) > 1 && tok.col <= stack[len(stack)-1].indent {
				stack = stack[:len(stack)-1]
			}
		}

		switch tok.text {
		case "(":
			parenDepth++
		case ")":
			if parenDepth == 0 {
				return nil, &models.ParseError{Language: prof.lang, Line: tok.line, Reason: "unbalanced ')'"}
			}
			parenDepth--
		case "[":
			bracketDepth++
		case "]":
			if bracketDepth == 0 {
				return nil, &models.ParseError{Language: prof.lang, Line: tok.line, Reason: "unbalanced ']'"}
			}
			bracketDepth--
		case "{":
			braceDepth++
		case "}":
			if braceDepth == 0 {
				return nil, &models.ParseError{Language: prof.lang, Line: tok.line, Reason: "unbalanced '}'"}
			}
			braceDepth--
		}

		if tok.kind == models.TokenKeyword {
			if kind, ok := headerKind(prof, tok.text); ok {
				n := appendNode(kind, tok.line)
				stack = append(stack, indentFrame{node: n, indent: tok.col})
				continue
			}
		}

		nextIsLParen := i+1 < len(tokens) && tokens[i+1].text == "("
		if kind, ok := atomKind(prof, tok, nextIsLParen); ok {
			appendNode(kind, tok.line)
		}
	}

	if parenDepth != 0 || bracketDepth != 0 || braceDepth != 0 {
		return nil, &models.ParseError{Language: prof.lang, Reason: "unclosed bracket at end of input"}
	}

	return root, nil
}
