// Package parser implements the recursive-descent parser that builds a
// syntax.Cmd tree from a command line, per spec.md §4.2:
//
//	line     := pipe ('&')* (';' line)?
//	pipe     := exec ('|' pipe)?
//	exec     := '(' line ')' redr*        -- subshell
//	          | redr* (arg redr*)+        -- command with redirections
//	redr     := ('<' | '>' | '>>') arg
package parser

import (
	"fmt"

	"github.com/JuanjoMorell/simplesh/syntax"
)

// SyntaxError reports a parse failure. The caller discards the partial
// AST and re-prompts; the parser never attempts recovery (spec.md §4.2).
type SyntaxError struct {
	Func string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: error sintáctico: %s", e.Func, e.Msg)
}

// MaxArgsError is returned when an ExecCmd would exceed syntax.MaxArgs
// arguments; spec.md §4.2 treats this as fatal to the whole shell.
type MaxArgsError struct{}

func (*MaxArgsError) Error() string { return "parse_exec: demasiados argumentos" }

// Parse runs the full parse_cmd contract: it parses src as one command
// line and verifies that only whitespace remains afterward.
func Parse(src []byte) (syntax.Cmd, error) {
	p := &parser{lex: syntax.NewLexer(src)}
	cmd, err := p.parseLine()
	if err != nil {
		return nil, err
	}
	if !p.lex.AtEOF() {
		return nil, &SyntaxError{Func: "parse_cmd", Msg: "se esperaba el final de la línea"}
	}
	return cmd, nil
}

type parser struct {
	lex *syntax.Lexer
}

func (p *parser) parseLine() (syntax.Cmd, error) {
	cmd, err := p.parsePipe()
	if err != nil {
		return nil, err
	}

	for p.lex.Peek("&") {
		p.lex.Next() // consume '&'
		cmd = &syntax.BackCmd{Cmd: cmd}
	}

	if p.lex.Peek(";") {
		if syntax.IsEmptyExec(cmd) {
			return nil, &SyntaxError{Func: "parse_line", Msg: "no se encontró comando"}
		}
		p.lex.Next() // consume ';'
		right, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		if syntax.IsEmptyExec(right) {
			return nil, &SyntaxError{Func: "parse_line", Msg: "no se encontró comando"}
		}
		cmd = &syntax.ListCmd{Left: cmd, Right: right}
	}

	return cmd, nil
}

func (p *parser) parsePipe() (syntax.Cmd, error) {
	cmd, err := p.parseExec()
	if err != nil {
		return nil, err
	}

	if p.lex.Peek("|") {
		if syntax.IsEmptyExec(cmd) {
			return nil, &SyntaxError{Func: "parse_pipe", Msg: "no se encontró comando"}
		}
		p.lex.Next() // consume '|'
		right, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		if syntax.IsEmptyExec(right) {
			return nil, &SyntaxError{Func: "parse_pipe", Msg: "no se encontró comando"}
		}
		cmd = &syntax.PipeCmd{Left: cmd, Right: right}
	}

	return cmd, nil
}

func (p *parser) parseExec() (syntax.Cmd, error) {
	if p.lex.Peek("(") {
		return p.parseSubshell()
	}

	var cmd syntax.Cmd = &syntax.ExecCmd{}
	cmd, err := p.parseRedirs(cmd)
	if err != nil {
		return nil, err
	}

	exec := cmd.(*syntax.ExecCmd)
	for !p.lex.Peek("|)&;") {
		tok, start, end := p.lex.Next()
		if tok == syntax.EOF {
			break
		}
		if tok != syntax.WORD {
			return nil, &SyntaxError{Func: "parse_exec", Msg: "se esperaba un argumento"}
		}
		exec.Args = append(exec.Args, &syntax.Word{Start: start, End: end})
		if len(exec.Args) > syntax.MaxArgs {
			return nil, &MaxArgsError{}
		}

		cmd, err = p.parseRedirs(cmd)
		if err != nil {
			return nil, err
		}
	}

	return cmd, nil
}

func (p *parser) parseSubshell() (syntax.Cmd, error) {
	if !p.lex.Peek("(") {
		return nil, &SyntaxError{Func: "parse_subs", Msg: "se esperaba '('"}
	}
	p.lex.Next() // consume '('

	inner, err := p.parseLine()
	if err != nil {
		return nil, err
	}

	if !p.lex.Peek(")") {
		return nil, &SyntaxError{Func: "parse_subs", Msg: "se esperaba ')'"}
	}
	p.lex.Next() // consume ')'

	var cmd syntax.Cmd = &syntax.SubshellCmd{Cmd: inner}
	return p.parseRedirs(cmd)
}

func (p *parser) parseRedirs(cmd syntax.Cmd) (syntax.Cmd, error) {
	for p.lex.Peek("<>") {
		tok, _, _ := p.lex.Next()

		ftok, fstart, fend := p.lex.Next()
		if ftok != syntax.WORD {
			return nil, &SyntaxError{Func: "parse_redr", Msg: "se esperaba un fichero"}
		}
		file := &syntax.Word{Start: fstart, End: fend}

		switch tok {
		case syntax.LSS:
			cmd = syntax.NewRedir(syntax.RedirIn, cmd, file)
		case syntax.GTR:
			cmd = syntax.NewRedir(syntax.RedirOut, cmd, file)
		case syntax.APPEND:
			cmd = syntax.NewRedir(syntax.RedirAppend, cmd, file)
		}
	}
	return cmd, nil
}
