/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"fmt"

	"dice/lexer"
)

// Binary operator precedence, lowest to highest. Matches the table in §4.2
// of spec.md: ||, &&, equality, comparison, +/-, */.
var binaryPrecedence = map[lexer.Kind]int{
	lexer.OrOr:      1,
	lexer.AndAnd:    2,
	lexer.EqEq:      3,
	lexer.NotEq:     3,
	lexer.Less:      4,
	lexer.LessEq:    4,
	lexer.Greater:   4,
	lexer.GreaterEq: 4,
	lexer.Plus:      5,
	lexer.Minus:     5,
	lexer.Star:      6,
	lexer.Slash:     6,
}

/*
parser is a recursive-descent parser over a look-ahead token buffer. Grouping
blocks (`if`, `loop`, `p`, plain `{...}`) are usable as expression-level units
chainable with "->"; the grammar is laid out in parser.go's functions in the
same order as the BNF sketch in §4.2 of spec.md.
*/
type parser struct {
	source string
	tokens *laBuffer
}

/*
Parse lexes and parses the given DICE source, returning the Program root.
Aborts and returns the first lexical or grammar error encountered.
*/
func Parse(source string, input string) (*Node, error) {
	p := &parser{source, newLABuffer(lexer.Lex(source, input), 3)}

	stmts, err := p.parseStatements(lexer.EOF)
	if err != nil {
		return nil, err
	}

	if tok := p.peek(0); tok.Kind != lexer.EOF {
		return nil, p.errorAt(tok, fmt.Sprintf("expected end of input, got %v", tok))
	}

	return &Node{Kind: Program, Children: []*Node{stmts}}, nil
}

func (p *parser) peek(n int) lexer.Token {
	return p.tokens.peek(n)
}

func (p *parser) peekIs(kind lexer.Kind) bool {
	return p.tokens.peekIs(kind)
}

func (p *parser) errorAt(tok lexer.Token, msg string) error {
	return &Error{p.source, tok.Line, tok.Col, msg}
}

/*
next consumes and returns the next token, turning a lexer error token into a
parser Error.
*/
func (p *parser) next() (lexer.Token, error) {
	tok := p.tokens.next()
	if tok.Kind == lexer.Error {
		return tok, &Error{p.source, tok.Line, tok.Col, tok.Lexeme}
	}
	return tok, nil
}

/*
expect consumes the next token and checks its kind, producing a
"expected X, got Y" error (§4.2 of spec.md) on mismatch.
*/
func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Kind != kind {
		return tok, p.errorAt(tok, fmt.Sprintf("expected %v, got %v", kind, tok))
	}
	return tok, nil
}

// program := stmt*
// parseStatements consumes stmt* until a token of kind `until` (or EOF) is
// the next token, without consuming it.
func (p *parser) parseStatements(until lexer.Kind) (*Node, error) {
	node := &Node{Kind: Statements}

	for {
		tok := p.peek(0)
		if tok.Kind == until || tok.Kind == lexer.EOF {
			break
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, stmt)
	}

	return node, nil
}

func (p *parser) parseBlock() (*Node, error) {
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(lexer.RBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return stmts, nil
}

// stmt := funcDef | taskUnitDef | annotated | seqStmt ';'?
func (p *parser) parseStmt() (*Node, error) {
	switch p.peek(0).Kind {
	case lexer.Func:
		return p.parseFuncDef()
	case lexer.TaskUnit:
		return p.parseTaskUnitDef()
	case lexer.At:
		return p.parseAnnotated()
	default:
		return p.parseSeqStmt()
	}
}

// funcDef := 'func' IDENT '(' params? ')' block
func (p *parser) parseFuncDef() (*Node, error) {
	tok, err := p.expect(lexer.Func)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: FuncDef, Token: tok, Name: name.Lexeme, Params: params, Children: []*Node{body}}, nil
}

func (p *parser) parseParamList() ([]string, error) {
	var params []string
	if p.peek(0).Kind == lexer.RParen {
		return params, nil
	}
	for {
		tok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Lexeme)
		if p.peek(0).Kind != lexer.Comma {
			break
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// taskUnitDef := 'taskunit' IDENT '{' funcDef* '}'
//
// Grammar not fully nailed down in §4.2 of spec.md (§4.7 describes only the
// semantics); a taskunit is parsed as a named, ordered group of zero-arg
// FuncDefs, matching "parsed as a grouped FuncDef set carrying an ordered
// step list" verbatim.
func (p *parser) parseTaskUnitDef() (*Node, error) {
	tok, err := p.expect(lexer.TaskUnit)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}

	var steps []*Node
	for p.peek(0).Kind == lexer.Func {
		step, err := p.parseFuncDef()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}

	return &Node{Kind: TaskUnitDef, Token: tok, Name: name.Lexeme, Children: steps}, nil
}

// annotated := '@' 'timed' ('(' STRING ')')? stmt
func (p *parser) parseAnnotated() (*Node, error) {
	at, err := p.expect(lexer.At)
	if err != nil {
		return nil, err
	}
	word, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if word.Lexeme != "timed" {
		return nil, p.errorAt(word, fmt.Sprintf("expected annotation \"timed\", got %q", word.Lexeme))
	}

	label := ""
	explicit := false
	if p.peek(0).Kind == lexer.LParen {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		str, err := p.expect(lexer.String)
		if err != nil {
			return nil, err
		}
		label = str.Lexeme
		explicit = true
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	}

	target, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if target.Kind == Timed {
		return nil, p.errorAt(at, "@timed may not wrap another @timed")
	}

	if !explicit {
		label = deriveLabel(target)
	}

	return &Node{Kind: Timed, Token: at, Label: label, Children: []*Node{target}}, nil
}

/*
deriveLabel computes the default @timed label for a target which has no
explicit string argument. Fixed by §4.2 and the Design Notes Open Questions of
spec.md: "function" for a FuncDef, "parallel" for Parallel/ParallelLoop,
"block" for a plain block, the callee identifier for a call when known
(else "expr"), and the operation name otherwise.
*/
func deriveLabel(target *Node) string {
	switch target.Kind {
	case FuncDef:
		return "function"
	case Parallel, ParallelLoop:
		return "parallel"
	case Statements:
		return "block"
	case Call:
		if len(target.Children) > 0 && target.Children[0].Kind == Identifier {
			return target.Children[0].Name
		}
		return "expr"
	case MethodCall:
		return target.Name
	case If:
		return "if"
	case Loop:
		return "loop"
	case Assign:
		return "assign"
	case Sequence:
		return "sequence"
	case TaskUnitDef:
		return "taskunit"
	default:
		return "expr"
	}
}

// seqStmt := seqUnit ('->' seqUnit)* ';'?
func (p *parser) parseSeqStmt() (*Node, error) {
	first, err := p.parseSeqUnit()
	if err != nil {
		return nil, err
	}

	units := []*Node{first}
	for p.peek(0).Kind == lexer.Arrow {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		unit, err := p.parseSeqUnit()
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	node := buildSequenceChain(units)

	if p.peekIs(lexer.Semicolon) {
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}

	return node, nil
}

/*
buildSequenceChain folds a flat list of "->"-separated units into a
right-leaning Sequence chain (§3.2 of spec.md): a -> b -> c becomes
Sequence(a, Sequence(b, c)).
*/
func buildSequenceChain(units []*Node) *Node {
	if len(units) == 1 {
		return units[0]
	}
	result := units[len(units)-1]
	for i := len(units) - 2; i >= 0; i-- {
		result = &Node{Kind: Sequence, Children: []*Node{units[i], result}}
	}
	return result
}

// seqUnit := block-expr | exprOrCall
func (p *parser) parseSeqUnit() (*Node, error) {
	switch p.peek(0).Kind {
	case lexer.Parallel, lexer.P:
		return p.parseParallelBlock()
	case lexer.If:
		return p.parseIfBlock()
	case lexer.Loop:
		return p.parseLoopBlock()
	case lexer.LBrace:
		return p.parseBlock()
	default:
		return p.parseExprOrCall()
	}
}

// parallelBlock := ('parallel' | 'p') (loopTail | block)
func (p *parser) parseParallelBlock() (*Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if p.peekIs(lexer.Loop) {
		return p.parseLoopTail(tok, true)
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: Parallel, Token: tok, Children: []*Node{body}}, nil
}

// loopBlock := 'loop' IDENT 'in' expr '..' expr block
func (p *parser) parseLoopBlock() (*Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseLoopTail(tok, false)
}

/*
parseLoopTail parses the "IDENT in lo..hi block" portion shared by loop and
p loop. tok is the already-consumed 'loop' token (plain loop) or the 'p'/
'parallel' token (parallel loop, in which case the 'loop' keyword is consumed
here).
*/
func (p *parser) parseLoopTail(tok lexer.Token, parallel bool) (*Node, error) {
	if parallel {
		if _, err := p.expect(lexer.Loop); err != nil {
			return nil, err
		}
	}

	v, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.In); err != nil {
		return nil, err
	}
	lo, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DotDot); err != nil {
		return nil, err
	}
	hi, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	kind := Loop
	if parallel {
		kind = ParallelLoop
	}

	return &Node{Kind: kind, Token: tok, Name: v.Lexeme, Children: []*Node{lo, hi, body}}, nil
}

// ifBlock := 'if' '(' expr ')' block ('else' block)?
func (p *parser) parseIfBlock() (*Node, error) {
	tok, err := p.expect(lexer.If)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	children := []*Node{cond, thenBlock}

	if p.peekIs(lexer.Else) {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		children = append(children, elseBlock)
	}

	return &Node{Kind: If, Token: tok, Children: children}, nil
}

// exprOrCall := assignment | expr
// assignment := IDENT '=' expr
func (p *parser) parseExprOrCall() (*Node, error) {
	if p.tokens.peekIsAssignAhead() {
		name, err := p.next()
		if err != nil {
			return nil, err
		}
		if _, err := p.next(); err != nil { // '='
			return nil, err
		}
		value, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Assign, Token: name, Name: name.Lexeme, Children: []*Node{value}}, nil
	}

	return p.parseExpr(0)
}

// parseExpr implements precedence climbing over the binary operator table,
// falling through to parseUnary for everything tighter than '*'/'/'.
func (p *parser) parseExpr(minPrec int) (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek(0)
		prec, ok := binaryPrecedence[tok.Kind]
		if !ok || prec < minPrec {
			break
		}

		if _, err := p.next(); err != nil {
			return nil, err
		}

		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &Node{Kind: BinaryOp, Token: tok, Name: tok.Lexeme, Children: []*Node{left, right}}
	}

	return left, nil
}

// unary '!' | '-' , else postfix
func (p *parser) parseUnary() (*Node, error) {
	tok := p.peek(0)
	if tok.Kind == lexer.Bang || tok.Kind == lexer.Minus {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: UnaryOp, Token: tok, Name: tok.Lexeme, Children: []*Node{operand}}, nil
	}
	return p.parsePostfix()
}

// postfix := primary ( '(' args ')' | '.' IDENT '(' args ')' )*
func (p *parser) parsePostfix() (*Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek(0).Kind {
		case lexer.LParen:
			if _, err := p.next(); err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			node = &Node{Kind: Call, Children: append([]*Node{node}, args...)}

		case lexer.Dot:
			if _, err := p.next(); err != nil {
				return nil, err
			}
			name, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.LParen); err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			node = &Node{Kind: MethodCall, Name: name.Lexeme, Children: append([]*Node{node}, args...)}

		default:
			return node, nil
		}
	}
}

func (p *parser) parseArgList() ([]*Node, error) {
	var args []*Node
	if p.peek(0).Kind == lexer.RParen {
		return args, nil
	}
	for {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek(0).Kind != lexer.Comma {
			break
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (p *parser) parsePrimary() (*Node, error) {
	tok := p.peek(0)

	switch tok.Kind {
	case lexer.Number:
		p.next()
		return &Node{Kind: NumberLiteral, Token: tok, Name: tok.Lexeme}, nil

	case lexer.String:
		p.next()
		return &Node{Kind: StringLiteral, Token: tok, Name: tok.Lexeme}, nil

	case lexer.True, lexer.False:
		p.next()
		return &Node{Kind: BooleanLiteral, Token: tok, Name: tok.Lexeme}, nil

	case lexer.Identifier:
		p.next()
		return &Node{Kind: Identifier, Token: tok, Name: tok.Lexeme}, nil

	case lexer.LParen:
		p.next()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errorAt(tok, fmt.Sprintf("expected an expression, got %v", tok))
	}
}
