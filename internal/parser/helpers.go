package parser

import (
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the next token if it has kind k.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// spanSince покрывает токены, съеденные с позиции pos. Если не съедено
// ничего, получается пустой span сразу за предыдущим токеном, а не span
// ещё не прочитанного токена.
func (p *Parser) spanSince(pos int, start source.Span) source.Span {
	if p.pos == pos {
		return source.PointSpan(p.lastSpan.File, p.lastSpan.End)
	}
	return start.Cover(p.lastSpan)
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// На EOF используем позицию сразу после последнего токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return source.PointSpan(p.lastSpan.File, p.lastSpan.End)
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		if p.opts.Enough() {
			return false // достигли максимального количества ошибок
		}
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// unclosedBrace reports a missing '}' at the current position, pointing
// back at the '{' it should close and offering to insert it.
func (p *Parser) unclosedBrace(lb source.Span, msg string) {
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	at := source.PointSpan(lb.File, p.lastSpan.End)
	diag.ReportError(p.opts.Reporter, diag.SynUnclosedBrace, p.getDiagnosticSpan(), msg).
		WithNote(lb, "to match this '{'").
		WithFix("insert '}'", diag.FixEdit{Span: at, NewText: "\n}"}).
		Emit()
}

// endOfStatement принимает `;` или перевод строки между элементами.
func (p *Parser) endOfStatement() {
	if _, ok := p.eat(token.Semicolon); ok {
		return
	}
	next := p.peek()
	switch next.Kind {
	case token.EOF, token.RBrace, token.PoundElse, token.PoundElseIf, token.PoundEndIf, token.KwCase, token.KwDefault:
		return
	}
	if !next.StartsLine() {
		p.err(diag.SynUnexpectedToken, "consecutive statements on a line must be separated by ';'")
	}
}

// skipBalanced пропускает группу open...close вместе с вложенными группами.
// Курсор должен стоять на open. Возвращает span и признак найденного close.
func (p *Parser) skipBalanced(open, close token.Kind) (source.Span, bool) {
	start := p.advance().Span
	depth := 1
	for !p.at(token.EOF) {
		tok := p.advance()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return start.Cover(tok.Span), true
			}
		}
	}
	return start.Cover(p.lastSpan), false
}

// resyncUntil прокручивает токены до одного из stop (не съедая его) или EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		if p.at(token.LBrace) {
			p.skipBalanced(token.LBrace, token.RBrace)
			continue
		}
		p.advance()
	}
}
