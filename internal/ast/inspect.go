package ast

// Inspect walks the expression tree rooted at id in depth-first order. fn is
// called for every expression; returning false skips its operands. Closure
// bodies are statements and are not entered; capture initializers are.
func (b *Builder) Inspect(id ExprID, fn func(ExprID, *Expr) bool) {
	e := b.Exprs.Get(id)
	if e == nil {
		return
	}
	if !fn(id, e) {
		return
	}
	switch e.Kind {
	case ExprIdent, ExprLit:
	case ExprCall:
		call, _ := b.Exprs.Call(id)
		b.Inspect(call.Callee, fn)
		for _, arg := range call.Args {
			b.Inspect(arg.Value, fn)
		}
		b.Inspect(call.Trailing, fn)
	case ExprMember:
		m, _ := b.Exprs.Member(id)
		b.Inspect(m.Base, fn)
	case ExprBinary, ExprAssign:
		bin, _ := b.Exprs.Binary(id)
		b.Inspect(bin.Left, fn)
		b.Inspect(bin.Right, fn)
	case ExprUnary, ExprParen, ExprTry:
		u, _ := b.Exprs.Unary(id)
		b.Inspect(u.Operand, fn)
	case ExprTuple, ExprArray:
		l, _ := b.Exprs.List(id)
		for _, el := range l.Elements {
			b.Inspect(el, fn)
		}
	case ExprClosure:
		c, _ := b.Exprs.Closure(id)
		for _, capt := range c.Captures {
			b.Inspect(capt.Init, fn)
		}
		for _, p := range c.Params {
			if pd, ok := b.Decls.Param(p); ok {
				b.Inspect(pd.Default, fn)
			}
		}
	}
}

// OutermostClosures returns closures inside id that are not nested in another
// closure of the same expression, in source order.
func (b *Builder) OutermostClosures(id ExprID) []ExprID {
	var out []ExprID
	b.Inspect(id, func(eid ExprID, e *Expr) bool {
		if e.Kind == ExprClosure {
			out = append(out, eid)
			return false
		}
		return true
	})
	return out
}
