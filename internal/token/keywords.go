package token

var keywords = map[string]Kind{
	"func":      KwFunc,
	"init":      KwInit,
	"var":       KwVar,
	"let":       KwLet,
	"if":        KwIf,
	"guard":     KwGuard,
	"else":      KwElse,
	"while":     KwWhile,
	"repeat":    KwRepeat,
	"for":       KwFor,
	"in":        KwIn,
	"switch":    KwSwitch,
	"case":      KwCase,
	"default":   KwDefault,
	"do":        KwDo,
	"catch":     KwCatch,
	"try":       KwTry,
	"throw":     KwThrow,
	"return":    KwReturn,
	"break":     KwBreak,
	"continue":  KwContinue,
	"defer":     KwDefer,
	"struct":    KwStruct,
	"class":     KwClass,
	"enum":      KwEnum,
	"protocol":  KwProtocol,
	"extension": KwExtension,
	"import":    KwImport,
	"typealias": KwTypealias,
	"get":       KwGet,
	"set":       KwSet,
	"willSet":   KwWillSet,
	"didSet":    KwDidSet,
	"static":    KwStatic,
	"true":      KwTrue,
	"false":     KwFalse,
	"nil":       KwNil,
	"where":     KwWhere,
	"self":      KwSelf,
}

var pounds = map[string]Kind{
	"#if":     PoundIf,
	"#elseif": PoundElseIf,
	"#else":   PoundElse,
	"#endif":  PoundEndIf,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// LookupPound resolves a `#word` directive spelling.
func LookupPound(text string) (Kind, bool) {
	k, ok := pounds[text]
	return k, ok
}
