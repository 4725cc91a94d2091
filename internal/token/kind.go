package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	IntLit
	FloatLit
	StringLit

	KwFunc      // func
	KwInit      // init
	KwVar       // var
	KwLet       // let
	KwIf        // if
	KwGuard     // guard
	KwElse      // else
	KwWhile     // while
	KwRepeat    // repeat
	KwFor       // for
	KwIn        // in
	KwSwitch    // switch
	KwCase      // case
	KwDefault   // default
	KwDo        // do
	KwCatch     // catch
	KwTry       // try
	KwThrow     // throw
	KwReturn    // return
	KwBreak     // break
	KwContinue  // continue
	KwDefer     // defer
	KwStruct    // struct
	KwClass     // class
	KwEnum      // enum
	KwProtocol  // protocol
	KwExtension // extension
	KwImport    // import
	KwTypealias // typealias
	KwGet       // get
	KwSet       // set
	KwWillSet   // willSet
	KwDidSet    // didSet
	KwStatic    // static
	KwTrue      // true
	KwFalse     // false
	KwNil       // nil
	KwWhere     // where
	KwSelf      // self

	PoundIf     // #if
	PoundElseIf // #elseif
	PoundElse   // #else
	PoundEndIf  // #endif

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	PlusAssign // +=
	EqEq       // ==
	Bang       // !
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	AndAnd     // &&
	OrOr       // ||
	Amp        // &
	Pipe       // |
	Question   // ?
	Colon      // :
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	Arrow      // ->
	DotDotDot  // ...
	DotDotLt   // ..<
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	At         // @
	Underscore // _
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	KwFunc:      "func",
	KwInit:      "init",
	KwVar:       "var",
	KwLet:       "let",
	KwIf:        "if",
	KwGuard:     "guard",
	KwElse:      "else",
	KwWhile:     "while",
	KwRepeat:    "repeat",
	KwFor:       "for",
	KwIn:        "in",
	KwSwitch:    "switch",
	KwCase:      "case",
	KwDefault:   "default",
	KwDo:        "do",
	KwCatch:     "catch",
	KwTry:       "try",
	KwThrow:     "throw",
	KwReturn:    "return",
	KwBreak:     "break",
	KwContinue:  "continue",
	KwDefer:     "defer",
	KwStruct:    "struct",
	KwClass:     "class",
	KwEnum:      "enum",
	KwProtocol:  "protocol",
	KwExtension: "extension",
	KwImport:    "import",
	KwTypealias: "typealias",
	KwGet:       "get",
	KwSet:       "set",
	KwWillSet:   "willSet",
	KwDidSet:    "didSet",
	KwStatic:    "static",
	KwTrue:      "true",
	KwFalse:     "false",
	KwNil:       "nil",
	KwWhere:     "where",
	KwSelf:      "self",
	PoundIf:     "#if",
	PoundElseIf: "#elseif",
	PoundElse:   "#else",
	PoundEndIf:  "#endif",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Assign:      "=",
	PlusAssign:  "+=",
	EqEq:        "==",
	Bang:        "!",
	BangEq:      "!=",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	AndAnd:      "&&",
	OrOr:        "||",
	Amp:         "&",
	Pipe:        "|",
	Question:    "?",
	Colon:       ":",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	Arrow:       "->",
	DotDotDot:   "...",
	DotDotLt:    "..<",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	At:          "@",
	Underscore:  "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsEOF reports whether the kind terminates the stream.
func (k Kind) IsEOF() bool { return k == EOF }

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool { return k >= KwFunc && k <= KwSelf }

// IsPound reports whether the kind is a conditional-compilation directive.
func (k Kind) IsPound() bool { return k >= PoundIf && k <= PoundEndIf }

// IsContextualKeyword reports keywords that may still be used as names
// outside their accessor-block context.
func (k Kind) IsContextualKeyword() bool {
	switch k {
	case KwGet, KwSet, KwWillSet, KwDidSet:
		return true
	default:
		return false
	}
}
