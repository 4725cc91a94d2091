package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadDirective             Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2002
	SynUnclosedBrace      Code = 2003
	SynUnclosedBracket    Code = 2004
	SynExpectIdentifier   Code = 2005
	SynExpectExpression   Code = 2006
	SynExpectType         Code = 2007
	SynExpectPattern      Code = 2008
	SynExpectColon        Code = 2009
	SynExpectBody         Code = 2010
	SynGuardMissingElse   Code = 2011
	SynForMissingIn       Code = 2012
	SynRepeatMissingWhile Code = 2013
	SynExpectCaseLabel    Code = 2014
	SynAttributeBadTarget Code = 2015
	SynUnexpectedTopLevel Code = 2016

	// conditional compilation
	SynIfConfigUnterminated Code = 2100
	SynIfConfigStray        Code = 2101
	SynIfConfigBadCondition Code = 2102

	// Проверки дерева областей видимости
	ScopeInfo               Code = 3000
	ScopeRangeInvariant     Code = 3001
	ScopeChildOrder         Code = 3002
	ScopeDuplicateReferent  Code = 3003
	ScopeTreeShrank         Code = 3004
	ScopeChildOutsideParent Code = 3005
	ScopeBadParentLink      Code = 3006

	IOLoadFileError Code = 4001

	ProjInfo          Code = 5000
	ProjInvalidConfig Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexBadDirective:             "Unknown compiler directive",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynExpectType:               "Expected type",
		SynExpectPattern:            "Expected pattern",
		SynExpectColon:              "Expected ':'",
		SynExpectBody:               "Expected '{' to start a body",
		SynGuardMissingElse:         "Expected 'else' after guard condition",
		SynForMissingIn:             "Expected 'in' after for-each pattern",
		SynRepeatMissingWhile:       "Expected 'while' after repeat body",
		SynExpectCaseLabel:          "Expected 'case' or 'default' in switch",
		SynAttributeBadTarget:       "Attribute cannot be applied here",
		SynUnexpectedTopLevel:       "Unexpected construct at top level",
		SynIfConfigUnterminated:     "Missing #endif",
		SynIfConfigStray:            "Directive without matching #if",
		SynIfConfigBadCondition:     "Invalid #if condition",
		ScopeInfo:                   "Scope tree information",
		ScopeRangeInvariant:         "Scope range does not cover its children",
		ScopeChildOrder:             "Scope children overlap or are out of order",
		ScopeDuplicateReferent:      "Duplicate scope for one referent",
		ScopeTreeShrank:             "Scope tree shrank on re-expansion",
		ScopeChildOutsideParent:     "Scope child lies outside its parent",
		ScopeBadParentLink:          "Scope parent link is inconsistent",
		IOLoadFileError:             "I/O load file error",
		ProjInfo:                    "Project information",
		ProjInvalidConfig:           "Invalid scopetree.toml",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SCP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
