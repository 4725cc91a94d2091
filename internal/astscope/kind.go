package astscope

// Kind enumerates the syntactic constructs that open a lexical scope.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSourceFile
	KindNominalType
	KindExtension
	KindTypeBody
	KindGenericParam
	KindSpecializeAttribute
	KindFunctionDecl
	KindParameterList
	KindDefaultArgument
	KindFunctionBody
	KindAccessors
	KindAccessor
	KindPatternEntryDecl
	KindPatternEntryInitializer
	KindAttachedPropertyWrapper
	KindTopLevelCode
	KindBraceStmt
	KindIfStmt
	KindGuardStmt
	KindWhileStmt
	KindRepeatWhileStmt
	KindConditionalClause
	KindConditionalClausePatternUse
	// KindDiversion redirects lookups past a guard's early-exit body back to
	// the end of its condition chain. It has no syntax of its own.
	KindDiversion
	KindDoStmt
	KindDoCatchStmt
	KindCatchClause
	KindSwitchStmt
	KindCaseClause
	KindForEachStmt
	KindForEachPattern
	KindClosure
	KindCaptureList
	KindClosureParameters
	KindClosureBody
	kindCount
)

var kindNames = [...]string{
	KindInvalid:                     "Invalid",
	KindSourceFile:                  "SourceFile",
	KindNominalType:                 "NominalType",
	KindExtension:                   "Extension",
	KindTypeBody:                    "TypeBody",
	KindGenericParam:                "GenericParam",
	KindSpecializeAttribute:         "SpecializeAttribute",
	KindFunctionDecl:                "FunctionDecl",
	KindParameterList:               "ParameterList",
	KindDefaultArgument:             "DefaultArgument",
	KindFunctionBody:                "FunctionBody",
	KindAccessors:                   "Accessors",
	KindAccessor:                    "Accessor",
	KindPatternEntryDecl:            "PatternEntryDecl",
	KindPatternEntryInitializer:     "PatternEntryInitializer",
	KindAttachedPropertyWrapper:     "AttachedPropertyWrapper",
	KindTopLevelCode:                "TopLevelCode",
	KindBraceStmt:                   "BraceStmt",
	KindIfStmt:                      "IfStmt",
	KindGuardStmt:                   "GuardStmt",
	KindWhileStmt:                   "WhileStmt",
	KindRepeatWhileStmt:             "RepeatWhileStmt",
	KindConditionalClause:           "ConditionalClause",
	KindConditionalClausePatternUse: "ConditionalClausePatternUse",
	KindDiversion:                   "Diversion",
	KindDoStmt:                      "DoStmt",
	KindDoCatchStmt:                 "DoCatchStmt",
	KindCatchClause:                 "CatchClause",
	KindSwitchStmt:                  "SwitchStmt",
	KindCaseClause:                  "CaseClause",
	KindForEachStmt:                 "ForEachStmt",
	KindForEachPattern:              "ForEachPattern",
	KindClosure:                     "Closure",
	KindCaptureList:                 "CaptureList",
	KindClosureParameters:           "ClosureParameters",
	KindClosureBody:                 "ClosureBody",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// ParseKind maps a kind name back to its value.
func ParseKind(s string) (Kind, bool) {
	for k := KindSourceFile; k < kindCount; k++ {
		if kindNames[k] == s {
			return k, true
		}
	}
	return KindInvalid, false
}
