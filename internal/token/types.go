package token

// Type tags a token with its PHP tokenizer category.
type Type string

const (
	TOpenTag    Type = "T_OPEN_TAG"
	TCloseTag   Type = "T_CLOSE_TAG"
	TInlineHTML Type = "T_INLINE_HTML"
	TWhitespace Type = "T_WHITESPACE"
	TComment    Type = "T_COMMENT"

	TDocCommentOpenTag  Type = "T_DOC_COMMENT_OPEN_TAG"
	TDocComment         Type = "T_DOC_COMMENT_STRING"
	TDocCommentCloseTag Type = "T_DOC_COMMENT_CLOSE_TAG"

	TAttribute    Type = "T_ATTRIBUTE"
	TAttributeEnd Type = "T_ATTRIBUTE_END"

	TStartHeredoc Type = "T_START_HEREDOC"
	THeredoc      Type = "T_HEREDOC"
	TEndHeredoc   Type = "T_END_HEREDOC"
	TStartNowdoc  Type = "T_START_NOWDOC"
	TNowdoc       Type = "T_NOWDOC"
	TEndNowdoc    Type = "T_END_NOWDOC"

	TConstantEncapsedString Type = "T_CONSTANT_ENCAPSED_STRING"
	TVariable               Type = "T_VARIABLE"
	TLNumber                Type = "T_LNUMBER"
	TDNumber                Type = "T_DNUMBER"

	TString             Type = "T_STRING"
	TNameQualified      Type = "T_NAME_QUALIFIED"
	TNameFullyQualified Type = "T_NAME_FULLY_QUALIFIED"
	TNameRelative       Type = "T_NAME_RELATIVE"
	TNsSeparator        Type = "T_NS_SEPARATOR"

	TFunction   Type = "T_FUNCTION"
	TClosure    Type = "T_CLOSURE"
	TFn         Type = "T_FN"
	TClass      Type = "T_CLASS"
	TAnonClass  Type = "T_ANON_CLASS"
	TInterface  Type = "T_INTERFACE"
	TTrait      Type = "T_TRAIT"
	TEnum       Type = "T_ENUM"
	TNamespace  Type = "T_NAMESPACE"
	TUse        Type = "T_USE"
	TAs         Type = "T_AS"
	TExtends    Type = "T_EXTENDS"
	TImplements Type = "T_IMPLEMENTS"
	TConst      Type = "T_CONST"
	TNew        Type = "T_NEW"
	TInstanceof Type = "T_INSTANCEOF"
	TSelf       Type = "T_SELF"
	TParent     Type = "T_PARENT"
	TStatic     Type = "T_STATIC"

	TOpenParenthesis    Type = "T_OPEN_PARENTHESIS"
	TCloseParenthesis   Type = "T_CLOSE_PARENTHESIS"
	TOpenCurlyBracket   Type = "T_OPEN_CURLY_BRACKET"
	TCloseCurlyBracket  Type = "T_CLOSE_CURLY_BRACKET"
	TOpenSquareBracket  Type = "T_OPEN_SQUARE_BRACKET"
	TCloseSquareBracket Type = "T_CLOSE_SQUARE_BRACKET"

	TSemicolon              Type = "T_SEMICOLON"
	TComma                  Type = "T_COMMA"
	TColon                  Type = "T_COLON"
	TDoubleColon            Type = "T_DOUBLE_COLON"
	TObjectOperator         Type = "T_OBJECT_OPERATOR"
	TNullsafeObjectOperator Type = "T_NULLSAFE_OBJECT_OPERATOR"
	TBitwiseAnd             Type = "T_BITWISE_AND"
	TNullable               Type = "T_NULLABLE"
	TEqual                  Type = "T_EQUAL"

	TOther Type = "T_OTHER"
)

var emptyTypes = map[Type]struct{}{
	TWhitespace:         {},
	TComment:            {},
	TDocCommentOpenTag:  {},
	TDocComment:         {},
	TDocCommentCloseTag: {},
}

// IsEmpty reports whether t carries no code: whitespace and comments.
func IsEmpty(t Type) bool {
	_, ok := emptyTypes[t]
	return ok
}

var ooTypes = map[Type]struct{}{
	TClass:     {},
	TAnonClass: {},
	TInterface: {},
	TTrait:     {},
	TEnum:      {},
}

// IsOO reports whether t opens a class-like structure.
func IsOO(t Type) bool {
	_, ok := ooTypes[t]
	return ok
}

var scopeOwners = map[Type]struct{}{
	TClass:     {},
	TAnonClass: {},
	TInterface: {},
	TTrait:     {},
	TEnum:      {},
	TFunction:  {},
	TClosure:   {},
	TNamespace: {},
}

// IsScopeOwner reports whether a token of type t can own a brace-delimited scope.
func IsScopeOwner(t Type) bool {
	_, ok := scopeOwners[t]
	return ok
}

// IsName reports whether t is an identifier or a qualified name token.
func IsName(t Type) bool {
	switch t {
	case TString, TNameQualified, TNameFullyQualified, TNameRelative:
		return true
	}
	return false
}
