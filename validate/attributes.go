package validate

// permittedAttrs is the exhaustive union of attribute names reachable
// through an Attribute node, across every runtime type (spec §4.2). The
// validator only rejects names outside this union (plus the dunder guard);
// whether a given attribute actually exists on a particular value's type is
// a runtime AttributeError, raised by package eval, not a validator concern
// — the validator has no type information to decide that statically.
var permittedAttrs = map[string]bool{
	// String
	"strip": true, "lstrip": true, "rstrip": true, "lower": true, "upper": true,
	"find": true, "rfind": true, "replace": true, "split": true, "rsplit": true,
	"splitlines": true, "startswith": true, "endswith": true, "count": true,
	"join": true, "encode": true, "isdigit": true, "isalpha": true,
	// Bytes
	"decode": true, "hex": true,
	// List
	"append": true, "extend": true, "index": true, "sort": true, "reverse": true,
	// Dict
	"get": true, "keys": true, "values": true, "items": true,
	// Match
	"group": true, "start": true, "end": true, "span": true, "groups": true,

	// Module exports (spec §4.4); attribute access on a Module is also
	// routed through Attribute nodes, so every exported symbol name must
	// appear here too.
	"search": true, "findall": true, "sub": true, "match": true,
	"IGNORECASE": true, "DOTALL": true, "MULTILINE": true,
	"loads": true, "dumps": true,
	"b64decode": true,
	"hexlify": true,
	"decompress": true, "MAX_WBITS": true,
	"floor": true, "ceil": true, "sqrt": true, "pi": true, "e": true,
}

// forbiddenNames are specific identifiers that are never valid to
// reference, regardless of whether user code ever binds them — reflection
// and I/O escape hatches named directly in spec §4.2.
var forbiddenNames = map[string]bool{
	"getattr": true, "setattr": true, "delattr": true, "vars": true,
	"globals": true, "locals": true, "dir": true, "type": true, "id": true,
	"eval": true, "exec": true, "compile": true, "open": true,
}

// permittedBinOps restricts the binary operators the lexer/parser are
// willing to assemble into BinOp nodes for the sake of giving real AST
// shapes to reject (package parser's doc comment); everything else is
// ForbiddenSyntax.
var permittedBinOps = map[string]bool{
	"+": true, "-": true, "*": true, "%": true, "|": true, "&": true,
}
