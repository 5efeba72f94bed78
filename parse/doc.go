package parse

// Parser for kc declarations and expressions.
//
//
// Glossary:
//
// Desugaring
// ----------
//
// Compound assignments and prefix increments are rewritten while parsing,
// so later passes only ever see '=' and plain binary operators.
//
// e.g.
// x += y   becomes   x = x + y
// ++x      becomes   x = x + 1
//
// The left hand side appears twice in the result, so the second copy is
// made with CloneExpr. No node ever has two parents.
//
// Declaration
// -----------
//
// A storage class, a base type, pointer suffixes, a name, an optional
// array suffix and an optional initializer.
//
// e.g.
// static const u32 *x[] = 0;
// ^^^^^^ ^^^^^^^^^ ^ ^^   ^
//
// Suffixes wrap the type in source order: the pointer wraps u32, then the
// array wraps the pointer.
//
// Precedence
// ----------
//
// Loosest first. Every level is left associative except assignment and
// the conditional operator.
//
//   ,
//   = += -= *= /= %= &= ^= |= <<= >>=
//   ?:
//   ||
//   &&
//   |
//   ^
//   &
//   == !=
//   < > <= >=
//   << >>
//   + -
//   * / %
//   prefix ++ -- & * + - ~ !
//   postfix [] () . -> ++ --
