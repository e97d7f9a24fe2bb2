// Package lang implements a small arithmetic expression language.
//
// A program is a sequence of definitions followed by one expression:
//
//	def a = 5;
//	def b = a * 2;
//	a + b
//
// Numbers are IEEE-754 doubles. The operators are + - * / with the usual
// precedence, folding left, and parentheses group. "def" is a keyword only at
// the start of a statement; elsewhere it is an ordinary name.
//
// The pipeline is [Tokenize] (text to [Token]s), [ParseTokens] (tokens to a
// [Program]) and [Evaluate] (program to value). [Parse] and [Run] compose
// the stages. [Compile] is an alternate backend that lowers a Program to
// expr-lang bytecode with identical results.
//
// Every failure caused by source text is a [*LexError], [*ParseError] or
// [*EvalError] carrying a [Position]; [FormatError] renders one with the
// offending source line. Use [errors.Is] with the Err* sentinels to test the
// kind.
package lang
