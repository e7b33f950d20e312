// Package calculator implements a table-driven operator-precedence
// expression evaluator.
//
// There is no syntax tree. Expressions are evaluated directly while reading
// tokens, so structure is implicit in the recursion. Every construct is an
// Operator: a token identity, a binding power, the number of already-computed
// values it needs, a list of continuation steps that gather its remaining
// operands, and an action that combines them. Literals, prefix and infix
// operators, postfix operators, grouping brackets, and implicit
// multiplication all share that one shape. The evaluator resolves each token
// by trying the matching operators in order of descending binding power, so a
// token like "-" serves as both subtraction and negation, selected only by
// whether a value is already pending.
//
// The default configuration is a numeric calculator with assignment,
// comparisons, arithmetic, right-associative exponentiation, percentages,
// indexing, and implicit application ("sqrt 4" calls sqrt; "3(5)" multiplies).
// Both the operator table and the literal interpreters are replaceable at
// construction, including an arbitrary-precision configuration over big.Float
// values.
package calculator
