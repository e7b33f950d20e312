package calculator

import "strconv"

// Interpreter converts a literal token to a value. Interpreters are tried in
// chain order; the first that does not fail wins.
type Interpreter func(Token) (Value, error)

// ParseInt interprets a token as an int64.
func ParseInt(tok Token) (Value, error) {
	n, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ParseFloat interprets a token as a float64.
func ParseFloat(tok Token) (Value, error) {
	f, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Symbols returns an interpreter that looks tokens up in m. The map is not
// copied; entries added to it later are visible to the interpreter.
func Symbols(m map[string]Value) Interpreter {
	return func(tok Token) (Value, error) {
		v, ok := m[string(tok)]
		if !ok {
			return nil, &InterpretError{Token: tok}
		}
		return v, nil
	}
}

// DefaultInterpreters returns the default chain: integer parse, then
// floating-point parse.
func DefaultInterpreters() []Interpreter {
	return []Interpreter{ParseInt, ParseFloat}
}
