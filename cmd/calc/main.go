package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/midbel/cli"

	"github.com/kcsaff/calculator"
)

var (
	summary = "calc evaluates arithmetic expressions"
	help    = ""
)

func main() {
	log.SetFlags(0)
	var (
		set  = cli.NewFlagSet("calc")
		root = prepare()
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	if err := root.Execute(set.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"eval"}, &evalCmd)
	root.Register([]string{"repl"}, &replCmd)
	return root
}

var evalCmd = cli.Command{
	Name:    "eval",
	Alias:   []string{"e"},
	Summary: "evaluate each argument and print the results",
	Handler: &EvalCmd{},
}

var replCmd = cli.Command{
	Name:    "repl",
	Summary: "evaluate expressions interactively",
	Handler: &ReplCmd{},
}

// session is the shared configuration of both commands: an operator set, an
// interpreter chain, and a symbol table that assignment writes through.
type session struct {
	Big  bool
	Prec uint
	defs []string
	calc *calculator.Calculator
	syms map[string]calculator.Value
}

func (s *session) flags(set *flag.FlagSet) {
	set.BoolVar(&s.Big, "big", false, "compute on arbitrary-precision floats")
	set.UintVar(&s.Prec, "p", 64, "precision of big calculations in bits")
	set.Func("given", "name=value variable definition (any number of times)", func(d string) error {
		if !strings.Contains(d, "=") {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, d)
		}
		s.defs = append(s.defs, d)
		return nil
	})
}

func (s *session) open() (*calculator.Calculator, error) {
	if s.calc != nil {
		return s.calc, nil
	}
	s.syms = map[string]calculator.Value{}
	if s.Big {
		for k, v := range calculator.BigSymbols(s.Prec) {
			if _, ok := s.syms[k]; !ok {
				s.syms[k] = v
			}
		}
		s.calc = calculator.New(
			calculator.WithOperators(calculator.BigOperators(s.Prec)...),
			calculator.WithInterpreters(calculator.BigInterpreter(s.Prec), calculator.Symbols(s.syms)),
		)
	} else {
		s.syms["sqrt"] = calculator.Monadic("sqrt", math.Sqrt)
		s.calc = calculator.New(
			calculator.WithInterpreters(
				calculator.ParseInt,
				calculator.ParseFloat,
				cells(s.syms),
			),
		)
	}
	for _, d := range s.defs {
		nm, vl, _ := strings.Cut(d, "=")
		v, err := s.calc.EvalString(strings.TrimSpace(vl))
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", nm, err)
		}
		s.syms[strings.TrimSpace(nm)] = calculator.NewVar(v)
	}
	return s.calc, nil
}

// cells looks identifiers up in m, creating an empty assignable cell on
// first sight so that "a = 1" works before a is ever defined.
func cells(m map[string]calculator.Value) calculator.Interpreter {
	return func(tok calculator.Token) (calculator.Value, error) {
		r := []rune(string(tok))
		if len(r) == 0 || !(r[0] == '_' || unicode.IsLetter(r[0])) {
			return nil, fmt.Errorf("not a name: %q", tok)
		}
		v, ok := m[string(tok)]
		if !ok {
			v = calculator.NewVar(nil)
			m[string(tok)] = v
		}
		return v, nil
	}
}

type EvalCmd struct {
	session
}

func (c *EvalCmd) Run(args []string) error {
	set := flag.NewFlagSet("eval", flag.ContinueOnError)
	c.flags(set)
	if err := set.Parse(args); err != nil {
		return err
	}
	calc, err := c.open()
	if err != nil {
		return err
	}
	for _, expr := range set.Args() {
		v, err := calc.EvalString(expr)
		if err != nil {
			return err
		}
		fmt.Println(display(v))
	}
	return nil
}

type ReplCmd struct {
	session
}

var (
	promptColor = color.New(color.FgCyan)
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

func (c *ReplCmd) Run(args []string) error {
	set := flag.NewFlagSet("repl", flag.ContinueOnError)
	c.flags(set)
	if err := set.Parse(args); err != nil {
		return err
	}
	calc, err := c.open()
	if err != nil {
		return err
	}
	in := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("> ")
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		v, err := calc.EvalString(line)
		if err != nil {
			errorColor.Println(err)
			continue
		}
		resultColor.Println(display(v))
	}
}

func display(v calculator.Value) string {
	if r, ok := v.(calculator.Valuer); ok {
		v = r.Value()
	}
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%v", v)
}
