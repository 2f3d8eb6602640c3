// Command wrongcalc replays calculator keys and prints what the display
// shows, e.g.
//
//	wrongcalc 12.5×3=
//	wrongcalc -v 5 + 3 =
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"wrong-calculator/internal/core"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "wrongcalc:", err)
		os.Exit(2)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wrongcalc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	seed := fs.Uint64("seed", 0, "reproducible corruption seed (0 uses the clock)")
	verbose := fs.Bool("v", false, "print the display after every key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	events, err := core.ParseKeyString(strings.Join(fs.Args(), ""))
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no keys given")
	}

	var src core.Source = core.ClockSource{}
	if *seed != 0 {
		src = core.NewSeededSource(*seed)
	}
	m := core.NewMachine(src)

	st := core.NewState()
	for _, e := range events {
		st = m.Transition(st, e)
		if *verbose {
			fmt.Fprintf(out, "%-9s %s\n", label(e), st.Display)
		}
	}
	if !*verbose {
		fmt.Fprintln(out, st.Display)
	}
	return nil
}

func label(e core.Event) string {
	switch e.Kind {
	case core.EventDigit:
		return string(e.Digit)
	case core.EventOperator:
		return e.Operator.Symbol()
	default:
		return e.Kind.String()
	}
}
