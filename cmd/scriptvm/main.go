// Command scriptvm is a thin host wrapper around the scriptvm engine
// library: a batch runner for script files and an interactive REPL,
// built on urfave/cli/v3 for command/flag parsing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/student/scriptvm"
	"github.com/student/scriptvm/vm"
)

func main() {
	app := &cli.Command{
		Name:  "scriptvm",
		Usage: "run or explore scripts on the sandboxed scripting engine",
		Commands: []*cli.Command{
			runCommand,
			replCommand,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if isatty.IsTerminal(os.Stdin.Fd()) {
				return repl()
			}
			src, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			return runSource(string(src))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "execute a script file",
	ArgsUsage: "<file>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() == 0 {
			return errors.New("run requires a file argument")
		}
		data, err := os.ReadFile(cmd.Args().First())
		if err != nil {
			return err
		}
		return runSource(string(data))
	},
}

var replCommand = &cli.Command{
	Name:  "repl",
	Usage: "start an interactive session",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return repl()
	},
}

func runSource(src string) error {
	engine := scriptvm.NewEngine()
	result, err := engine.Run(src, nil)
	if err != nil {
		return err
	}
	if !result.IsUndefined() {
		fmt.Println(result.Debug())
	}
	return nil
}

// repl runs a line-editing shell backed by chzyer/readline, evaluating
// each line against a single persistent Engine so declarations survive
// across prompts for the whole session.
func repl() error {
	rl, err := readline.New("scriptvm> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	engine := scriptvm.NewEngine()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if line == ".debug" {
			engine.EnableDebug(vm.DebugBasic)
			continue
		}
		result, err := engine.Run(line, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(result.Debug())
	}
}
