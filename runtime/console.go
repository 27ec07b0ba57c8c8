package runtime

import (
	"fmt"
	"strings"

	"github.com/student/scriptvm/values"
)

// installConsole seeds `console.log`/`warn`/`error`, all writing to
// stdout via fmt.Println: each argument is rendered with Value.Debug()
// and joined with a space, not quoted, matching how a script author
// expects console output to look.
func installConsole(globals *values.Env) {
	console := values.NewObject()
	props := console.AsObject().Props

	logFn := values.NewHostFunction("log", func(_ values.Value, args []values.Value) (values.Value, error) {
		fmt.Println(joinConsoleArgs(args))
		return values.Undef(), nil
	})
	props.Set("log", logFn)
	props.Set("warn", values.NewHostFunction("warn", func(_ values.Value, args []values.Value) (values.Value, error) {
		fmt.Println(joinConsoleArgs(args))
		return values.Undef(), nil
	}))
	props.Set("error", values.NewHostFunction("error", func(_ values.Value, args []values.Value) (values.Value, error) {
		fmt.Println(joinConsoleArgs(args))
		return values.Undef(), nil
	}))

	globals.Set("console", console)
}

func joinConsoleArgs(args []values.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.IsString() {
			parts[i] = a.ToString()
		} else {
			parts[i] = a.Debug()
		}
	}
	return strings.Join(parts, " ")
}
