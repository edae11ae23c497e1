package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	os.Exit(runMain(os.Args, env))
}

// runMain dispatches the command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	loadDotEnv(env)
	warnUnknownEnvVars(env)

	cmd, rest := "build", []string{}
	if len(args) > 1 {
		cmd, rest = args[1], args[2:]
		if isFlag(cmd) {
			cmd, rest = "build", args[1:]
		}
	}

	ctx, stop := notifyContext(env.Context)
	defer stop()

	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "watch":
		err = runWatch(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2site %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isFlag reports whether arg looks like a flag rather than a command.
func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && arg != "-h" && arg != "--help" && arg != "--version"
}

// hasVerboseFlag scans args for -v or --verbose before full parsing.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
