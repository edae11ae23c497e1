package main

import (
	"context"
	"io"
	"os"
	"time"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the process environment and the working directory.
type Environment struct {
	Context context.Context
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Dir     string // Site directory; config and relative paths resolve here
}

// DefaultEnv returns the process environment.
func DefaultEnv() *Environment {
	return &Environment{
		Context: context.Background(),
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Dir:     ".",
	}
}
