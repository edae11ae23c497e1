package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, "Commands:", ""},
		{"build", []string{"build"}, "Usage: md2site build", ""},
		{"watch", []string{"watch"}, "Usage: md2site watch", ""},
		{"version", []string{"version"}, "Usage: md2site version", ""},
		{"help", []string{"help"}, "Usage: md2site help", ""},
		{"unknown", []string{"deploy"}, "", "Unknown command: deploy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(t.TempDir(), nil)
			runHelp(tt.args, env)

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want containing %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want containing %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestUsage_MentionsEnvironment(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(t.TempDir(), nil)
	runHelp([]string{"build"}, env)
	for _, name := range []string{"SITE_ENV", "LOCALE", "MD2SITE_CONFIG", "MD2SITE_WORKERS", ".env"} {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("build usage does not mention %s", name)
		}
	}
}
