package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/internal/cli"
)

const (
	knownSalt = "$2b$04$UIdbgxKHq5Q5n6jtFvHVpe"
	knownHash = "$2b$04$UIdbgxKHq5Q5n6jtFvHVpeYQptqgK6Wot61r1.ooV6P9kFygIjsxy"
)

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli.Execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

var saltPattern = regexp.MustCompile(`^\$2[by]\$\d\d\$[./A-Za-z0-9]{22}\n$`)

func TestSalt(t *testing.T) {
	cases := []struct {
		args   []string
		prefix string
	}{
		{[]string{"salt"}, "$2b$10$"},
		{[]string{"--cost", "5", "salt"}, "$2b$05$"},
		{[]string{"--revision", "2y", "--cost", "4", "salt"}, "$2y$04$"},
	}
	for _, tc := range cases {
		code, out, errOut := run(t, "", tc.args...)
		if code != 0 {
			t.Fatalf("%v: exit %d, stderr %q", tc.args, code, errOut)
		}
		if !strings.HasPrefix(out, tc.prefix) || !saltPattern.MatchString(out) {
			t.Errorf("%v: got %q, want a salt starting with %q", tc.args, out, tc.prefix)
		}
	}
}

func TestSalt_Env(t *testing.T) {
	t.Setenv("BCRYPT_COST", "6")
	_, out, errOut := run(t, "", "salt")
	if !strings.HasPrefix(out, "$2b$06$") {
		t.Errorf("got %q, stderr %q", out, errOut)
	}
}

func TestSalt_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bcrypt.yaml")
	if err := os.WriteFile(path, []byte("cost: 7\nversion: 2y\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, out, errOut := run(t, "", "--config", path, "salt")
	if !strings.HasPrefix(out, "$2y$07$") {
		t.Errorf("got %q, stderr %q", out, errOut)
	}

	// Flags win over the file.
	_, out, _ = run(t, "", "--config", path, "--cost", "5", "salt")
	if !strings.HasPrefix(out, "$2y$05$") {
		t.Errorf("flag override: got %q", out)
	}
}

func TestSalt_InvalidConfig(t *testing.T) {
	code, out, errOut := run(t, "", "--cost", "3", "salt")
	if code != 1 || out != "" {
		t.Fatalf("exit %d, stdout %q; want 1 and no output", code, out)
	}
	if !strings.Contains(errOut, "cost") {
		t.Errorf("stderr %q does not mention cost", errOut)
	}
}

func TestHash(t *testing.T) {
	code, out, errOut := run(t, "", "hash", "--salt", knownSalt, "abc")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != knownHash+"\n" {
		t.Errorf("got %q, want %q", out, knownHash)
	}
}

func TestHash_ZeroWorkers(t *testing.T) {
	code, out, errOut := run(t, "", "--workers", "0", "hash", "--salt", knownSalt, "abc")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != knownHash+"\n" {
		t.Errorf("got %q, want %q", out, knownHash)
	}
}

func TestHash_Stdin(t *testing.T) {
	for _, stdin := range []string{"abc\n", "abc\r\n", "abc"} {
		_, out, errOut := run(t, stdin, "hash", "--salt", knownSalt, "-")
		if out != knownHash+"\n" {
			t.Errorf("stdin %q: got %q, stderr %q", stdin, out, errOut)
		}
	}
}

func TestHash_FreshSalt(t *testing.T) {
	code, out, errOut := run(t, "", "--cost", "4", "hash", "hunter2")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	hash := strings.TrimSpace(out)
	ok, err := bcrypt.Verify([]byte("hunter2"), hash)
	if err != nil || !ok {
		t.Errorf("Verify(%q) = %v, %v", hash, ok, err)
	}
}

func TestHash_Timeout(t *testing.T) {
	code, _, errOut := run(t, "", "--cost", "10", "--timeout", "1ms", "hash", "pw")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "gave up after 1ms") {
		t.Errorf("stderr %q does not report the timeout", errOut)
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		stdin    string
		code     int
		out      string
		errMatch string
	}{
		{"match", []string{"compare", "abc", knownHash}, "", 0, "true\n", ""},
		{"match stdin", []string{"compare", "-", knownHash}, "abc\n", 0, "true\n", ""},
		{"mismatch", []string{"compare", "abd", knownHash}, "", 1, "false\n", ""},
		{"malformed", []string{"compare", "abc", "$2b$04$nope"}, "", 1, "", "Error:"},
		{"missing hash", []string{"compare", "abc"}, "", 1, "", "Error:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, out, errOut := run(t, tc.stdin, tc.args...)
			if code != tc.code || out != tc.out {
				t.Errorf("got exit %d stdout %q, want exit %d stdout %q", code, out, tc.code, tc.out)
			}
			if tc.errMatch == "" && errOut != "" {
				t.Errorf("unexpected stderr %q", errOut)
			}
			if tc.errMatch != "" && !strings.Contains(errOut, tc.errMatch) {
				t.Errorf("stderr %q does not contain %q", errOut, tc.errMatch)
			}
		})
	}
}

func TestCost(t *testing.T) {
	_, out, _ := run(t, "", "cost", "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga")
	if out != "10\n" {
		t.Errorf("got %q, want 10", out)
	}

	code, _, errOut := run(t, "", "cost", "$2b$99$UIdbgxKHq5Q5n6jtFvHVpe")
	if code != 1 || !strings.Contains(errOut, "Error:") {
		t.Errorf("invalid cost: exit %d stderr %q", code, errOut)
	}
}

func TestInfo(t *testing.T) {
	_, out, errOut := run(t, "", "--cost", "4", "info", "$2a$04$UIdbgxKHq5Q5n6jtFvHVpeYQptqgK6Wot61r1.ooV6P9kFygIjsxy")
	want := "driver\tbcrypt\nversion\t2a\ncost\t4\nrehash\ttrue\n"
	if out != want {
		t.Errorf("got %q, want %q (stderr %q)", out, want, errOut)
	}

	_, out, _ = run(t, "", "--cost", "4", "info", knownHash)
	if !strings.HasSuffix(out, "rehash\tfalse\n") {
		t.Errorf("current hash should not need a rehash: %q", out)
	}
}

func TestCalibrate(t *testing.T) {
	code, out, errOut := run(t, "", "calibrate", "--target", "1ns")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != "4\n" {
		t.Errorf("got %q, want 4", out)
	}
	if !strings.HasPrefix(errOut, "cost 4 took ") {
		t.Errorf("stderr %q does not report the timing", errOut)
	}

	_, out, _ = run(t, "", "calibrate", "--target", "1h", "--max", "5")
	if out != "5\n" {
		t.Errorf("capped run: got %q, want 5", out)
	}

	if code, _, _ := run(t, "", "calibrate", "--max", "2"); code != 1 {
		t.Errorf("--max 2: exit %d, want 1", code)
	}
}
