// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// main_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withTempCwd(t *testing.T, fn func(tmp string)) {
	t.Helper()

	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("os.Getwd failed: %v", err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("os.Chdir(%q) failed: %v", tmp, err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })

	fn(tmp)
}

func TestRunInitContributeVerify(t *testing.T) {
	withTempCwd(t, func(tmp string) {
		challenge := filepath.Join(tmp, "challenge")
		response := filepath.Join(tmp, "response")

		var stdout, stderr bytes.Buffer
		if code := run([]string{"init", "-n", "2", "-challenge", challenge}, &stdout, &stderr); code != 0 {
			t.Fatalf("init exited %d, stderr: %s", code, stderr.String())
		}
		if _, err := os.Stat(challenge); err != nil {
			t.Fatalf("challenge file was not created: %v", err)
		}

		stdin, err := os.Open(os.DevNull)
		if err != nil {
			t.Fatalf("open %s: %v", os.DevNull, err)
		}
		defer stdin.Close()
		oldStdin := os.Stdin
		os.Stdin = stdin
		defer func() { os.Stdin = oldStdin }()

		stdout.Reset()
		stderr.Reset()
		if code := run([]string{"contribute", "-n", "2", "-challenge", challenge, "-response", response}, &stdout, &stderr); code != 0 {
			t.Fatalf("contribute exited %d, stderr: %s", code, stderr.String())
		}
		if _, err := os.Stat(response); err != nil {
			t.Fatalf("response file was not created: %v", err)
		}

		stdout.Reset()
		stderr.Reset()
		if code := run([]string{"verify", "-n", "2", "-challenge", challenge, "-response", response}, &stdout, &stderr); code != 0 {
			t.Fatalf("verify exited %d, stdout: %s stderr: %s", code, stdout.String(), stderr.String())
		}
		if !strings.Contains(stdout.String(), "verification OK") {
			t.Fatalf("expected verification success message, got: %s", stdout.String())
		}
	})
}

func TestRunContributeRefusesToOverwriteResponse(t *testing.T) {
	withTempCwd(t, func(tmp string) {
		challenge := filepath.Join(tmp, "challenge")
		response := filepath.Join(tmp, "response")

		var stdout, stderr bytes.Buffer
		if code := run([]string{"init", "-n", "1", "-challenge", challenge}, &stdout, &stderr); code != 0 {
			t.Fatalf("init exited %d", code)
		}

		stdin, err := os.Open(os.DevNull)
		if err != nil {
			t.Fatalf("open %s: %v", os.DevNull, err)
		}
		defer stdin.Close()
		oldStdin := os.Stdin
		os.Stdin = stdin
		defer func() { os.Stdin = oldStdin }()

		stdout.Reset()
		stderr.Reset()
		if code := run([]string{"contribute", "-n", "1", "-challenge", challenge, "-response", response}, &stdout, &stderr); code != 0 {
			t.Fatalf("first contribute exited %d", code)
		}

		stdout.Reset()
		stderr.Reset()
		if code := run([]string{"contribute", "-n", "1", "-challenge", challenge, "-response", response}, &stdout, &stderr); code == 0 {
			t.Fatal("expected the second contribute to fail: response already exists")
		}
	})
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"frobnicate"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2 for an unknown command, got %d", code)
	}
}
