package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRequiresUsername(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(nil, strings.NewReader(""), &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "missing required flags") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
}

func TestRunCreatesUserOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")
	args := []string{"-user", "alice", "-password", "s3cret", "-db", dbPath}

	var stdout, stderr bytes.Buffer
	if err := run(args, strings.NewReader(""), &stdout, &stderr); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !strings.Contains(stdout.String(), "created successfully") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}

	err := run(args, strings.NewReader(""), &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate user error, got %v", err)
	}
}

func TestRunPromptsForPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-user", "bob", "-db", dbPath}, strings.NewReader("hunter2\n"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run with piped password: %v", err)
	}
	if !strings.Contains(stdout.String(), "Password: ") {
		t.Fatalf("expected password prompt, got %q", stdout.String())
	}
}

func TestRunRejectsBlankPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-user", "carol", "-db", dbPath}, strings.NewReader("   \n"), &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "password cannot be empty") {
		t.Fatalf("expected blank password rejection, got %v", err)
	}
}
