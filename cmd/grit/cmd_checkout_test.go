package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckoutCmd_CreateAndSwitchBack(t *testing.T) {
	r, dir := initCLIRepo(t)
	writeRepoFile(t, dir, "a.txt", "base\n")
	if _, err := r.StageFile(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if _, err := r.Commit("base", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	out := runCommand(t, dir, newCheckoutCmd, "-b", "dev")
	if !strings.Contains(out, "switched to new branch 'dev'") {
		t.Errorf("output %q lacks the new-branch notice", out)
	}

	out = runCommand(t, dir, newCheckoutCmd, "main")
	if !strings.Contains(out, "switched to branch 'main'") {
		t.Errorf("output %q lacks the switch notice", out)
	}
}

func TestCheckoutCmd_RefusedWhenStaged(t *testing.T) {
	r, dir := initCLIRepo(t)
	writeRepoFile(t, dir, "a.txt", "base\n")
	if _, err := r.StageFile(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if _, err := r.Commit("base", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := r.CreateBranch("dev"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	writeRepoFile(t, dir, "pending.txt", "pending\n")
	if _, err := r.StageFile(filepath.Join(dir, "pending.txt")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}

	out := runCommand(t, dir, newCheckoutCmd, "dev")
	if !strings.Contains(out, "Please commit your changes before checking out a different branch") {
		t.Errorf("output %q lacks the refusal notice", out)
	}
	if got := r.CurrentBranch(); got != "main" {
		t.Errorf("CurrentBranch = %q, want main", got)
	}
}

func TestCheckoutCmd_NoSuchBranch(t *testing.T) {
	r, dir := initCLIRepo(t)
	writeRepoFile(t, dir, "a.txt", "base\n")
	if _, err := r.StageFile(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if _, err := r.Commit("base", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	out := runCommand(t, dir, newCheckoutCmd, "ghost")
	if !strings.Contains(out, "branch 'ghost' does not exist") {
		t.Errorf("output %q lacks the missing-branch notice", out)
	}
}

func TestCheckoutCmd_SwitchRemovesBranchOnlyFile(t *testing.T) {
	r, dir := initCLIRepo(t)
	writeRepoFile(t, dir, "a.txt", "base\n")
	if _, err := r.StageFile(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if _, err := r.Commit("base", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	runCommand(t, dir, newCheckoutCmd, "-b", "dev")

	for _, rel := range []string{"a.txt", "extra.txt"} {
		writeRepoFile(t, dir, rel, rel+"\n")
		if _, err := r.StageFile(filepath.Join(dir, rel)); err != nil {
			t.Fatalf("StageFile(%s): %v", rel, err)
		}
	}
	if _, err := r.Commit("dev work", "tester"); err != nil {
		t.Fatalf("Commit dev: %v", err)
	}

	runCommand(t, dir, newCheckoutCmd, "main")

	if _, err := os.Stat(filepath.Join(dir, "extra.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("extra.txt should be gone on main, stat err = %v", err)
	}
}
