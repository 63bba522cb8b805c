package main

import "testing"

func TestRootCommandHasSolveAndMineSubcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	if !names["solve"] {
		t.Error("expected a solve subcommand")
	}
	if !names["mine"] {
		t.Error("expected a mine subcommand")
	}
}

func TestDecodeOrRandomGeneratesRequestedLength(t *testing.T) {
	b, err := decodeOrRandom("", 32)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 32 {
		t.Errorf("got %d bytes, want 32", len(b))
	}
}

func TestDecodeOrRandomRejectsWrongLength(t *testing.T) {
	if _, err := decodeOrRandom("aabb", 32); err == nil {
		t.Error("expected an error for a short hex string")
	}
}
