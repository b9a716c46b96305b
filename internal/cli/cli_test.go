package cli

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with a config path inside dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeShapeList(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected %s: %v", filepath.Base(path), err)
	}
	if info.Size() == 0 {
		t.Errorf("%s is empty", filepath.Base(path))
	}
}

func TestParseGrid(t *testing.T) {
	tests := []struct {
		in      string
		want    image.Point
		wantErr bool
	}{
		{"3x3", image.Pt(3, 3), false},
		{"5X4", image.Pt(5, 4), false},
		{"6", image.Pt(6, 6), false},
		{" 2 x 7 ", image.Pt(2, 7), false},
		{"x3", image.Point{}, true},
		{"axb", image.Point{}, true},
	}
	for _, tt := range tests {
		got, err := parseGrid(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseGrid(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseGrid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseStrategyAndProposal(t *testing.T) {
	if _, err := parseStrategy("tightest"); err != nil {
		t.Errorf("tightest should parse: %v", err)
	}
	if _, err := parseStrategy("first-fit"); err != nil {
		t.Errorf("first-fit should parse: %v", err)
	}
	if _, err := parseStrategy("best"); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if _, err := parseProposal("random"); err != nil {
		t.Errorf("random should parse: %v", err)
	}
	if _, err := parseProposal("spiral"); err == nil {
		t.Error("expected error for unknown proposal mode")
	}
}

func TestTileCommand_WritesReports(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	input := writeShapeList(t, dir, "square.csv", "Label,Width,Height,Quantity\nSquare,64,64,1\n")

	if _, err := execute(t, dir, "tile", input, "--profile", "fast", "--out", out); err != nil {
		t.Fatalf("tile failed: %v", err)
	}

	assertFile(t, filepath.Join(out, "square-tiling.png"))
	assertFile(t, filepath.Join(out, "square-tiling.pdf"))
	assertFile(t, filepath.Join(out, "square-leaderboard.xlsx"))
}

func TestTileCommand_IndexOutOfRange(t *testing.T) {
	dir := t.TempDir()
	input := writeShapeList(t, dir, "square.csv", "Label,Width,Height,Quantity\nSquare,64,64,1\n")

	_, err := execute(t, dir, "tile", input, "--index", "3", "--out", dir)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestPlaceCommand_WritesReports(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	input := writeShapeList(t, dir, "parts.csv", "Label,Width,Height,Quantity,Shape\nBlock,100,100,2,rect\nDisc,80,80,1,ellipse\n")

	if _, err := execute(t, dir, "place", input, "--out", out, "--labels", "--strategy", "first-fit"); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	assertFile(t, filepath.Join(out, "parts-placement.png"))
	assertFile(t, filepath.Join(out, "parts-placement.pdf"))
	assertFile(t, filepath.Join(out, "parts-labels.pdf"))
	assertFile(t, filepath.Join(out, "parts-placements.xlsx"))
}

func TestPlaceCommand_RejectsUnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	input := writeShapeList(t, dir, "parts.csv", "Label,Width,Height,Quantity\nBlock,10,10,1\n")

	if _, err := execute(t, dir, "place", input, "--strategy", "best", "--out", dir); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}

func TestPlaceCommand_UnsupportedInput(t *testing.T) {
	dir := t.TempDir()
	input := writeShapeList(t, dir, "photo.png", "not a shape list")

	_, err := execute(t, dir, "place", input, "--out", dir)
	if err == nil || !strings.Contains(err.Error(), "unsupported input") {
		t.Fatalf("expected unsupported input error, got %v", err)
	}
}

func TestCompareCommand_PrintsBothStrategies(t *testing.T) {
	dir := t.TempDir()
	input := writeShapeList(t, dir, "parts.csv", "Label,Width,Height,Quantity\nBlock,100,100,2\n")

	out, err := execute(t, dir, "compare", input)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	for _, want := range []string{"First Fit", "Tightest", "Block #1", "Block #2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestProfilesCommand_ListsBuiltInsAndCustom(t *testing.T) {
	dir := t.TempDir()
	custom := "[[profile]]\nname = \"mine\"\ndescription = \"my own\"\n"
	writeShapeList(t, dir, "profiles.toml", custom)

	out, err := execute(t, dir, "profiles")
	if err != nil {
		t.Fatalf("profiles failed: %v", err)
	}
	for _, want := range []string{"default", "fast", "thorough", "mine", "custom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestUnknownProfile(t *testing.T) {
	dir := t.TempDir()
	input := writeShapeList(t, dir, "square.csv", "Label,Width,Height,Quantity\nSquare,64,64,1\n")

	_, err := execute(t, dir, "tile", input, "--profile", "nope", "--out", dir)
	if err == nil || !strings.Contains(err.Error(), "unknown profile") {
		t.Fatalf("expected unknown profile error, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, dir, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	assertFile(t, filepath.Join(dir, "config.toml"))

	if _, err := execute(t, dir, "config", "init"); err == nil {
		t.Error("expected an error when the file exists")
	}
	if _, err := execute(t, dir, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}
}
