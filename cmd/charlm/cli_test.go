package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestConfig writes a config file into a temporary directory and returns
// its path. The corpus database lives next to it.
func setupTestConfig(t *testing.T, seed *uint64) string {
	t.Helper()
	dir := t.TempDir()
	config := DefaultConfig()
	config.LogLevel = "error"
	config.WindowLength = 3
	config.GenerateLength = 3
	config.Seed = seed
	config.CorpusDatabasePath = filepath.Join(dir, "db", "corpus.db")

	data, err := json.Marshal(config)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "charlm.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeCorpus writes content to a file in a temporary directory.
func writeCorpus(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes a fresh CLI with the given config and arguments.
func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := NewCLI("test")
	c.rootCmd.SetOut(&stdout)
	c.rootCmd.SetErr(&stderr)
	c.rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := c.Run()
	return stdout.String(), err
}

func TestGenerateCommand(t *testing.T) {
	configPath := setupTestConfig(t, nil)
	corpusPath := writeCorpus(t, "abc.txt", "abcabcabcabc")

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "Seed text argument", args: []string{"generate", "--file", corpusPath, "abc"}, expected: "abcabc\n"},
		{name: "Seed defaults to the first window", args: []string{"generate", "--file", corpusPath}, expected: "abcabc\n"},
		{name: "Length flag", args: []string{"generate", "--file", corpusPath, "--length", "5", "bca"}, expected: "bcabcabc\n"},
		{name: "Zero length", args: []string{"generate", "--file", corpusPath, "--length", "0", "xyz"}, expected: "xyz\n"},
		{name: "Window flag", args: []string{"generate", "--file", corpusPath, "--window", "1", "--length", "2", "c"}, expected: "cab\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCLI(t, configPath, tc.args...)
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			if out != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, out)
			}
		})
	}
}

func TestGenerateCommandErrors(t *testing.T) {
	configPath := setupTestConfig(t, nil)
	corpusPath := writeCorpus(t, "abc.txt", "abcabcabcabc")
	shortPath := writeCorpus(t, "short.txt", "ab")

	testCases := []struct {
		name          string
		args          []string
		errorContains string
	}{
		{name: "No corpus", args: []string{"generate"}, errorContains: "no corpus given"},
		{name: "Corpus too short", args: []string{"generate", "--file", shortPath}, errorContains: "corpus shorter"},
		{name: "Seed too short", args: []string{"generate", "--file", corpusPath, "ab"}, errorContains: "seed text shorter"},
		{name: "Missing file", args: []string{"generate", "--file", corpusPath + ".missing"}, errorContains: "could not open corpus file"},
		{name: "Bad window", args: []string{"generate", "--file", corpusPath, "--window", "0"}, errorContains: "window length must be positive"},
		{name: "Missing document", args: []string{"generate", "--doc", "nope"}, errorContains: "could not load document"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCLI(t, configPath, tc.args...)
			if err == nil {
				t.Fatal("expected an error but got none")
			}
			if !strings.Contains(err.Error(), tc.errorContains) {
				t.Errorf("expected error to contain %q, got %q", tc.errorContains, err.Error())
			}
		})
	}
}

func TestGenerateCommandDeterministic(t *testing.T) {
	seed := uint64(1234)
	configPath := setupTestConfig(t, &seed)
	corpusPath := writeCorpus(t, "sea.txt", "she sells sea shells by the sea shore, the shells she sells are sea shells")

	args := []string{"generate", "--file", corpusPath, "--window", "2", "--length", "60", "sh"}
	first, err := runCLI(t, configPath, args...)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runCLI(t, configPath, args...)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected identical output with a configured seed:\n%q\n%q", first, second)
	}

	// The flag overrides the config seed and gives the same answer for the same value.
	third, err := runCLI(t, configPath, append(args, "--seed", "1234")...)
	if err != nil {
		t.Fatal(err)
	}
	if third != first {
		t.Errorf("expected --seed 1234 to match config seed 1234:\n%q\n%q", first, third)
	}
}

func TestGenerateCommandOutFile(t *testing.T) {
	configPath := setupTestConfig(t, nil)
	corpusPath := writeCorpus(t, "abc.txt", "abcabcabcabc")
	outPath := filepath.Join(t.TempDir(), "out.txt")

	out, err := runCLI(t, configPath, "generate", "--file", corpusPath, "--out", outPath, "abc")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(data) != "abcabc" {
		t.Errorf("expected %q in output file, got %q", "abcabc", string(data))
	}
}

func TestGenerateCommandHTML(t *testing.T) {
	configPath := setupTestConfig(t, nil)
	htmlPath := writeCorpus(t, "page.html", "<html><head><script>var q = 'zzz';</script></head><body><p>abcabcabcabc</p></body></html>")

	out, err := runCLI(t, configPath, "generate", "--html", htmlPath, "abc")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "abcabc\n" {
		t.Errorf("expected %q, got %q", "abcabc\n", out)
	}
}

func TestTableAndStatsCommands(t *testing.T) {
	configPath := setupTestConfig(t, nil)
	corpusPath := writeCorpus(t, "abc.txt", "abcabcabcabc")

	out, err := runCLI(t, configPath, "table", "--file", corpusPath)
	if err != nil {
		t.Fatalf("table failed: %v", err)
	}
	want := "\"abc\" : ('a' 3 1 1)\n\"bca\" : ('b' 3 1 1)\n\"cab\" : ('c' 3 1 1)\n"
	if out != want {
		t.Errorf("expected table %q, got %q", want, out)
	}

	out, err = runCLI(t, configPath, "stats", "--file", corpusPath)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, line := range []string{"window_length: 3", "windows:       3", "transitions:   3", "observations:  9"} {
		if !strings.Contains(out, line) {
			t.Errorf("expected stats output to contain %q, got %q", line, out)
		}
	}
}

func TestCorpusCommands(t *testing.T) {
	configPath := setupTestConfig(t, nil)
	abcPath := writeCorpus(t, "abc.txt", "abcabcabcabc")
	htmlPath := writeCorpus(t, "page.html", "<p>xyzxyzxyz</p>")

	if _, err := runCLI(t, configPath, "corpus", "add", "letters", abcPath); err != nil {
		t.Fatalf("corpus add failed: %v", err)
	}
	if _, err := runCLI(t, configPath, "corpus", "add", "page", htmlPath, "--html"); err != nil {
		t.Fatalf("corpus add --html failed: %v", err)
	}

	out, err := runCLI(t, configPath, "corpus", "list")
	if err != nil {
		t.Fatalf("corpus list failed: %v", err)
	}
	if out != "1\tletters\t12\n2\tpage\t9\n" {
		t.Errorf("unexpected corpus list output %q", out)
	}

	out, err = runCLI(t, configPath, "generate", "--doc", "letters", "abc")
	if err != nil {
		t.Fatalf("generate --doc failed: %v", err)
	}
	if out != "abcabc\n" {
		t.Errorf("expected %q, got %q", "abcabc\n", out)
	}

	// Both documents, joined by a newline.
	out, err = runCLI(t, configPath, "generate", "--all-docs", "xyz")
	if err != nil {
		t.Fatalf("generate --all-docs failed: %v", err)
	}
	if out != "xyzxyz\n" {
		t.Errorf("expected %q, got %q", "xyzxyz\n", out)
	}

	if _, err := runCLI(t, configPath, "corpus", "rm", "letters"); err != nil {
		t.Fatalf("corpus rm failed: %v", err)
	}
	out, _ = runCLI(t, configPath, "corpus", "list")
	if out != "2\tpage\t9\n" {
		t.Errorf("expected only 'page' after removal, got %q", out)
	}
}
