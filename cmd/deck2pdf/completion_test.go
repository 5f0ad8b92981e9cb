package main

// Notes:
// - Scripts are checked for the markers each shell needs, not executed.
// - Flags are extracted from the real FlagSets, so a renamed flag shows up
//   here without touching the completion code.

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script content per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{
			"_deck2pdf()",
			"complete -F _deck2pdf deck2pdf",
			"export fix-images init doctor completion version help",
			"--backend)",
			`compgen -W "rod chromedp"`,
			"--dry-run",
		}},
		{ShellZsh, []string{
			"#compdef deck2pdf",
			"_arguments",
			"_describe",
			"{-c,--config}'",
			"(rod chromedp)",
		}},
		{ShellFish, []string{
			"complete -c deck2pdf",
			"__fish_use_subcommand",
			"__fish_seen_subcommand_from fix-images",
			"-l hide-ui",
			"rod chromedp",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("%s script missing %q", tt.shell, s)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("powershell"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Fatalf("error = %v, want ErrUnsupportedShell", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q for an unsupported shell", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestExtractFlagsFromFlagSet - Types and metadata
// ---------------------------------------------------------------------------

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	flags := extractFlagsFromFlagSet(buildExportFlagSet(io.Discard, &exportFlags{}))
	byName := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		byName[f.Long] = f
	}

	tests := []struct {
		name      string
		wantType  flagType
		wantShort string
	}{
		{"config", flagFile, "c"},
		{"output", flagDir, "o"},
		{"backend", flagEnum, ""},
		{"slides", flagInt, ""},
		{"hide-ui", flagBool, ""},
		{"url", flagString, ""},
		{"quiet", flagBool, "q"},
	}
	for _, tt := range tests {
		f, ok := byName[tt.name]
		if !ok {
			t.Errorf("flag --%s not extracted", tt.name)
			continue
		}
		if f.Type != tt.wantType {
			t.Errorf("--%s type = %v, want %v", tt.name, f.Type, tt.wantType)
		}
		if f.Short != tt.wantShort {
			t.Errorf("--%s short = %q, want %q", tt.name, f.Short, tt.wantShort)
		}
	}

	if got := byName["backend"].Values; len(got) != 2 {
		t.Errorf("--backend values = %v, want rod and chromedp", got)
	}
}

func TestGetCommands(t *testing.T) {
	t.Parallel()

	cmds := getCommands()
	if got := commandNames(cmds); got != "export fix-images init doctor completion version help" {
		t.Errorf("commandNames() = %q", got)
	}
	fix := findCommand(cmds, cmdFixImages)
	if fix == nil || !fix.TakesDirs {
		t.Errorf("fix-images = %+v, want TakesDirs", fix)
	}
	if findCommand(cmds, "convert") != nil {
		t.Error("findCommand() found an unknown command")
	}
}

func TestZshSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		flag flagDef
		want string
	}{
		{"bool with short", flagDef{Long: "quiet", Short: "q", Type: flagBool, Desc: "only show errors"},
			"{-q,--quiet}'[only show errors]'"},
		{"long only", flagDef{Long: "json", Type: flagBool, Desc: "print JSON"},
			"--json'[print JSON]'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := zshSpec(tt.flag); got != tt.want {
				t.Errorf("zshSpec() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(&fakeExporter{})
	if err := runCompletion([]string{"bash"}, env); err != nil {
		t.Fatalf("runCompletion() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "complete -F _deck2pdf deck2pdf") {
		t.Errorf("stdout = %q, want bash script", stdout.String())
	}
}
