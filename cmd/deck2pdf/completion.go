package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	TakesDirs bool // accepts directory arguments
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"backend":     {Values: []string{"rod", "chromedp"}},
	"config":      {FileGlob: "*.json,*.yaml,*.yml"},
	"browser-bin": {FileGlob: "*"},
	"output":      {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type, fd.Values = flagEnum, meta.Values
			case meta.FileGlob != "":
				fd.Type, fd.FileGlob = flagFile, meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets, one source of truth.
func getCommands() []commandDef {
	return []commandDef{
		{Name: cmdExport, Desc: "Capture slides and merge them into a PDF",
			Flags: extractFlagsFromFlagSet(buildExportFlagSet(io.Discard, &exportFlags{}))},
		{Name: cmdFixImages, Desc: "Rewrite base64-encoded PNG files as binary",
			Flags: extractFlagsFromFlagSet(buildFixFlagSet(io.Discard, &fixFlags{})), TakesDirs: true},
		{Name: cmdInit, Desc: "Detect slides and write a starter config",
			Flags: extractFlagsFromFlagSet(buildInitFlagSet(io.Discard, &initFlags{})), TakesDirs: true},
		{Name: cmdDoctor, Desc: "Check browser and environment setup",
			Flags: extractFlagsFromFlagSet(buildDoctorFlagSet(io.Discard, &doctorFlags{}))},
		{Name: cmdCompletion, Desc: "Generate shell completion script"},
		{Name: cmdVersion, Desc: "Show version information"},
		{Name: cmdHelp, Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// flagWords returns "--long -s" words for every flag of c.
func flagWords(c commandDef) string {
	words := make([]string, 0, len(c.Flags)*2)
	for _, f := range c.Flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for deck2pdf\n")
	b.WriteString("_deck2pdf() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, f := range uniqueValueFlags(cmds) {
		fmt.Fprintf(&b, "        --%s)\n", f.Long)
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return ;;\n", strings.Join(f.Values, " "))
		case flagDir:
			b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n")
		default:
			b.WriteString("            COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n")
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if [[ $COMP_CWORD -eq 1 && \"$cur\" != -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return\n", commandNames(cmds))
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		if c.TakesDirs {
			fmt.Fprintf(&b, "            if [[ \"$cur\" == -* ]]; then COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); else COMPREPLY=($(compgen -d -- \"$cur\")); fi ;;\n", flagWords(c))
		} else {
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")) ;;\n", flagWords(c))
		}
	}
	if export := findCommand(cmds, cmdExport); export != nil {
		fmt.Fprintf(&b, "        *)\n            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")) ;;\n", flagWords(*export))
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _deck2pdf deck2pdf\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef deck2pdf\n\n")
	b.WriteString("_deck2pdf() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )) && [[ ${words[2]} != -* ]]; then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case ${words[2]} in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n            _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "                %s \\\n", zshSpec(f))
		}
		if c.TakesDirs {
			b.WriteString("                '*:directory:_files -/'\n")
		} else {
			b.WriteString("                && return\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _deck2pdf deck2pdf\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshSpec(f flagDef) string {
	names := "--" + f.Long
	if f.Short != "" {
		names = "{-" + f.Short + ",--" + f.Long + "}"
	}
	spec := "[" + zshEscape(f.Desc) + "]"
	switch f.Type {
	case flagBool:
	case flagEnum:
		spec += ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagDir:
		spec += ":directory:_files -/"
	case flagFile:
		spec += ":file:_files"
	default:
		spec += ":value:"
	}
	return names + "'" + spec + "'"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for deck2pdf\n")
	b.WriteString("complete -c deck2pdf -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c deck2pdf -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c deck2pdf -n '__fish_seen_subcommand_from %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			line += " -d '" + fishEscape(f.Desc) + "'"
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// uniqueValueFlags returns the flags taking a value, once per long name.
func uniqueValueFlags(cmds []commandDef) []flagDef {
	seen := make(map[string]bool)
	var out []flagDef
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type == flagBool || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			out = append(out, f)
		}
	}
	return out
}

func findCommand(cmds []commandDef, name string) *commandDef {
	for i := range cmds {
		if cmds[i].Name == name {
			return &cmds[i]
		}
	}
	return nil
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(deck2pdf completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(deck2pdf completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    deck2pdf completion fish > ~/.config/fish/completions/deck2pdf.fish")
}
