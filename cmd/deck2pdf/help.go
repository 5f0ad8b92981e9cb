package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pdf [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export       Capture every slide and merge them into a PDF (default)")
	fmt.Fprintln(w, "  fix-images   Rewrite base64-encoded PNG files as binary")
	fmt.Fprintln(w, "  init         Detect slides and write a starter config")
	fmt.Fprintln(w, "  doctor       Check browser and environment setup")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'deck2pdf help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pdf [export] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture every slide of a running presentation and merge the screenshots into one PDF.")
	fmt.Fprintln(w, "The dev server must already be running.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: deck2pdf.config)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: deck-export)")
	fmt.Fprintln(w, "      --pdf-name <name>     PDF file name (default: presentation.pdf)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Presentation:")
	fmt.Fprintln(w, "      --url <url>           Presentation URL")
	fmt.Fprintln(w, "      --slides <n>          Total number of slides")
	fmt.Fprintln(w, "      --hide-ui             Hide header and navigation while capturing")
	fmt.Fprintln(w, "                            Use --hide-ui=false to keep them")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --backend <s>         Backend: rod, chromedp")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium executable")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DECK2PDF_CONFIG, DECK2PDF_URL, DECK2PDF_OUTPUT_DIR, DECK2PDF_BACKEND,")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX")
}

// printFixImagesUsage prints usage for the fix-images command.
func printFixImagesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pdf fix-images [dir...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Find PNG files that hold base64 text and rewrite them as binary.")
	fmt.Fprintln(w, "Scans public and dist when no directory is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -n, --dry-run             Report files without rewriting them")
	fmt.Fprintln(w, "  -w, --watch               Keep running and fix new files")
	fmt.Fprintln(w, "  -j, --jobs <n>            Files fixed in parallel (0 = auto)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show every file checked")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pdf init [project-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scan the project sources for the slide count and the dev server port,")
	fmt.Fprintln(w, "then write deck2pdf.config.json. Detection is heuristic: review the result.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --slides <n>          Slide count (skips detection)")
	fmt.Fprintln(w, "      --url <url>           Presentation URL (skips port detection)")
	fmt.Fprintln(w, "  -c, --config <path>       File to write (default: <project-dir>/deck2pdf.config.json)")
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing config file")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pdf doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome is available, the output directory is writable,")
	fmt.Fprintln(w, "and the configured presentation answers.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --probe               Check the presentation URL (default true)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdExport:
		printExportUsage(env.Stdout)
	case cmdFixImages:
		printFixImagesUsage(env.Stdout)
	case cmdInit:
		printInitUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: deck2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: deck2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
