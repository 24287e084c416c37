// ovlkit — Overlay Kit: carrier string overlay resolver for Android-style resource bundles.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovlkit/ovlkit/bundle"
	"github.com/ovlkit/ovlkit/carriermeta"
	"github.com/ovlkit/ovlkit/config"
	"github.com/ovlkit/ovlkit/i18n"
	"github.com/ovlkit/ovlkit/overlay"
	"github.com/ovlkit/ovlkit/resxml"
	"github.com/ovlkit/ovlkit/subinfo"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ovlkit",
		Short: "Overlay Kit: carrier string overlay resolver",
		Long: `ovlkit — Overlay Kit: carrier string overlay resolver.

Resolves carrier-overridden strings from Android-style resource overlay
bundles: a res/ directory with a base values/strings.xml and optional
MCC/MNC-qualified layers (values-mcc310-mnc260/). Carrier overrides live
in "<name>_carrier_overrides" string-arrays with ":::<carrier>:::" item
prefixes.

Commands:
  resolve     Resolve a string for a subscription and carrier
  status      Show bundle layers, keys, and carrier override coverage
  lint        Validate carrier override arrays
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newResolveCmd(),
		newStatusCmd(),
		newLintCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ovlkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// project loading
// ---------------------------------------------------------------------------

func loadProject() (*config.File, *subinfo.Registry) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	reg, err := cfg.Registry(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	return cfg, reg
}

// ---------------------------------------------------------------------------
// resolve (look up one string)
// ---------------------------------------------------------------------------

func newResolveCmd() *cobra.Command {
	var (
		subID     int
		carrierID int
		rawArgs   []string
	)

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a string for a subscription and carrier",
		Long: `Resolve a string resource for a subscription.

The subscription selects the bundle layer (via its SIM's MCC/MNC) and the
carrier id used for override matching. Format arguments are passed with
repeated --arg flags; numeric-looking arguments are coerced to numbers so
templates with %d and %f verbs work.

Examples:
  ovlkit resolve wifi_eap_error_message_code_32760 --sub 1 --arg 32760
  ovlkit resolve greeting --carrier 5 --arg World`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runResolve(args[0], subID, carrierID, rawArgs)
		},
	}

	cmd.Flags().IntVar(&subID, "sub", 0, "Subscription id (default: config default_sub)")
	cmd.Flags().IntVar(&carrierID, "carrier", 0, "Carrier id override (default: from subscription)")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Format argument (repeatable)")

	return cmd
}

func runResolve(name string, subID, carrierID int, rawArgs []string) {
	cfg, reg := loadProject()

	if subID == 0 {
		subID = cfg.DefaultSub
	}
	sub, known := reg.Lookup(subID)
	if !known {
		logWarning("Subscription %d is not declared, resolving without carrier context", subID)
	}
	if carrierID != 0 {
		sub.CarrierID = carrierID
	}

	r, err := bundle.ForSubscription(cfg.AbsResDir(rootDir), sub, func(format string, args ...any) {
		logWarning(format, args...)
	})
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	args := make([]any, len(rawArgs))
	for i, raw := range rawArgs {
		args[i] = coerceArg(raw)
	}

	result, ok := r.GetString(name, args...)
	if !ok {
		logError("%s: %s", i18n.T("Resource not found"), name)
		os.Exit(1)
	}

	logInfo("%s (sub %d, %s)", i18n.T("Resolved"), sub.ID, carriermeta.Name(sub.CarrierID))
	fmt.Println(result)
}

// coerceArg converts a CLI argument to the value type its format verb
// most likely expects: int, then float, then string.
func coerceArg(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// ---------------------------------------------------------------------------
// status (read-only: bundle layers + carrier coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bundle layers, keys, and carrier override coverage",
		Long: `Show the bundle's qualifier layers, string counts, declared
subscriptions, and which carriers have override coverage. Does not modify
any files.`,
		Run: func(cmd *cobra.Command, args []string) {
			runStatus()
		},
	}

	return cmd
}

func runStatus() {
	cfg, reg := loadProject()
	resDir := cfg.AbsResDir(rootDir)

	fmt.Fprintf(os.Stderr, "\n%sOverlay Bundle%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	absRoot, _ := filepath.Abs(rootDir)
	fmt.Fprintf(os.Stderr, "  Root:     %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "  Res dir:  %s\n", cfg.ResDir)

	layers := []resxml.Qualifier{{}}
	layers = append(layers, resxml.DetectQualifiers(resDir)...)

	fmt.Fprintf(os.Stderr, "\n%-24s %-10s %-10s\n", "Layer", "Strings", "Overrides")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 46))

	coverage := make(map[int]int) // carrier id -> override entry count
	for _, q := range layers {
		f, err := resxml.ParseFile(resxml.StringsPath(resDir, q))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "%-24s %-10s %-10s\n", q.Dir(), "missing", "-")
				continue
			}
			logError("%v", err)
			os.Exit(1)
		}

		arrays := 0
		for _, name := range f.ArrayNames() {
			if !strings.HasSuffix(name, overlay.OverridesSuffix) {
				continue
			}
			arrays++
			items, _ := f.StringArray(name)
			for _, ov := range overlay.ParseOverrides(items) {
				coverage[ov.CarrierID]++
			}
		}
		fmt.Fprintf(os.Stderr, "%-24s %-10d %-10d\n", q.Dir(), len(f.StringNames()), arrays)
	}

	if len(coverage) > 0 {
		fmt.Fprintf(os.Stderr, "\n%sCarrier Coverage%s\n", colorBlue, colorReset)
		fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
		ids := make([]int, 0, len(coverage))
		for id := range coverage {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			count := fmt.Sprintf(i18n.N("%d override", "%d overrides", coverage[id]), coverage[id])
			fmt.Fprintf(os.Stderr, "  %-20s (id %d): %s\n", carriermeta.Name(id), id, count)
		}
	}

	if ids := reg.IDs(); len(ids) > 0 {
		fmt.Fprintf(os.Stderr, "\n%sSubscriptions%s\n", colorBlue, colorReset)
		fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
		for _, id := range ids {
			sub, _ := reg.Lookup(id)
			fmt.Fprintf(os.Stderr, "  sub %-4d mcc/mnc %s/%s  %s\n", sub.ID, sub.MCC, sub.MNC,
				carriermeta.Name(sub.CarrierID))
		}
	}

	fmt.Fprintln(os.Stderr)
}

// ---------------------------------------------------------------------------
// lint (validate override arrays)
// ---------------------------------------------------------------------------

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Validate carrier override arrays",
		Long: `Validate the bundle's carrier override arrays.

Reported problems:
  - override array entries without a well-formed ":::<carrier>:::" prefix
  - duplicate overrides for the same carrier in one array (first wins)
  - format verbs differing between an override and its base string
  - override arrays without a base string in the same layer set

Exits non-zero when problems are found.`,
		Run: func(cmd *cobra.Command, args []string) {
			runLint()
		},
	}

	return cmd
}

func runLint() {
	cfg, _ := loadProject()
	resDir := cfg.AbsResDir(rootDir)

	layers := []resxml.Qualifier{{}}
	layers = append(layers, resxml.DetectQualifiers(resDir)...)

	// Base strings may live in any layer; collect them all first.
	baseTemplates := make(map[string]string)
	files := make(map[string]*resxml.File)
	for _, q := range layers {
		f, err := resxml.ParseFile(resxml.StringsPath(resDir, q))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			logError("%v", err)
			os.Exit(1)
		}
		files[q.Dir()] = f
		for _, name := range f.StringNames() {
			if _, exists := baseTemplates[name]; !exists {
				v, _ := f.String(name)
				baseTemplates[name] = v
			}
		}
	}

	problems := 0
	for _, q := range layers {
		f, ok := files[q.Dir()]
		if !ok {
			continue
		}
		for _, name := range f.ArrayNames() {
			key, isOverride := strings.CutSuffix(name, overlay.OverridesSuffix)
			if !isOverride || key == "" {
				continue
			}
			items, _ := f.StringArray(name)
			base, hasBase := baseTemplates[key]
			for _, p := range lintOverrideArray(name, base, hasBase, items) {
				logWarning("%s: %s", q.Dir(), p)
				problems++
			}
		}
	}

	if problems == 0 {
		logSuccess("%s", i18n.T("No problems found"))
		return
	}
	logError(i18n.N("%d problem found", "%d problems found", problems), problems)
	os.Exit(1)
}

// lintOverrideArray checks one override array against its base template.
func lintOverrideArray(name, base string, hasBase bool, items []string) []string {
	var problems []string
	if !hasBase {
		problems = append(problems, fmt.Sprintf("%s: no base string for this override array", name))
	}

	baseVerbs := overlay.Verbs(base)
	seen := make(map[int]bool)
	for i, raw := range items {
		ov, ok := overlay.ParseOverride(raw)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s[%d]: no well-formed \":::<carrier>:::\" prefix", name, i))
			continue
		}
		if seen[ov.CarrierID] {
			problems = append(problems, fmt.Sprintf("%s[%d]: duplicate override for carrier %d (first entry wins)", name, i, ov.CarrierID))
		}
		seen[ov.CarrierID] = true

		if hasBase {
			if verbs := overlay.Verbs(ov.Template); !slices.Equal(verbs, baseVerbs) {
				problems = append(problems, fmt.Sprintf("%s[%d]: format verbs %v differ from base %v", name, i, verbs, baseVerbs))
			}
		}
	}
	return problems
}
