package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/builders"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/rulebook/dnd5e/calculators"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
)

var manifestPath string

const inMemoryWarning = "Warning: nothing was persisted. Set VAULT_REDIS_URL to a reachable Redis to keep snapshots between commands."

var importCmd = &cobra.Command{
	Use:   "import [files or directories...]",
	Short: "Import Foundry actor exports into the vault",
	Long: `Import one or more Foundry actor exports. Directories are expanded to
the .json files they contain. With --manifest, the files listed in a YAML or
JSON roster manifest are imported instead.`,
	RunE: runImport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := service.List(cmd.Context())
		if err != nil {
			return err
		}
		return printSummaries(cmd.OutOrStdout(), summaries)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id or name>",
	Short: "Show the computed sheet of a stored snapshot",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := service.Find(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			if matches, ok := dnderr.GetMeta(err)["matches"].([]string); ok {
				return fmt.Errorf("%w (candidates: %s)", err, strings.Join(matches, ", "))
			}
			return err
		}
		return printSheet(cmd.OutOrStdout(), sheet)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search snapshots by name, class or item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := service.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printSummaries(cmd.OutOrStdout(), summaries)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var computeCmd = &cobra.Command{
	Use:   "compute <file>",
	Short: "Compute the sheet of an export without storing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		snapshot, err := character.Parse(raw)
		if err != nil {
			return err
		}
		return printSheet(cmd.OutOrStdout(), calculators.Compute(snapshot))
	},
}

func init() {
	importCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Roster manifest listing the files to import")
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		results []*vault.ImportResult
		err     error
	)

	switch {
	case manifestPath != "":
		results, err = service.ImportManifest(cmd.Context(), manifestPath)
	case len(args) > 0:
		results, err = service.ImportFiles(cmd.Context(), args)
	default:
		return dnderr.InvalidArgument("give at least one file or --manifest")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			logger.Debug("import failed", zap.String("path", result.Path), zap.Error(result.Err))
			fmt.Fprintf(out, "FAIL  %s: %v\n", result.Path, result.Err)
			continue
		}
		fmt.Fprintf(out, "OK    %s -> %s (%s)\n", result.Path, result.Record.ID, result.Record.Name)
	}

	fmt.Fprintf(out, "Imported %d of %d\n", len(results)-failed, len(results))
	if inMemory {
		fmt.Fprintln(out, inMemoryWarning)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(results))
	}
	return nil
}

func printSummaries(out io.Writer, summaries []*vault.Summary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No characters found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLASSES\tLEVEL\tAC")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", s.ID, s.Name, s.Classes, s.Level, s.ArmorClass)
	}
	return w.Flush()
}

func printSheet(out io.Writer, sheet *calculators.Sheet) error {
	s := sheet.Snapshot
	stats := sheet.Stats

	name := s.Name
	if strings.TrimSpace(name) == "" {
		name = vault.UnnamedCharacter
	}
	fmt.Fprintf(out, "%s\n", name)
	if classes := s.ClassSummary(); classes != "" {
		fmt.Fprintf(out, "%s\n", classes)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Level\t%d\n", stats.Level)
	fmt.Fprintf(w, "Armor Class\t%d (%s)\n", sheet.ArmorClass.Value, sheet.ArmorClass.Source)
	fmt.Fprintf(w, "Proficiency\t%+d\n", stats.ProficiencyBonus)
	fmt.Fprintf(w, "Initiative\t%+d\n", stats.Initiative)
	fmt.Fprintf(w, "Passive Perception\t%d\n", stats.PassivePerception)
	for _, a := range shared.Abilities {
		fmt.Fprintf(w, "%s\tmod %+d\tsave %+d\n", a.Name(), stats.Modifiers[a], stats.SavingThrows[a])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(stats.Skills) > 0 {
		fmt.Fprintln(out, "Skills")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, code := range sortedSkillCodes(stats.Skills) {
			fmt.Fprintf(w, "  %s\t%+d\n", builders.SkillName(code), stats.Skills[code])
		}
		return w.Flush()
	}
	return nil
}

func sortedSkillCodes(skills map[string]int) []string {
	codes := make([]string, 0, len(skills))
	for code := range skills {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return builders.SkillName(codes[i]) < builders.SkillName(codes[j])
	})
	return codes
}
