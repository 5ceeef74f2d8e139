package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/secandoalei/secando/internal/export"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/services"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage study plans of the logged-in account",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.requireUser(cmd.Context())
		if err != nil {
			return err
		}
		plans, err := env.svc.Plans.List(cmd.Context(), u.Email)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(plans) == 0 {
			fmt.Fprintln(out, "Nenhum projeto ainda. Crie um com `secando plan create`.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-24s  %-28s  %5s  %s\n", "ID", "Projeto", "Lei", "Dias", "Progresso")
		fmt.Fprintln(out, strings.Repeat("─", 108))
		for _, p := range plans {
			fmt.Fprintf(out, "%-36s  %-24s  %-28s  %5d  %d%%\n",
				p.ID,
				truncate(p.Name, 24),
				truncate(p.LawTitle, 28),
				len(p.Blocks),
				p.ProgressPercent(),
			)
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a plan's blocks and completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := loadPlan(cmd, env, args[0])
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), p)
		return nil
	},
}

var planCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a plan with AI from a law text and attachments",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{ai: true})
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.requireUser(cmd.Context())
		if err != nil {
			return err
		}
		if !env.svc.AIEnabled() {
			return services.ErrAIUnavailable
		}

		name, _ := cmd.Flags().GetString("name")
		days, _ := cmd.Flags().GetInt("days")
		if days == 0 {
			days = env.cfg.Study.DefaultDays
		}
		textFile, _ := cmd.Flags().GetString("text-file")
		paths, _ := cmd.Flags().GetStringArray("attach")

		text, err := readText(cmd, textFile)
		if err != nil {
			return err
		}
		attachments, err := plan.LoadAttachments(cmd.Context(), paths)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Gerando cronograma com IA...")
		p, err := env.svc.Plans.Create(cmd.Context(), plan.Request{
			Owner:  u.Email,
			Name:   name,
			Days:   days,
			Source: plan.Source{Text: text, Attachments: attachments},
		})
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), p)
		return nil
	},
}

var planExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a plan as PDF, or as a spreadsheet with --xlsx",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := loadPlan(cmd, env, args[0])
		if err != nil {
			return err
		}

		asXLSX, _ := cmd.Flags().GetBool("xlsx")
		name, write := export.PlanFilename(p), export.WritePlanPDF
		if asXLSX {
			name, write = export.PlanXLSXFilename(p), export.WritePlanXLSX
		}
		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = env.svc.ExportPath(name)
		}

		err = export.WriteFile(path, func(w io.Writer) error { return write(w, p) })
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cronograma salvo em %s\n", path)
		return nil
	},
}

var planImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import a plan from a spreadsheet written by plan export --xlsx",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.requireUser(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		blocks, completed, err := export.ReadPlanXLSX(f)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = strings.TrimPrefix(strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])), "Cronograma_")
			name = strings.ReplaceAll(name, "_", " ")
		}
		lawTitle, _ := cmd.Flags().GetString("law-title")

		p, err := env.svc.Plans.Import(cmd.Context(), u.Email, name, lawTitle, blocks, completed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Projeto %q importado (%s), %d dias.\n", p.Name, p.ID, len(p.Blocks))
		return nil
	},
}

var planToggleCmd = &cobra.Command{
	Use:   "toggle <id> <day>",
	Short: "Mark a day done, or undo it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid day %q: %w", args[1], err)
		}

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.requireUser(cmd.Context())
		if err != nil {
			return err
		}
		p, err := env.svc.Plans.ToggleDay(cmd.Context(), u.Email, args[0], day)
		if err != nil {
			return err
		}

		state := "pendente"
		if p.IsCompleted(day) {
			state = "concluído"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dia %d %s. Progresso: %d%%\n", day, state, p.ProgressPercent())
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.requireUser(cmd.Context())
		if err != nil {
			return err
		}
		if err := env.svc.Plans.Delete(cmd.Context(), u.Email, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Projeto excluído.")
		return nil
	},
}

func loadPlan(cmd *cobra.Command, env *appEnv, id string) (*plan.Plan, error) {
	u, err := env.requireUser(cmd.Context())
	if err != nil {
		return nil, err
	}
	return env.svc.Plans.Get(cmd.Context(), u.Email, id)
}

// readText reads the law text from path, or stdin for "-".
func readText(cmd *cobra.Command, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read law text: %w", err)
	}
	return string(data), nil
}

func printPlan(w io.Writer, p *plan.Plan) {
	fmt.Fprintf(w, "%s · %s\n", p.Name, p.LawTitle)
	fmt.Fprintf(w, "Cronograma de %d dias, %d%% concluído\n", len(p.Blocks), p.ProgressPercent())

	for _, group := range p.Groups() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, group)
		fmt.Fprintln(w, strings.Repeat("─", 60))
		for _, b := range p.BlocksIn(group) {
			mark := " "
			if p.IsCompleted(b.Day) {
				mark = "✓"
			}
			fmt.Fprintf(w, "[%s] Dia %-3d %s (%s)\n", mark, b.Day, b.Title, b.Articles)
		}
	}
}

func init() {
	planCreateCmd.Flags().String("name", "", "Project name")
	planCreateCmd.Flags().Int("days", 0, "Number of study days (default from config)")
	planCreateCmd.Flags().String("text-file", "", "File with the law text, or - for stdin")
	planCreateCmd.Flags().StringArray("attach", nil, "PDF or image of the law (repeatable)")

	planExportCmd.Flags().Bool("xlsx", false, "Write a spreadsheet instead of a PDF")
	planExportCmd.Flags().StringP("out", "o", "", "Output path (default: export dir)")

	planImportCmd.Flags().String("name", "", "Project name (default: from the file name)")
	planImportCmd.Flags().String("law-title", "", "Law title (default: the project name)")

	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planExportCmd)
	planCmd.AddCommand(planImportCmd)
	planCmd.AddCommand(planToggleCmd)
	planCmd.AddCommand(planDeleteCmd)
}
