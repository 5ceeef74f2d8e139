package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secandoalei/secando/internal/services"
)

var explainCmd = &cobra.Command{
	Use:   "explain <term>",
	Short: "Explain a legal term in plain language",
	Long: "Explain a legal term. The passage it appears in comes from --context, " +
		"or from a block summary with --plan and --day.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{ai: true})
		if err != nil {
			return err
		}
		defer env.Close()

		if env.svc.Explainer == nil {
			return services.ErrAIUnavailable
		}

		passage, _ := cmd.Flags().GetString("context")
		if planID, _ := cmd.Flags().GetString("plan"); planID != "" {
			day, _ := cmd.Flags().GetInt("day")
			p, err := loadPlan(cmd, env, planID)
			if err != nil {
				return err
			}
			b, ok := p.Block(day)
			if !ok {
				return fmt.Errorf("o projeto não tem o dia %d", day)
			}
			passage = b.Summary
		}

		text, err := env.svc.Explainer.Message(cmd.Context(), args[0], passage)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	explainCmd.Flags().String("context", "", "Passage where the term appears")
	explainCmd.Flags().String("plan", "", "Plan ID whose block summary is the context")
	explainCmd.Flags().Int("day", 1, "Block day used with --plan")
}
