package cli

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"finsight/internal/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		pipeline, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(-1,
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan]Fetching data[reset]"),
			progressbar.OptionSpinnerType(14),
		)
		pipeline.OnCompanyFetched = func(ref domain.CompanyRef) {
			bar.Describe(fmt.Sprintf("[cyan]Fetched %s[reset]", ref.Symbol))
			_ = bar.Add(1)
		}

		answer, err := pipeline.Answer(cmd.Context(), query, nil)
		_ = bar.Finish()
		fmt.Println()
		if err != nil {
			return err
		}

		fmt.Println(answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
