package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuchialin/tripledger/internal/config"
	"github.com/yuchialin/tripledger/internal/llm"
	"github.com/yuchialin/tripledger/internal/model"
)

func draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft [text...]",
		Short: "Extract a draft expense from text or a receipt image",
		Long: `Send free-form text (or a PNG receipt via --image) to the configured AI
provider and print the extracted draft expense. The draft is for review:
nothing is logged until you confirm it with 'tripledger add'.`,
		RunE: runDraft,
	}

	cmd.Flags().String("image", "", "path to a PNG receipt image")

	return cmd
}

func runDraft(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	extractor, err := llm.NewExtractor(config.LoadLLMConfig())
	if err != nil {
		return err
	}

	var draft model.Draft
	if imagePath, _ := cmd.Flags().GetString("image"); imagePath != "" {
		image, readErr := os.ReadFile(imagePath)
		if readErr != nil {
			return fmt.Errorf("failed to read image: %w", readErr)
		}
		draft, err = extractor.DraftFromImage(ctx, image)
	} else {
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("provide text to extract from, or --image")
		}
		draft, err = extractor.DraftFromText(ctx, text)
	}
	if err != nil {
		return err
	}

	fmt.Println("Draft expense:")
	if !draft.Date.IsZero() {
		fmt.Printf("  date:     %s\n", draft.Date.Format("2006-01-02"))
	}
	fmt.Printf("  merchant: %s\n", draft.Merchant)
	fmt.Printf("  item:     %s\n", draft.Item)
	fmt.Printf("  category: %s\n", draft.Category)
	fmt.Printf("  amount:   %s %s\n", model.FormatOrigin(draft.OriginalAmount), draft.Currency)
	if draft.HomeAmount > 0 && draft.Currency != model.HomeCurrency {
		fmt.Printf("  home:     %s %s\n", model.FormatHome(draft.HomeAmount), model.HomeCurrency)
	}
	fmt.Println("\nConfirm with: tripledger add --merchant ... --amount ...")

	return nil
}
