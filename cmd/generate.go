package cmd

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/kpaulsen/itemforge/internal/app"
	"github.com/kpaulsen/itemforge/internal/itemgen"
	"github.com/kpaulsen/itemforge/internal/llm"
	"github.com/kpaulsen/itemforge/internal/prompt"
	"github.com/kpaulsen/itemforge/internal/refmat"
	"github.com/kpaulsen/itemforge/internal/standards"
	"github.com/kpaulsen/itemforge/internal/store"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate assessment items and write them to a Word document",
	Example: `  itemforge generate --grade "Grade 6" --unit "Unit 2" --type "Multiple Choice" --count 5 \
      --standards "MS-LS1-6" --will-do "Construct an explanation of photosynthesis."
  itemforge generate --grade "Grade 8" --unit "Unit 1" --type Cluster --count 2 \
      --standards-file standards.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := newLogger(cmd)
		defer log.Sync()

		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}

		// The operational log is best-effort; generation proceeds
		// without it.
		var eventRepo store.EventRepo = store.NopEventRepo{}
		if dbPath, err := resolveDBPath(cmd); err == nil {
			if st, err := store.Open(dbPath); err == nil {
				defer st.Close()
				eventRepo = st.EventRepo()
			} else {
				fmt.Fprintln(os.Stderr, warnStyle.Render("Request log unavailable: "+err.Error()))
			}
		}

		provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		builder, err := prompt.NewBuilder()
		if err != nil {
			return err
		}

		refsDir, _ := cmd.Flags().GetString("refs")
		outDir, _ := cmd.Flags().GetString("out")

		ctrl := itemgen.NewController(builder, provider, itemgen.DefaultConfig(), log)
		svc := app.NewService(ctrl, refmat.NewLoader(refsDir, log), log)

		fmt.Fprintln(os.Stderr, noticeStyle.Render(
			fmt.Sprintf("Generating %s items with %s...", req.ItemType, provider.ModelID())))

		res, cached, err := svc.Generate(ctx, req)
		if err != nil {
			return err
		}
		if cached {
			fmt.Fprintln(os.Stderr, noticeStyle.Render("Identical request already generated; reusing result."))
		}

		path, err := app.SaveResult(res, outDir)
		if err != nil {
			return err
		}

		fmt.Print(res.Text)
		fmt.Fprintln(os.Stderr, successStyle.Render("Item generation complete!"))
		fmt.Fprintln(os.Stderr, "Saved to "+path)
		return nil
	},
}

// requestFromFlags assembles and validates the generation request,
// prefilling standards text from the workbook when a file is given.
func requestFromFlags(cmd *cobra.Command) (itemgen.Request, error) {
	flags := cmd.Flags()

	typeName, _ := flags.GetString("type")
	itemType, err := itemgen.ParseItemType(typeName)
	if err != nil {
		return itemgen.Request{}, err
	}

	req := itemgen.Request{ItemType: itemType}
	req.Grade, _ = flags.GetString("grade")
	req.Unit, _ = flags.GetString("unit")
	req.Count, _ = flags.GetInt("count")
	req.Standards, _ = flags.GetString("standards")
	req.WillDo, _ = flags.GetString("will-do")
	req.UnitOverview, _ = flags.GetString("overview")
	req.SubtypeHint, _ = flags.GetString("subtype")

	if wbPath, _ := flags.GetString("standards-file"); wbPath != "" && req.Standards == "" {
		wb, err := standards.Open(wbPath)
		if err != nil {
			return itemgen.Request{}, err
		}
		defer wb.Close()

		entry, err := wb.Lookup(req.Grade, req.Unit)
		if err != nil {
			return itemgen.Request{}, err
		}
		req.Standards = entry.Standards
		if req.WillDo == "" {
			req.WillDo = entry.WillDo
		}
	}

	if err := req.Validate(); err != nil {
		return itemgen.Request{}, err
	}
	return req, nil
}

func init() {
	f := generateCmd.Flags()
	f.StringP("grade", "g", "", "Grade level or course, e.g. \"Grade 6\"")
	f.StringP("unit", "u", "", "Curriculum unit, e.g. \"Unit 2\"")
	f.StringP("type", "t", string(itemgen.TypeMultipleChoice), "Item type (MC, MS, TE, Cluster, EBSR, CR, Mixed)")
	f.IntP("count", "n", 5, "Number of items, clusters, or sets")
	f.String("standards", "", "Standards text (free form)")
	f.String("standards-file", "", "Standards workbook (.xlsx) to prefill standards and will-do text")
	f.String("will-do", "", "What students will do or figure out")
	f.String("overview", "", "Unit overview (Mixed documents only)")
	f.String("subtype", "", "Technology-enhanced interaction subtype, e.g. Drag-and-Drop")
	f.String("refs", "reference", "Directory holding the framework and DOK PDFs")
	f.StringP("out", "o", ".", "Directory to write the result document into")

	generateCmd.MarkFlagRequired("grade")
}
