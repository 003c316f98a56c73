package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fairwaylab/golfcoach/server/internal/swing"
)

// analyzeOutput is what the analyze command prints.
type analyzeOutput struct {
	FileName string        `json:"file_name"`
	FileSize int64         `json:"file_size"`
	MimeType string        `json:"mime_type"`
	Seed     swing.Seed    `json:"seed"`
	Metrics  swing.Metrics `json:"metrics"`
	Result   swing.Result  `json:"result"`
}

// newAnalyzeCmd scores a file descriptor offline, without quota or storage.
func newAnalyzeCmd() *cobra.Command {
	var (
		d    swing.ArtifactDescriptor
		lang string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the swing analysis for a file descriptor and print JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := swing.ParseLanguage(lang)
			if err != nil {
				return err
			}
			a, err := swing.Analyze(d, l)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(analyzeOutput{
				FileName: d.Name,
				FileSize: d.SizeBytes,
				MimeType: d.MimeType,
				Seed:     a.Seed,
				Metrics:  a.Metrics,
				Result:   a.Result,
			})
		},
	}
	cmd.Flags().StringVar(&d.Name, "name", "", "file name of the swing video")
	cmd.Flags().Int64Var(&d.SizeBytes, "size", 0, "file size in bytes")
	cmd.Flags().StringVar(&d.MimeType, "type", "", "MIME type, e.g. video/mp4")
	cmd.Flags().StringVar(&lang, "lang", "en", "comment language: en | ko")
	return cmd
}
