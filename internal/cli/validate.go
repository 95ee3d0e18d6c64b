package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/intake"
	"github.com/schedcheck/internal/service"
	"github.com/schedcheck/pkg/sanitizer"
	"github.com/spf13/cobra"
)

const defaultMaxDecodeSize = 100 << 20

// mimeByExtension stands in for the browser-supplied MIME type of a local file.
var mimeByExtension = map[string]string{
	"csv":  "text/csv",
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xls":  "application/vnd.ms-excel",
	"ics":  "text/calendar",
	"json": "application/json",
	"txt":  "text/plain",
}

// fileReport pairs a path with its result in JSON output.
type fileReport struct {
	Path   string                   `json:"path"`
	Result *domain.ValidationResult `json:"result"`
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON      bool
		mimeType    string
		sampleLines int
		sequential  bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file1> [file2] ...",
		Short: "Validate schedule files",
		Long:  "Run the validation pipeline over local files. Exits non-zero when any file is invalid.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.policy()
			if err != nil {
				return err
			}
			log := opts.logger()
			defer log.Sync()

			validator := service.NewValidator(p, sanitizer.New(defaultMaxDecodeSize), service.ValidatorConfig{
				Parallel:    !sequential,
				SampleLines: sampleLines,
			}, log)

			reports := make([]fileReport, 0, len(args))
			invalid := 0
			for _, path := range args {
				in, err := readFile(path, mimeType)
				if err != nil {
					return err
				}
				result, err := validator.Validate(cmd.Context(), in)
				if err != nil {
					return fmt.Errorf("validating %s: %w", path, err)
				}
				if !result.IsValid {
					invalid++
				}
				reports = append(reports, fileReport{Path: path, Result: result})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					fmt.Fprint(out, RenderResult(r.Path, r.Result))
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", invalid, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().StringVar(&mimeType, "mime", "", "Declared MIME type (default: derived from the extension)")
	cmd.Flags().IntVar(&sampleLines, "sample-lines", 5, "Lines kept in content.sampleData")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "Run pipeline stages one after another")

	return cmd
}

func readFile(path, mimeType string) (*domain.FileInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading %s: is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	name := filepath.Base(path)
	if mimeType == "" {
		mimeType = mimeByExtension[intake.Extension(name)]
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
	}

	return &domain.FileInput{
		Name:             name,
		SizeBytes:        uint64(info.Size()),
		DeclaredMIMEType: mimeType,
		LastModified:     info.ModTime().UTC(),
		Content:          content,
	}, nil
}
