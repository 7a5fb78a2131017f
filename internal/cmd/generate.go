package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
	"github.com/toldwithlove/toldwithlove/internal/config"
	"github.com/toldwithlove/toldwithlove/internal/content"
	"github.com/toldwithlove/toldwithlove/internal/genai"
	"github.com/toldwithlove/toldwithlove/internal/intake"
	"github.com/toldwithlove/toldwithlove/internal/output"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a story from the command line",
	Long: `Generate a personalized story or speech without going through the webhook.

Field values are supplied via flags; anything omitted falls back to the same
defaults the form pipeline uses. The finished piece is written to the output
directory as HTML, plain text, and PDF.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("type", "love_story", "Content type (love_story, wedding_speech, eulogy, ...)")
	generateCmd.Flags().String("name1", "", "First person's name")
	generateCmd.Flags().String("name2", "", "Second person's name")
	generateCmd.Flags().String("setting", "", "Where the story takes place")
	generateCmd.Flags().String("how-met", "", "How the couple met")
	generateCmd.Flags().String("shared-interest", "", "A shared interest or passion")
	generateCmd.Flags().String("challenge", "", "A challenge they overcame")
	generateCmd.Flags().String("special-thing", "", "Something special about the relationship")
	generateCmd.Flags().String("tone", "", "Desired tone (heartfelt, humorous, formal, ...)")
	generateCmd.Flags().String("length", "medium", "Desired length: short, medium, long")
	generateCmd.Flags().StringP("out-dir", "o", ".", "Directory to write the rendered story files")
	generateCmd.Flags().StringSlice("format", []string{"html", "text", "pdf"}, "Output formats to write")
	generateCmd.Flags().Bool("quiet", false, "Suppress the field summary table")
	generateCmd.Flags().BoolP("interactive", "i", false, "Prompt for any fields not supplied via flags")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	contentTypeRaw, _ := cmd.Flags().GetString("type")
	outDir, _ := cmd.Flags().GetString("out-dir")
	formats, _ := cmd.Flags().GetStringSlice("format")
	quiet, _ := cmd.Flags().GetBool("quiet")

	fields := collectFields(cmd)
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		promptFields(cmd, fields)
	}
	fields = fields.ApplyStoryDefaults()
	if err := fields.ValidateStory(); err != nil {
		return err
	}

	contentType := content.ParseType(contentTypeRaw)

	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if strings.TrimSpace(cfg.GenAI.APIKey) == "" {
		return errors.New("completion provider API key not configured")
	}

	generator, err := genai.New(cfg.GenAI, nil)
	if err != nil {
		return fmt.Errorf("configuring completion provider: %w", err)
	}

	if !quiet {
		renderFieldTable(cmd, fields, contentType)
	}

	var text string
	if contentType == content.TypeLoveStory {
		prompt := content.BuildLoveStoryPrompt(fields)
		text, err = generator.GenerateLoveStory(ctx, content.LoveStorySystemPersona, prompt)
	} else {
		prompt := content.BuildPrompt(fields, contentType)
		text, err = generator.Generate(ctx, content.SystemPersona, prompt)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	a := &artifact.Artifact{
		ID:        artifact.SanitizeID(fmt.Sprintf("cli%d", time.Now().Unix())),
		Title:     artifact.TitleFromText(text, contentType.Title()),
		Text:      text,
		Kind:      string(contentType),
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}

	written, err := writeOutputs(a, outDir, formats)
	if err != nil {
		return err
	}

	for _, path := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}

// collectFields maps the generate flags onto the semantic field set used by
// the webhook pipeline.
func collectFields(cmd *cobra.Command) intake.FieldSet {
	flagKeys := map[string]intake.Key{
		"name1":           intake.KeyName1,
		"name2":           intake.KeyName2,
		"setting":         intake.KeySetting,
		"how-met":         intake.KeyHowMet,
		"shared-interest": intake.KeySharedInterest,
		"challenge":       intake.KeyChallenge,
		"special-thing":   intake.KeySpecialThing,
		"tone":            intake.KeyTone,
		"length":          intake.KeyStoryLength,
	}

	fields := make(intake.FieldSet, len(flagKeys))
	for flag, key := range flagKeys {
		if value, _ := cmd.Flags().GetString(flag); strings.TrimSpace(value) != "" {
			fields[key] = strings.TrimSpace(value)
		}
	}
	return fields
}

// promptFields asks for any story field not already supplied, reading one
// line per question. Blank answers keep the pipeline defaults.
func promptFields(cmd *cobra.Command, fields intake.FieldSet) {
	questions := []struct {
		key    intake.Key
		prompt string
	}{
		{intake.KeyName1, "First person's name"},
		{intake.KeyName2, "Second person's name"},
		{intake.KeySetting, "Where does the story take place?"},
		{intake.KeyHowMet, "How did they meet?"},
		{intake.KeySharedInterest, "A shared interest or passion"},
		{intake.KeyChallenge, "A challenge they overcame"},
		{intake.KeySpecialThing, "Something special about the relationship"},
		{intake.KeyTone, "Desired tone"},
		{intake.KeyStoryLength, "Desired length (short, medium, long)"},
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for _, q := range questions {
		if fields.Get(q.key) != "" {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ", q.prompt)
		if !scanner.Scan() {
			return
		}
		if answer := strings.TrimSpace(scanner.Text()); answer != "" {
			fields[q.key] = answer
		}
	}
}

func renderFieldTable(cmd *cobra.Command, fields intake.FieldSet, contentType content.Type) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"content type", contentType.Title()})
	for _, key := range []intake.Key{
		intake.KeyName1,
		intake.KeyName2,
		intake.KeySetting,
		intake.KeyHowMet,
		intake.KeySharedInterest,
		intake.KeyChallenge,
		intake.KeySpecialThing,
		intake.KeyStoryLength,
	} {
		if value := fields.Get(key); value != "" {
			t.AppendRow(table.Row{strings.ReplaceAll(string(key), "_", " "), value})
		}
	}
	t.Render()
}

func writeOutputs(a *artifact.Artifact, outDir string, formats []string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "html":
			data, err := output.RenderHTML(a)
			if err != nil {
				return written, fmt.Errorf("rendering HTML: %w", err)
			}
			path := filepath.Join(outDir, "story_"+a.ID+".html")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return written, err
			}
			written = append(written, path)
		case "text", "txt":
			path := filepath.Join(outDir, "story_"+a.ID+".txt")
			if err := os.WriteFile(path, output.RenderText(a), 0o644); err != nil {
				return written, err
			}
			written = append(written, path)
		case "pdf":
			data, err := output.RenderPDF(a)
			if err != nil {
				return written, fmt.Errorf("rendering PDF: %w", err)
			}
			path := filepath.Join(outDir, "story_"+a.ID+".pdf")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return written, err
			}
			written = append(written, path)
		default:
			return written, fmt.Errorf("unknown output format %q", format)
		}
	}
	return written, nil
}
