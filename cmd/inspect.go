package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pcb-inspector/internal/container"
	"pcb-inspector/internal/domain/entity"
)

type inspectOptions struct {
	output string
	json   bool
}

type inspectResult struct {
	Input       string          `json:"input"`
	Output      string          `json:"output"`
	ImageWidth  int             `json:"image_width"`
	ImageHeight int             `json:"image_height"`
	Detections  []entity.Defect `json:"detections"`
	Summary     entity.Summary  `json:"summary"`
}

func newInspectCmd() *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Run the inspection pipeline on a local image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Path of the annotated JPEG (default: <image>_result.jpg)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON instead of a text report")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts inspectOptions) error {
	cfg, log, err := loadRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if err := container.NewUploadPolicy(cfg).Validate(filepath.Base(path), info.Size()); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	svc := container.NewInspectionService(cfg, nil, log)
	ctx := cmd.Context()

	out, err := svc.Inspect(ctx, data)
	if err != nil {
		return err
	}
	enc, err := svc.Encode(out)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = defaultOutputPath(path)
	}
	if err := os.WriteFile(output, enc.AnnotatedJPEG, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	w := cmd.OutOrStdout()
	if opts.json {
		return writeInspectJSON(w, inspectResult{
			Input:       path,
			Output:      output,
			ImageWidth:  out.Result.ImageWidth,
			ImageHeight: out.Result.ImageHeight,
			Detections:  out.Result.Defects,
			Summary:     out.Result.Summary,
		})
	}

	rep, err := svc.Describe(ctx, out.Result)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, rep.Text)
	fmt.Fprintf(w, "\nAnnotated image: %s\n", output)
	return nil
}

func defaultOutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_result.jpg"
}

func writeInspectJSON(w io.Writer, res inspectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
