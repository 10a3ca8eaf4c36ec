package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gardar/formscribe/internal/config"
	"github.com/gardar/formscribe/pkg/fillscript"
	"github.com/gardar/formscribe/pkg/record"
	"github.com/gardar/formscribe/pkg/vision"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		imagePath string
		debugAPI  string
		out       outputs
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a form from an image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()

			img, err := vision.ReadImage(imagePath)
			if err != nil {
				return err
			}

			var debug io.Writer
			if debugAPI != "" {
				if a.cfg.Backend != config.BackendDocumentAI {
					fmt.Fprintln(cmd.OutOrStdout(), "Warning: Raw API response only available with the documentai backend")
				} else {
					f, err := createFile(debugAPI)
					if err != nil {
						return err
					}
					defer f.Close()
					debug = f
				}
			}

			extractor, closeExtractor, err := a.newExtractor(ctx, debug)
			if err != nil {
				return err
			}
			defer closeExtractor()

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Processing image:", imagePath)
			res, err := a.newPipeline(extractor, store).Run(ctx, img)
			if err != nil {
				return err
			}
			if debug != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "API response JSON saved to:", debugAPI)
			}
			return out.write(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, title(res, filepath.Base(imagePath)))
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the form image")
	cmd.Flags().StringVar(&debugAPI, "debug-api", "", "Path to save the raw Document AI response as JSON")
	_ = cmd.MarkFlagRequired("image")
	out.register(cmd)
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	var (
		textPath string
		out      outputs
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a saved model answer without calling a backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), textPath)
			if err != nil {
				return err
			}

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			source := "stdin"
			if textPath != "-" {
				source = filepath.Base(textPath)
			}
			res, err := a.newPipeline(nil, store).Process(cmd.Context(), source, string(text))
			if err != nil {
				return err
			}
			return out.write(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, title(res, source))
		},
	}
	cmd.Flags().StringVar(&textPath, "text", "-", `Path to the model answer, or "-" for stdin`)
	out.register(cmd)
	return cmd
}

func newScriptCmd(a *app) *cobra.Command {
	var (
		recordPath string
		outPath    string
		copyOut    bool
	)

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Generate the fill script for a saved record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(cmd.InOrStdin(), recordPath)
			if err != nil {
				return err
			}
			rec := record.New()
			if err := json.Unmarshal(data, rec); err != nil {
				return fmt.Errorf("failed to parse record JSON: %w", err)
			}
			if rec.Len() == 0 {
				return errors.New("record has no fields")
			}

			script := fillscript.New(nil, a.logger).Generate(rec)

			if copyOut {
				if err := clipboardWrite(script); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Fill script copied to clipboard")
			}
			if outPath == "" {
				if !copyOut {
					fmt.Fprint(cmd.OutOrStdout(), script)
				}
				return nil
			}
			if err := os.WriteFile(outPath, []byte(script), 0o644); err != nil {
				return fmt.Errorf("failed to write fill script: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Fill script saved to:", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&recordPath, "record", "-", `Path to the record JSON, or "-" for stdin`)
	cmd.Flags().StringVar(&outPath, "out", "", "Path to save the script instead of printing it")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the script to the clipboard")
	return cmd
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
