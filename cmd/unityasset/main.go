// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command unityasset is a thin CLI driver over the decoding pipeline:
// argument parsing, file loading, and output printing stay out of the
// decoding package and live only here. Each command takes a single file
// path; directories are not walked.
package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	unityasset "github.com/silvertip-oss/unityasset"
	"github.com/silvertip-oss/unityasset/internal/log"
)

// Exit codes.
const (
	exitSuccess           = 0
	exitInvalidInput      = 1
	exitUnsupportedFormat = 2
	exitCorrupt           = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:   "unityasset",
		Short: "Inspect and extract assets from engine bundle and serialized-file containers",
	}

	root.AddCommand(newParseCmd(), newExtractCmd(), newInfoCmd())

	if err := root.Execute(); err != nil {
		return classifyExitCode(err)
	}
	return exitSuccess
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <path>",
		Short: "Parse a file and print every decoded class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadPath(args[0])
			if err != nil {
				return err
			}
			for _, c := range doc.Classes() {
				name, _ := c.Name()
				fmt.Printf("%s (id=%d) anchor=%s name=%q\n", c.ClassName, c.ClassID, c.Anchor, name)
			}
			for _, a := range doc.Anomalies {
				fmt.Fprintf(os.Stderr, "warning: %s\n", a.String())
			}
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Print document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadPath(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("engine version: %s\n", doc.EngineVersion)
			fmt.Printf("target platform: %d\n", doc.TargetPlatform)
			fmt.Printf("classes: %d\n", len(doc.Classes()))
			fmt.Printf("embedded files: %d\n", len(doc.FileNames()))
			return nil
		},
	}
}

func newExtractCmd() *cobra.Command {
	var classFilter string

	cmd := &cobra.Command{
		Use:   "extract <path> <out_dir>",
		Short: "Extract decodable media (textures, audio, meshes) to out_dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadPath(args[0])
			if err != nil {
				return err
			}
			outDir := args[1]
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			for _, c := range doc.Classes() {
				if classFilter != "" && c.ClassName != classFilter {
					continue
				}
				if err := extractOne(doc, c, outDir); err != nil {
					fmt.Fprintf(os.Stderr, "warning: skipping %s %s: %v\n", c.ClassName, c.Anchor, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&classFilter, "class", "", "only extract objects of this class name")
	return cmd
}

func extractOne(doc *unityasset.Document, c *unityasset.UnityClass, outDir string) error {
	if c.Properties == nil {
		return nil
	}
	name, _ := c.Name()
	if name == "" {
		name = c.Anchor
	}

	switch c.ClassName {
	case "Texture2D":
		tf, err := unityasset.TextureFieldsFromObject(c.Properties)
		if err != nil {
			return err
		}
		imgData := tf.ImageData
		if tf.Streaming != nil {
			imgData, err = unityasset.ResolveStreamingData(*tf.Streaming, doc.Resolver())
			if err != nil {
				return err
			}
		}
		img, err := unityasset.DecodeImage(imgData, tf.Format, tf.Width, tf.Height)
		if err != nil {
			return err
		}
		return writePNG(filepath.Join(outDir, name+".png"), img)

	case "AudioClip":
		fields, err := unityasset.AudioFieldsFromObject(c.Properties)
		if err != nil {
			return err
		}
		if len(fields.Data) == 0 && fields.Streaming != nil {
			fields.Data, err = unityasset.ResolveStreamingData(*fields.Streaming, doc.Resolver())
			if err != nil {
				return err
			}
		}
		out, ext, err := unityasset.ExtractAudio(fields)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(outDir, name+"."+ext), out, 0o644)

	case "Mesh":
		mf, err := unityasset.MeshFieldsFromObject(c.Properties)
		if err != nil {
			return err
		}
		obj, err := unityasset.ExportOBJ(mf)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(outDir, name+".obj"), []byte(obj), 0o644)
	}

	return nil
}

func writePNG(path string, img *unityasset.Image) error {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			off := (y*img.Width + x) * 4
			rgba.Set(x, y, color.RGBA{R: img.Pixels[off], G: img.Pixels[off+1], B: img.Pixels[off+2], A: img.Pixels[off+3]})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, rgba)
}

// loadPath mmaps the file at path (falling back to a plain read if
// mmap isn't available for the underlying filesystem) and loads it as a
// Document.
func loadPath(path string) (*unityasset.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	var data []byte
	if info.Size() == 0 {
		data = nil
	} else if m, err := mmap.Map(f, mmap.RDONLY, 0); err == nil {
		defer m.Unmap()
		data = append([]byte(nil), m...)
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	logger := log.DefaultStderr()
	if os.Getenv("UNITY_ASSET_TRACE") != "" {
		logger = log.NewFilter(log.NewStdLogger(os.Stderr), log.LevelDebug)
	}

	return unityasset.LoadDocument(data, unityasset.Options{Logger: logger})
}

// classifyExitCode maps a returned error to an exit code by inspecting
// its Kind.
func classifyExitCode(err error) int {
	var uerr *unityasset.Error
	if !errors.As(err, &uerr) {
		return exitInvalidInput
	}
	switch uerr.Kind {
	case unityasset.KindInvalidSignature:
		return exitInvalidInput
	case unityasset.KindUnsupportedFormat, unityasset.KindUnsupportedCompression, unityasset.KindUnsupportedVersion:
		return exitUnsupportedFormat
	default:
		return exitCorrupt
	}
}
