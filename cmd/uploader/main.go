// Command uploader shrinks local photos and posts them to an album.
//
//	uploader --album <id> --token <jwt> [--quality 0.7] [--max-width 1920] photo.jpg ...
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wanderlog/service/internal/imageprep"
	"github.com/wanderlog/service/internal/logger"
	"github.com/wanderlog/service/internal/uploader"
)

func main() {
	albumID := pflag.String("album", "", "Target album ID")
	apiBase := pflag.String("api", "http://localhost:8080/api/v1", "API base URL")
	token := pflag.String("token", os.Getenv("WANDERLOG_TOKEN"), "Bearer token (defaults to $WANDERLOG_TOKEN)")
	quality := pflag.Float64("quality", imageprep.DefaultQuality, "JPEG quality in (0, 1]")
	maxWidth := pflag.Int("max-width", imageprep.DefaultMaxWidth, "Maximum output width in pixels")
	caption := pflag.String("caption", "", "Caption applied to every photo")
	verbose := pflag.BoolP("verbose", "v", false, "Debug logging")
	pflag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(false, level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *albumID == "" || *token == "" || pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	client := uploader.New(*apiBase, *token)
	opts := imageprep.Options{Quality: *quality, MaxWidth: *maxWidth}

	failed := 0
	for _, path := range pflag.Args() {
		if err := uploadOne(client, log, *albumID, path, *caption, opts); err != nil {
			log.Error("upload failed", zap.String("file", path), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func uploadOne(client *uploader.Client, log *zap.Logger, albumID, path, caption string, opts imageprep.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	contentType := uploader.ContentType(path, data)

	res, err := imageprep.Process(data, contentType, opts)
	if err != nil {
		return err
	}
	log.Debug("prepared",
		zap.String("file", path),
		zap.Int("inBytes", len(data)),
		zap.Int("outBytes", len(res.Data)),
		zap.Bool("reencoded", res.Reencoded),
	)

	name := filepath.Base(path)
	if res.Reencoded {
		name = trimExt(name) + ".jpg"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	p, err := client.Upload(ctx, albumID, name, res.ContentType, res.Data, uploader.Metadata{Caption: caption})
	if err != nil {
		return err
	}
	log.Info("uploaded", zap.String("file", path), zap.String("photoId", p.ID), zap.String("url", p.URL))
	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
