// Command studioctl publishes media and reads leads from the studio API as the operator.
//
//	studioctl upload -file reel.mp4 -type video -title "Reel" -tags brand,launch
//	studioctl delete -id <item id>
//	studioctl leads
//
// The API address and credentials come from STUDIO_API_URL, STUDIO_ADMIN_EMAIL and
// STUDIO_ADMIN_PASSWORD.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akanis/studio/internal/gallery"
	"github.com/akanis/studio/internal/media"
	"github.com/akanis/studio/internal/uploader"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("studioctl: ")
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "upload":
		err = runUpload(ctx, os.Args[2:])
	case "delete":
		err = runDelete(ctx, os.Args[2:])
	case "leads":
		err = runLeads(ctx, os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		var apiErr *uploader.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			log.Fatalf("not authorized: check STUDIO_ADMIN_EMAIL and STUDIO_ADMIN_PASSWORD")
		}
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: studioctl <upload|delete|leads> [flags]")
}

func connect(ctx context.Context, opts ...uploader.Option) (*uploader.Client, error) {
	base := os.Getenv("STUDIO_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	client := uploader.New(base, opts...)
	if err := client.Login(ctx, os.Getenv("STUDIO_ADMIN_EMAIL"), os.Getenv("STUDIO_ADMIN_PASSWORD")); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return client, nil
}

func runUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("file", "", "path of the photo or video")
	kind := fs.String("type", "", "photo or video (default: guessed from the file)")
	title := fs.String("title", "", "gallery title")
	tags := fs.String("tags", "", "comma-separated tags")
	mimeType := fs.String("mime", "", "content type (default: from the extension)")
	compress := fs.String("compress", "none", "video compression: none or ffmpeg")
	_ = fs.Parse(args)

	if *file == "" {
		fs.Usage()
		return errors.New("-file is required")
	}
	k := media.Kind(*kind)
	if k == "" {
		k = guessKind(media.DetectMime(*mimeType, *file))
	}

	var comp uploader.Compressor
	switch *compress {
	case "none":
		comp = uploader.Passthrough{}
	case "ffmpeg":
		comp = uploader.FFmpeg{}
	default:
		return fmt.Errorf("unknown -compress %q", *compress)
	}

	client, err := connect(ctx,
		uploader.WithCompressor(comp),
		uploader.WithObserver(uploader.ObserverFunc(printEvent)),
	)
	if err != nil {
		return err
	}
	item, err := client.Upload(ctx, uploader.Request{
		Path:     *file,
		MimeType: *mimeType,
		Kind:     k,
		Title:    *title,
		Tags:     gallery.NormalizeTags(*tags),
	})
	if err != nil {
		return err
	}
	return printJSON(item)
}

func guessKind(mimeType string) media.Kind {
	if err := media.DefaultPolicy.CheckType(media.KindVideo, mimeType); err == nil {
		return media.KindVideo
	}
	return media.KindPhoto
}

func printEvent(e uploader.Event) {
	switch e.Kind {
	case uploader.CompressionStarted:
		log.Printf("compressing %s (%.1fMB)", e.File, float64(e.Size)/float64(media.MB))
	case uploader.UploadStarted:
		log.Printf("uploading %s (%.1fMB) via %s", e.File, float64(e.Size)/float64(media.MB), e.Transport)
	case uploader.UploadSucceeded:
		log.Printf("published %s as %s", e.File, e.Item.ID)
	case uploader.UploadFailed:
		log.Printf("upload of %s failed: %v", e.File, e.Err)
	}
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "gallery item id")
	_ = fs.Parse(args)
	if *id == "" {
		fs.Usage()
		return errors.New("-id is required")
	}

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	if err := client.Delete(ctx, *id); err != nil {
		return err
	}
	log.Printf("deleted %s", *id)
	return nil
}

func runLeads(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("leads", flag.ExitOnError)
	_ = fs.Parse(args)

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	leads, err := client.Leads(ctx)
	if err != nil {
		return err
	}
	return printJSON(leads)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
