package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blossomz37/orchat/internal/export"
	"github.com/blossomz37/orchat/internal/extract"
	"github.com/blossomz37/orchat/pkg/openrouter"
)

const (
	textPrompt = "Use web search. What is the current weather in Madrid, Spain right now? " +
		"Give 3 short bullets and include at least 2 citations as markdown links " +
		"(e.g. [example.com](https://example.com/...))."
	imagePrompt = "Generate a warm, cheerful illustration of a happy puppy greeting a family " +
		"returning home from the beach. Golden-hour lighting, sandy footprints, beach towels " +
		"and a surfboard near the doorway, friendly vibe. ONLY RETURN 1 IMAGE."

	webSearchResults = 3
)

// Summary mirrors the summary.json artifact written at the end of a run.
type Summary struct {
	StartedAt  string      `json:"startedAt"`
	OutputsDir string      `json:"outputsDir"`
	Text       TextResult  `json:"text"`
	Image      ImageResult `json:"image"`
}

// TextResult is the per-run outcome of the text-model probe.
type TextResult struct {
	Model         string `json:"model"`
	OK            bool   `json:"ok"`
	ContentLength int    `json:"contentLength"`
	URLCitations  int    `json:"urlCitations"`
}

// ImageResult is the per-run outcome of the image-model probe.
type ImageResult struct {
	Model         string `json:"model"`
	OK            bool   `json:"ok"`
	Images        int    `json:"images"`
	ContentLength int    `json:"contentLength"`
}

// Failed reports whether either probe failed.
func (s *Summary) Failed() bool {
	return !s.Text.OK || !s.Image.OK
}

// Caller is the slice of the OpenRouter client the runner consumes.
type Caller interface {
	RawComplete(ctx context.Context, req openrouter.Request) (*openrouter.ResponseMessage, []byte, error)
}

// Runner executes one smoke run and writes its artifacts under OutRoot.
type Runner struct {
	Client  Caller
	Env     *Env
	OutRoot string
	// Now supplies the run timestamp; nil means time.Now.
	Now func() time.Time
}

// Run performs the text and image probes concurrently, each writing its own
// artifacts into a fresh timestamped directory. A remote failure is recorded
// in a *-error.txt artifact and the summary, never returned; only artifact
// I/O failures abort the run.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	start := now().UTC()

	runDir := filepath.Join(r.OutRoot, "openrouter-"+export.FilenameStamp(start))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}

	summary := &Summary{
		StartedAt:  start.Format(time.RFC3339),
		OutputsDir: runDir,
		Text:       TextResult{Model: r.Env.TextModel},
		Image:      ImageResult{Model: r.Env.ImageModel},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.textProbe(gctx, runDir, &summary.Text) })
	g.Go(func() error { return r.imageProbe(gctx, runDir, &summary.Image) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := writeJSON(filepath.Join(runDir, "summary.json"), summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *Runner) textProbe(ctx context.Context, dir string, res *TextResult) error {
	req := openrouter.Request{
		Model:    res.Model,
		Plugins:  []openrouter.Plugin{openrouter.WebSearchPlugin(webSearchResults)},
		Messages: []openrouter.Message{{Role: "user", Content: textPrompt}},
	}

	msg, raw, err := r.Client.RawComplete(ctx, req)
	if err != nil {
		slog.Warn("text probe failed", "model", res.Model, "error", err)
		return writeError(dir, "text-error.txt", err)
	}

	if err := writeRawJSON(filepath.Join(dir, "text-response.json"), raw); err != nil {
		return err
	}

	content := extract.Text(msg.Content)
	citations := extract.Citations(msg)

	res.OK = true
	res.ContentLength = len(content)
	res.URLCitations = len(citations)

	if err := writeJSON(filepath.Join(dir, "text-web-citations.json"), citations); err != nil {
		return err
	}

	extracted := ""
	if content != "" {
		extracted = content + "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, "text-extracted.txt"), []byte(extracted), 0o644); err != nil {
		return fmt.Errorf("write text-extracted.txt: %w", err)
	}
	return nil
}

func (r *Runner) imageProbe(ctx context.Context, dir string, res *ImageResult) error {
	req := openrouter.Request{
		Model:      res.Model,
		Messages:   []openrouter.Message{{Role: "user", Content: imagePrompt}},
		Modalities: []string{"image", "text"},
	}

	msg, raw, err := r.Client.RawComplete(ctx, req)
	if err != nil {
		slog.Warn("image probe failed", "model", res.Model, "error", err)
		return writeError(dir, "image-error.txt", err)
	}

	if err := writeRawJSON(filepath.Join(dir, "image-response.json"), raw); err != nil {
		return err
	}

	content := extract.Text(msg.Content)
	urls := extract.ImageDataURLs(msg.Images)

	res.OK = true
	res.Images = len(urls)
	res.ContentLength = len(content)

	if content != "" {
		if err := os.WriteFile(filepath.Join(dir, "image-extracted.txt"), []byte(content+"\n"), 0o644); err != nil {
			return fmt.Errorf("write image-extracted.txt: %w", err)
		}
	}

	for i, url := range urls {
		img, err := extract.DecodeDataURL(url)
		if err != nil {
			slog.Warn("skipping undecodable image payload", "index", i+1, "error", err)
			continue
		}
		name := fmt.Sprintf("image-%d.%s", i+1, extract.ExtensionForMIME(img.MIME))
		if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// writeRawJSON persists a response body, re-indented when it parses as JSON.
func writeRawJSON(path string, raw []byte) error {
	var pretty bytes.Buffer
	out := raw
	if err := json.Indent(&pretty, raw, "", "  "); err == nil {
		out = pretty.Bytes()
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeError(dir, name string, probeErr error) error {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(probeErr.Error()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
