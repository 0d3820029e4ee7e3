package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/thywilljoshua/studynotes/internal/ai"
	"github.com/thywilljoshua/studynotes/internal/config"
	"github.com/thywilljoshua/studynotes/internal/extract"
	"github.com/thywilljoshua/studynotes/internal/study"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfg *config.Config

	// newGenerator is swapped in tests; nil means the Gemini gateway.
	newGenerator func(ai.Options) ai.Generator
}

func (a *app) extractor() (extract.Extractor, error) {
	return extract.New(a.cfg.Extractor.Engine)
}

// loadDocument reads src from disk or over HTTP and extracts its text.
func (a *app) loadDocument(ctx context.Context, src string) (name, text string, err error) {
	ex, err := a.extractor()
	if err != nil {
		return "", "", err
	}
	data, name, err := extract.ReadSource(ctx, a.httpClient(), src, a.cfg.Server.MaxUploadBytes)
	if err != nil {
		return "", "", err
	}
	text, err = ex.Extract(data)
	if err != nil {
		return "", "", err
	}
	log.Info().Str("document", name).Int("chars", len(text)).Msg("text extracted")
	return name, text, nil
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.Extractor.FetchTimeout}
}

func (a *app) service(opts ...study.Option) *study.Service {
	gen := a.newGenerator
	if gen == nil {
		gen = ai.NewGateway
	}
	return study.NewService(
		gen(a.cfg.LLMOptions(study.KindSummary)),
		gen(a.cfg.LLMOptions(study.KindMCQ)),
		opts...,
	)
}

func (a *app) checkCount(n int) error {
	if n < 1 || n > a.cfg.Server.MaxQuestions {
		return fmt.Errorf("question count must be between 1 and %d, got %d", a.cfg.Server.MaxQuestions, n)
	}
	return nil
}

type output struct {
	format string
	outDir string
}

func (o output) validate() error {
	switch o.format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (want text|json)", o.format)
}

// emit prints a, or writes it under outDir when set. A contained failure is
// reported on errw and the fallback is still emitted.
func (o output) emit(w, errw io.Writer, docName string, a study.Artifact, contained error) error {
	if contained != nil {
		fmt.Fprintf(errw, "warning: %s generation failed, showing fallback: %v\n", a.Kind(), contained)
	}
	if o.outDir != "" {
		path, err := study.WriteExport(o.outDir, docName, a)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil
	}
	if o.format == "json" {
		b, err := study.Export(a)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	return study.Render(w, a)
}
