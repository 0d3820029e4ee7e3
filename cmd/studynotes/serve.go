package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/studynotes/internal/metrics"
	"github.com/thywilljoshua/studynotes/internal/server"
	"github.com/thywilljoshua/studynotes/internal/session"
	"github.com/thywilljoshua/studynotes/internal/study"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Address
			}
			ex, err := a.extractor()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.New(reg)

			srv := server.New(server.Config{
				Extractor:      ex,
				Service:        a.service(study.WithRecorder(m)),
				Store:          session.NewStore(),
				Metrics:        m,
				Client:         a.httpClient(),
				Gatherer:       reg,
				MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
				MaxQuestions:   a.cfg.Server.MaxQuestions,
				PreviewChars:   a.cfg.Extractor.PreviewChars,
			})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.address from config)")
	return cmd
}
