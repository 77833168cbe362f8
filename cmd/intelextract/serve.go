package main

import (
	"github.com/spf13/cobra"

	"github.com/channelchangers/intelextract/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	port := a.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	var researcher server.Researcher
	if a.researcher != nil {
		researcher = a.researcher
	}

	srv := server.New(server.Options{
		Port:       port,
		Analyzer:   a.engine,
		Critic:     a.critic,
		Researcher: researcher,
		Runner:     a.runner,
		Library:    a.libStore,
		Profiles:   a.profiles,
		LLMClient:  a.llmClient,
		Logger:     a.logger,
	})

	return srv.Run(ctx)
}
