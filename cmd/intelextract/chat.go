package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/channelchangers/intelextract/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive console over the stored library",
	Long:  "Open an interactive intelligence console. Each turn carries the most recent library records as context and answers in the learned voice profile when one exists. Type 'exit' to quit.",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	agent, err := chat.NewAgent(a.llmClient, a.profiles.Load(ctx), a.logger)
	if err != nil {
		return err
	}

	fmt.Println("Intelligence console ready. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		reply := agent.Send(ctx, query, a.libStore.Load(ctx))
		fmt.Println(reply)
	}

	return scanner.Err()
}
