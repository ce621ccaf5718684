package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rfmelo/barbearia-client/internal/api"
	"github.com/rfmelo/barbearia-client/internal/auth"
	"github.com/rfmelo/barbearia-client/internal/chat"
	"github.com/rfmelo/barbearia-client/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Open the interactive chat. Lines starting with "/" are commands:

  /conversas           reload and list conversations
  /abrir <id>          open a conversation
  /buscar <texto>      filter conversations by participant name
  /nova                list users you can start a conversation with
  /nova <user-id>      start (or resume) a conversation with that user
  /sair                quit

Anything else is sent as a message to the open conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := currentSession()
		if sess == nil {
			return fmt.Errorf("not logged in")
		}

		token, err := authStore.Token()
		if err != nil {
			return err
		}

		client := newAPIClient()
		toasts := ui.NewToastStack(ui.WithTTL(cfg.Notify.ToastTTL))
		term := ui.NewTerminal(os.Stdout, sess.Role, toasts)

		ch := chat.NewWSChannel(cfg.Server.WSURL,
			chat.WithSessionToken(token),
			chat.WithChannelLogger(logger),
		)
		defer ch.Close()

		session := chat.NewSession(client.Chat, client.Users, ch, term, sess.Role,
			chat.WithTypingIdle(cfg.Chat.TypingIdle),
			chat.WithSessionLogger(logger),
		)
		defer session.Close()

		if err := ch.Connect(cmd.Context()); err != nil {
			return fmt.Errorf("connect chat channel: %w", err)
		}
		if err := session.LoadConversations(cmd.Context()); err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "/") {
				if quit := runChatCommand(cmd, session, term, line); quit {
					return nil
				}
				continue
			}

			// Line-based input: register the keystroke run, then send.
			session.HandleInput(line)
			if err := session.SendMessage(line); err != nil {
				logger.Warn("send failed", "error", err)
			}
		}
		return scanner.Err()
	},
}

func runChatCommand(cmd *cobra.Command, session *chat.Session, term *ui.Terminal, line string) (quit bool) {
	fields := strings.Fields(line)
	ctx := cmd.Context()

	switch fields[0] {
	case "/sair":
		return true

	case "/conversas":
		if err := session.LoadConversations(ctx); err != nil {
			logger.Warn("list conversations failed", "error", err)
		}

	case "/abrir":
		if len(fields) < 2 {
			fmt.Println("uso: /abrir <id>")
			return false
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Printf("id inválido: %s\n", fields[1])
			return false
		}
		other, ok := findConversationUser(session, id)
		if !ok {
			fmt.Printf("conversa %d não encontrada\n", id)
			return false
		}
		if err := session.OpenConversation(ctx, id, other); err != nil {
			logger.Warn("open conversation failed", "error", err)
		}

	case "/buscar":
		query := strings.TrimSpace(strings.TrimPrefix(line, "/buscar"))
		term.ShowConversations(session.Filter(query))

	case "/nova":
		if len(fields) < 2 {
			users, err := session.CandidateUsers(ctx)
			if err != nil {
				logger.Warn("list users failed", "error", err)
				return false
			}
			for _, u := range users {
				fmt.Printf("#%-4d %s\n", u.ID, u.Name)
			}
			return false
		}
		userID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Printf("id inválido: %s\n", fields[1])
			return false
		}
		if err := session.StartConversation(ctx, api.User{ID: userID, Role: auth.OppositeRole(session.Role())}); err != nil {
			logger.Warn("start conversation failed", "error", err)
		}

	default:
		fmt.Printf("comando desconhecido: %s\n", fields[0])
	}
	return false
}

func findConversationUser(session *chat.Session, conversationID int64) (api.User, bool) {
	for _, c := range session.Conversations() {
		if c.ID == conversationID {
			return api.User{ID: c.OtherUserID, Name: c.OtherUserName}, true
		}
	}
	return api.User{}, false
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
