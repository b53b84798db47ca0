package mailer

import (
	"fmt"
	"html"
	"strings"
)

func Welcome(to string, name string) Message {
	greeting := "Welcome"
	if strings.TrimSpace(name) != "" {
		greeting = "Welcome, " + name
	}

	return Message{
		To:       to,
		Subject:  "Welcome to BlogAI",
		Category: "welcome",
		Text: fmt.Sprintf("%s!\n\nYour account is ready. You have free generations to start drafting ideas.\n",
			greeting),
		HTML: fmt.Sprintf("<p>%s!</p><p>Your account is ready. You have free generations to start drafting ideas.</p>",
			html.EscapeString(greeting)),
	}
}

func SharedPost(to string, sharedBy string, title string, excerpt string) Message {
	return Message{
		To:       to,
		ReplyTo:  sharedBy,
		Subject:  "Shared post: " + title,
		Category: "share",
		Text:     fmt.Sprintf("%s\n\n%s\n", title, excerpt),
		HTML: fmt.Sprintf("<h2>%s</h2><p>%s</p>",
			html.EscapeString(title), html.EscapeString(excerpt)),
	}
}
