// orioks-call — утилита ручного вызова воркера: отправляет одну RPC-задачу
// и печатает тело страницы либо структурированную причину отказа.
//
//	orioks-call -user 123456789 -event marks
//	orioks-call -user 123456789 -event news-individual -news-id 99
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/orioks-monitoring/orioks-requester/internal/config"
	"github.com/orioks-monitoring/orioks-requester/internal/models"
	"github.com/orioks-monitoring/orioks-requester/internal/service"
	"github.com/orioks-monitoring/orioks-requester/internal/transport/rabbitmq"
)

func main() {
	var (
		configPath string
		userID     int64
		event      string
		newsID     int64
	)
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Int64Var(&userID, "user", 0, "user telegram id")
	flag.StringVar(&event, "event", "", "event type (marks|homeworks|requests-questionnaire|requests-doc|requests-reference|news|news-individual)")
	flag.Int64Var(&newsID, "news-id", 0, "news id (news-individual only)")
	flag.Parse()

	if userID == 0 || event == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.MustLoad(configPath)

	client, err := rabbitmq.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	body, err := client.Call(context.Background(), models.RequestMessage{
		UserTelegramID: userID,
		EventType:      models.EventType(event),
		NewsID:         newsID,
	})
	if err != nil {
		switch {
		case errors.Is(err, rabbitmq.ErrCallTimeout):
			fmt.Fprintln(os.Stderr, "timeout: worker did not answer in time")
		case errors.Is(err, service.ErrCookiesNotFound):
			fmt.Fprintln(os.Stderr, "user is not logged in (no stored cookies)")
		case errors.Is(err, service.ErrUnexpectedStatus):
			fmt.Fprintf(os.Stderr, "orioks rejected the request: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "call failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Println(body)
}
