package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/staffos-dev/provider-scheduler/backend/internal/config"
	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/events"
	"github.com/wneessen/go-mail"
)

const shiftEmailTemplate = `<html><body>
<p>The StaffOS schedule changed.</p>
<p>Shift {{.ShiftID}}: provider {{.ProviderID}} at client {{.ClientID}},
{{.Start.Format "2006-01-02 15:04"}} &ndash; {{.End.Format "15:04"}}.</p>
</body></html>`

const importEmailTemplate = `<html><body>
<p>CSV import {{.BatchID}} for {{.Entity}} finished ({{.Mode}}).</p>
<p>{{.Committed}} rows committed, {{.Failed}} rows failed.</p>
</body></html>`

func main() {
	/**********************************************
	 * create logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * load configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	if cfg.Notifier.OperatorEmail == "" {
		logger.Error("NOTIFIER_OPERATOR_EMAIL is required")
		return
	}
	if cfg.RabbitMQ.DSN == "" {
		logger.Error("RABBITMQ_DSN is required")
		return
	}

	/**********************************************
	 * create mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * connect rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	if err := events.DeclareQueue(ch); err != nil {
		logger.Error("failed to declare event queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		events.QueueName,
		"",    // consumer tag, assigned by the broker
		false, // manual acks
		false, // non-exclusive
		false, // no-local unsupported by RabbitMQ, must be false
		false, // wait for the broker to confirm
		nil,
	)
	if err != nil {
		logger.Error("failed to consume messages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shiftTmpl := template.Must(template.New("shift").Parse(shiftEmailTemplate))
	importTmpl := template.Must(template.New("import").Parse(importEmailTemplate))

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("event received", slog.String("message", string(msg.Body)))

				var event struct {
					Type       string          `json:"type"`
					OccurredAt time.Time       `json:"occurredAt"`
					Data       json.RawMessage `json:"data"`
				}
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					logger.Error("failed to decode event", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				email := mail.NewMsg()
				if err := email.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("failed to set sender", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := email.To(cfg.Notifier.OperatorEmail); err != nil {
					logger.Error("failed to set recipient", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				switch event.Type {
				case domain.EventShiftCreated, domain.EventShiftDeleted:
					var data domain.ShiftEventData
					if err := json.Unmarshal(event.Data, &data); err != nil {
						logger.Error("failed to decode shift event", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := email.SetBodyHTMLTemplate(shiftTmpl, data); err != nil {
						logger.Error("failed to set email body", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if event.Type == domain.EventShiftCreated {
						email.Subject("StaffOS Scheduler - shift committed")
					} else {
						email.Subject("StaffOS Scheduler - shift deleted")
					}
				case domain.EventImportCompleted:
					var data domain.ImportEventData
					if err := json.Unmarshal(event.Data, &data); err != nil {
						logger.Error("failed to decode import event", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := email.SetBodyHTMLTemplate(importTmpl, data); err != nil {
						logger.Error("failed to set email body", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					email.Subject("StaffOS Scheduler - import finished")
				default:
					logger.Error("unsupported event type", slog.String("type", event.Type))
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(email); err != nil {
					logger.Error("failed to send email", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue for retry
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for events... (press CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down notifier...")
	cancel()
	wg.Wait()
	slog.Info("notifier stopped")
}
