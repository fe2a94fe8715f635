package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/config"
	"github.com/oksasatya/contacts-api/internal/container"
	"github.com/oksasatya/contacts-api/pkg/helpers"
	"github.com/oksasatya/contacts-api/pkg/mailer"
)

const sendTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunAPIBase)
	direct := mailer.NewDirectMailer(mg, container.Brand(cfg))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil || job.To == "" || job.Template == "" {
				logger.WithError(err).Warn("dropping malformed email job")
				_ = msg.Nack(false, false)
				continue
			}
			fields := logrus.Fields{"template": job.Template, "to": job.To}

			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			err := direct.Send(ctx, job.Template, job.To, job.Data)
			cancel()
			if err != nil {
				// one redelivery, then the job is dropped
				requeue := !msg.Redelivered
				fields["requeue"] = requeue
				helpers.LogError(logger, "email send failed", err, fields)
				_ = msg.Nack(false, requeue)
				continue
			}
			_ = msg.Ack(false)
			logger.WithFields(fields).Debug("email sent")
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
