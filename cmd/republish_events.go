package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/psds-microservice/support-router/internal/application"
	"github.com/psds-microservice/support-router/internal/config"
	"github.com/psds-microservice/support-router/internal/kafka"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/store"
	"github.com/spf13/cobra"
)

var republishStatus string

var republishEventsCmd = &cobra.Command{
	Use:   "republish-events",
	Short: "Re-emit the current state of every ticket of the tenant to Kafka (rebuild downstream projections)",
	RunE:  runRepublishEvents,
}

func init() {
	republishEventsCmd.Flags().StringVar(&republishStatus, "status", "", "only tickets with this status (open, in_progress, closed)")
	rootCmd.AddCommand(republishEventsCmd)
}

// eventFor returns the lifecycle event that produced the ticket's current status.
func eventFor(t *model.Ticket) string {
	switch t.Status {
	case model.TicketStatusInProgress:
		return kafka.EventTicketAssigned
	case model.TicketStatusClosed:
		return kafka.EventTicketClosed
	}
	return kafka.EventTicketCreated
}

func runRepublishEvents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopicTicket == "" {
		return errors.New("republish-events: KAFKA_BROKERS and KAFKA_TOPIC_TICKET are required")
	}
	find := &store.FindTicket{TenantID: &cfg.TenantID}
	if republishStatus != "" {
		status := model.TicketStatus(republishStatus)
		if !status.Valid() {
			return fmt.Errorf("republish-events: unknown status %q", republishStatus)
		}
		find.Status = &status
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	db, err := application.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer application.CloseDatabase(db)
	tickets, err := store.New(db).ListTickets(ctx, find)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	log.Printf("republish-events: found %d tickets", len(tickets))

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket, application.NewLogger(cfg))
	defer producer.Close()
	for i := range tickets {
		t := &tickets[i]
		if err := producer.Publish(ctx, kafka.NewTicketEvent(eventFor(t), t)); err != nil {
			return fmt.Errorf("republish-events: ticket %d: %w", t.ID, err)
		}
		if (i+1)%50 == 0 || i == len(tickets)-1 {
			log.Printf("republish-events: sent %d/%d events to Kafka", i+1, len(tickets))
		}
	}
	log.Printf("republish-events: done, sent %d events", len(tickets))
	return nil
}
