package cmd

import (
	"testing"

	"github.com/psds-microservice/support-router/internal/kafka"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestEventForStatus(t *testing.T) {
	assert.Equal(t, kafka.EventTicketCreated, eventFor(&model.Ticket{Status: model.TicketStatusOpen}))
	assert.Equal(t, kafka.EventTicketAssigned, eventFor(&model.Ticket{Status: model.TicketStatusInProgress}))
	assert.Equal(t, kafka.EventTicketClosed, eventFor(&model.Ticket{Status: model.TicketStatusClosed}))
}
