package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange               = "pds.events"
	OrderStockReservedRoutingKey = "order.stock_reserved.v1"
	OrderFailedRoutingKey        = "order.failed.v1"

	EventNameOrderStockReserved = "OrderStockReserved"
	EventNameOrderFailed        = "OrderFailed"
)

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
