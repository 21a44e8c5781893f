// Package events carries pipeline notifications (article created, headline
// failed) from the services to any registered handlers, such as the Kafka
// publisher, without the services knowing who listens.
package events
