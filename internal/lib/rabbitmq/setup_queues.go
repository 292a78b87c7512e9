package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationsExchange — exchange канала напоминаний.
const NotificationsExchange = "notifications"

// FluidCheckQueue — очередь e-mail напоминаний о проверке жидкостей.
const FluidCheckQueue = "notification.fluidcheck"

// FluidCheckRoutingKey — ключ маршрутизации напоминаний о проверке жидкостей.
const FluidCheckRoutingKey = "fluidcheck"

// GetNotificationQueues возвращает очереди канала напоминаний.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: FluidCheckQueue, RoutingKey: FluidCheckRoutingKey},
	}
}
