// Package smtp предоставляет транспорт для отправки e-mail напоминаний.
package smtp

import "io"

// Client — интерфейс SMTP клиента, достаточный для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface — интерфейс SMTP транспорта для notification-sender.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
