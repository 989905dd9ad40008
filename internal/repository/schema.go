package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDBSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	event_id VARCHAR(64) NOT NULL,
	ticket_count INTEGER NOT NULL CHECK (ticket_count >= 1),
	total_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL DEFAULT 'pending',
	booking_reference VARCHAR(64) NOT NULL UNIQUE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create bookings table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS payments (
	id UUID PRIMARY KEY,
	booking_id UUID NOT NULL UNIQUE REFERENCES bookings (id),
	amount NUMERIC(10, 2) NOT NULL,
	currency CHAR(3) NOT NULL DEFAULT 'USD',
	method VARCHAR(32) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'pending',
	transaction_id VARCHAR(64) NOT NULL UNIQUE,
	refund_required BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create payments table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS event_inventory (
	event_id VARCHAR(64) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	price NUMERIC(10, 2) NOT NULL,
	total_tickets INTEGER NOT NULL,
	available_tickets INTEGER NOT NULL
		CHECK (available_tickets >= 0 AND available_tickets <= total_tickets),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create event_inventory table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	booking_id VARCHAR(64) NOT NULL,
	type VARCHAR(32) NOT NULL,
	title VARCHAR(255) NOT NULL,
	message TEXT NOT NULL,
	metadata JSONB,
	email_status VARCHAR(16) NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	UNIQUE (booking_id, type)
);`)
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS booking_sagas (
	booking_id UUID PRIMARY KEY,
	state VARCHAR(32) NOT NULL,
	payload JSONB NOT NULL,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create booking_sagas table: %w", err)
	}

	return nil
}
