package rest

import (
	"kabadi-client/internal/repository"
)

// Store bundles every backend repository behind one client
type Store struct {
	client *Client
	repository.AuthRepository
	repository.CitizenRepository
	repository.KabadiRepository
	repository.CollectorRepository
	repository.BookingRepository
	repository.TransactionRepository
}

func NewStore(client *Client) *Store {
	return &Store{
		client:                client,
		AuthRepository:        NewAuthRepository(client),
		CitizenRepository:     NewCitizenRepository(client),
		KabadiRepository:      NewKabadiRepository(client),
		CollectorRepository:   NewCollectorRepository(client),
		BookingRepository:     NewBookingRepository(client),
		TransactionRepository: NewTransactionRepository(client),
	}
}
