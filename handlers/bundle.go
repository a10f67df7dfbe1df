package handlers

import (
	userRepo "glowbook/database/repository/user"
	"glowbook/services/realtime"
)

// HandlerBundle groups every endpoint handler plus what the route layer needs
// to build its middleware.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository
	Hub      *realtime.Hub

	Auth       *AuthHandler
	Users      *UserHandler
	Booking    *BookingHandler
	Catalog    *CatalogHandler
	Preps      *PrepHandler
	Invoices   *InvoiceHandler
	Inquiries  *InquiryHandler
	Newsletter *NewsletterHandler
}
