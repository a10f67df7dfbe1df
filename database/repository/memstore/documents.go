package memstore

import (
	"context"
	"sort"
	"time"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// InvoiceRepo implements invoiceRepo.InvoiceRepository.
type InvoiceRepo struct{ s *Store }

func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

func (r *InvoiceRepo) Create(_ context.Context, inv *models.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.ID == inv.ID || existing.InvoiceNumber == inv.InvoiceNumber {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	inv.CreatedAt, inv.UpdatedAt = now, now
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetByBooking(_ context.Context, bookingID string) (*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.BookingID == bookingID {
			inv := inv
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *InvoiceRepo) List(_ context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range r.s.invoices {
		if (filter.Status == "" || inv.Status == filter.Status) &&
			(filter.InvoiceTo == "" || inv.InvoiceTo == filter.InvoiceTo) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateDate.After(out[j].CreateDate) })
	return out, nil
}

func (r *InvoiceRepo) Update(_ context.Context, id string, fields bson.M) (*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fields["updatedAt"] = time.Now()
	updated, err := apply(inv, fields)
	if err != nil {
		return nil, err
	}
	r.s.invoices[id] = updated
	return &updated, nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.invoices, id)
	return nil
}

// InquiryRepo implements inquiryRepo.InquiryRepository.
type InquiryRepo struct{ s *Store }

func (s *Store) Inquiries() *InquiryRepo { return &InquiryRepo{s: s} }

func (r *InquiryRepo) Create(_ context.Context, inq *models.Inquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.inquiries[inq.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	if inq.CreatedAt.IsZero() {
		inq.CreatedAt = now
	}
	inq.UpdatedAt = now
	r.s.inquiries[inq.ID] = *inq
	return nil
}

func (r *InquiryRepo) GetByID(_ context.Context, id string) (*models.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inq, ok := r.s.inquiries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inq, nil
}

func (r *InquiryRepo) List(_ context.Context, filter models.InquiryFilter) ([]models.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Inquiry{}
	for _, inq := range r.s.inquiries {
		if (filter.Customer == "" || inq.Customer == filter.Customer) &&
			(filter.Status == "" || inq.InquiryStatus == filter.Status) {
			out = append(out, inq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *InquiryRepo) mutate(id string, fn func(*models.Inquiry)) (*models.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inq, ok := r.s.inquiries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	inq.Messages = append([]models.InquiryMessage(nil), inq.Messages...)
	inq.CommunicationHistory = append([]models.CommunicationEntry(nil), inq.CommunicationHistory...)
	fn(&inq)
	inq.UpdatedAt = time.Now()
	r.s.inquiries[id] = inq
	return &inq, nil
}

func (r *InquiryRepo) AppendMessage(_ context.Context, id string, msg models.InquiryMessage) (*models.Inquiry, error) {
	return r.mutate(id, func(inq *models.Inquiry) { inq.Messages = append(inq.Messages, msg) })
}

func (r *InquiryRepo) UpdateStatus(_ context.Context, id, status string, entry models.CommunicationEntry) (*models.Inquiry, error) {
	return r.mutate(id, func(inq *models.Inquiry) {
		inq.InquiryStatus = status
		inq.CommunicationHistory = append(inq.CommunicationHistory, entry)
	})
}

func (r *InquiryRepo) AppendCommunication(_ context.Context, id string, entry models.CommunicationEntry) (*models.Inquiry, error) {
	return r.mutate(id, func(inq *models.Inquiry) {
		inq.CommunicationHistory = append(inq.CommunicationHistory, entry)
	})
}

func (r *InquiryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.inquiries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.inquiries, id)
	return nil
}

// CarouselRepo implements contentRepo.CarouselRepository.
type CarouselRepo struct{ s *Store }

func (s *Store) Carousels() *CarouselRepo { return &CarouselRepo{s: s} }

func (r *CarouselRepo) Create(_ context.Context, c *models.Carousel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carousels[c.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.carousels[c.ID] = *c
	return nil
}

func (r *CarouselRepo) GetByID(_ context.Context, id string) (*models.Carousel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carousels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CarouselRepo) GetAll(_ context.Context, activeOnly bool) ([]models.Carousel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Carousel{}
	for _, c := range r.s.carousels {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CarouselRepo) Update(_ context.Context, id string, fields bson.M) (*models.Carousel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carousels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fields["updatedAt"] = time.Now()
	updated, err := apply(c, fields)
	if err != nil {
		return nil, err
	}
	r.s.carousels[id] = updated
	return &updated, nil
}

func (r *CarouselRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carousels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.carousels, id)
	return nil
}

// PrepRepo implements contentRepo.PrepRepository.
type PrepRepo struct{ s *Store }

func (s *Store) Preps() *PrepRepo { return &PrepRepo{s: s} }

func (r *PrepRepo) Create(_ context.Context, p *models.Prep) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.preps[p.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.preps[p.ID] = *p
	return nil
}

func (r *PrepRepo) GetByID(_ context.Context, id string) (*models.Prep, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.preps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PrepRepo) List(_ context.Context, filter models.PrepFilter) ([]models.Prep, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Prep{}
	for _, p := range r.s.preps {
		if (filter.Customer == "" || p.Customer == filter.Customer) &&
			(filter.Booking == "" || p.Booking == filter.Booking) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PrepRepo) Update(_ context.Context, id string, fields bson.M) (*models.Prep, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.preps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fields["updatedAt"] = time.Now()
	updated, err := apply(p, fields)
	if err != nil {
		return nil, err
	}
	r.s.preps[id] = updated
	return &updated, nil
}

func (r *PrepRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.preps[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.preps, id)
	return nil
}
