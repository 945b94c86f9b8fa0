package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recoverydesk/internal/timex"
)

// Reference is implemented by every admin-managed entity.
type Reference interface {
	RefID() int64
	// Validate checks the fields the client requires before a create or update.
	Validate() error
}

type CarBrand struct {
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt timex.Time `json:"created_at,omitzero"`
	UpdatedAt timex.Time `json:"updated_at,omitzero"`
}

func (b CarBrand) RefID() int64 { return b.ID }

func (b CarBrand) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: brand name is required", ErrInvalid)
	}
	return nil
}

type CarModel struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name"`
	BrandID     int64      `json:"brand_id"`
	BrandName   string     `json:"brand_name,omitempty"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   timex.Time `json:"created_at,omitzero"`
	UpdatedAt   timex.Time `json:"updated_at,omitzero"`
}

func (m CarModel) RefID() int64 { return m.ID }

func (m CarModel) Validate() error {
	if strings.TrimSpace(m.Name) == "" || m.BrandID <= 0 {
		return fmt.Errorf("%w: model name and brand are required", ErrInvalid)
	}
	return nil
}

// RentACar is a rental company.
type RentACar struct {
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"nome"`
	Email     string     `json:"contacto_email"`
	Phone     string     `json:"contacto_telefone"`
	Address   string     `json:"endereco"`
	NIF       string     `json:"nif"`
	IsActive  bool       `json:"is_active"`
	CreatedAt timex.Time `json:"created_at,omitzero"`
}

func (r RentACar) RefID() int64 { return r.ID }

func (r RentACar) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalid)
	}
	return nil
}

// StoreLocation is a branch of a rental company.
type StoreLocation struct {
	ID           int64      `json:"id,omitempty"`
	Name         string     `json:"nome"`
	RentACarID   int64      `json:"rent_a_car_id"`
	RentACarName string     `json:"rent_a_car_nome,omitempty"`
	Address      string     `json:"endereco"`
	City         string     `json:"cidade"`
	PostalCode   string     `json:"codigo_postal"`
	Country      string     `json:"pais"`
	Phone        string     `json:"contacto_telefone"`
	Email        string     `json:"contacto_email"`
	OpeningHours string     `json:"horario_funcionamento"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    timex.Time `json:"created_at,omitzero"`
	UpdatedAt    timex.Time `json:"updated_at,omitzero"`
}

func (s StoreLocation) RefID() int64 { return s.ID }

func (s StoreLocation) Validate() error {
	if strings.TrimSpace(s.Name) == "" || s.RentACarID <= 0 {
		return fmt.Errorf("%w: location name and company are required", ErrInvalid)
	}
	return nil
}

// Envelope is the wrapper of every /admin response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}
