package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recoverydesk/internal/timex"
)

// VehicleStatus is the lifecycle state of a case.
type VehicleStatus string

const (
	StatusInProgress VehicleStatus = "em_tratamento"
	StatusSubmitted  VehicleStatus = "submetido"
	StatusRecovered  VehicleStatus = "recuperado"
	StatusLost       VehicleStatus = "perdido"
)

var AllStatuses = []VehicleStatus{StatusInProgress, StatusSubmitted, StatusRecovered, StatusLost}

func (s VehicleStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s VehicleStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case StatusSubmitted:
		return "Submitted"
	case StatusRecovered:
		return "Recovered"
	case StatusLost:
		return "Lost"
	default:
		return string(s)
	}
}

// Vehicle is a case as returned by the vehicles endpoints.
type Vehicle struct {
	ID                 int64         `json:"id"`
	Plate              string        `json:"matricula"`
	Brand              string        `json:"marca"`
	Model              string        `json:"modelo"`
	VIN                string        `json:"vin"`
	Value              *float64      `json:"valor"`
	PoliceReport       bool          `json:"nuipc"`
	PoliceReportNumber string        `json:"nuipc_numero"`
	GPSActive          bool          `json:"gps_ativo"`
	Status             VehicleStatus `json:"status"`
	SubmittedAt        timex.Time    `json:"data_submissao"`
	RecoveredAt        timex.Time    `json:"data_recuperacao"`
	DisappearedAt      timex.Time    `json:"data_desaparecimento"`
	RentalStore        string        `json:"loja_aluguer"`
	Notes              string        `json:"observacoes"`
	ClientName         string        `json:"cliente_nome"`
	ClientContact      string        `json:"cliente_contacto"`
	ClientAddress      string        `json:"cliente_morada"`
	ClientEmail        string        `json:"cliente_email"`
	ClientNotes        string        `json:"cliente_observacoes"`
	CreatedAt          timex.Time    `json:"created_at"`
	UpdatedAt          timex.Time    `json:"updated_at"`
}

// VehicleDetail is GET /vehicles/{id}: the case plus its timeline and
// document metadata, both newest first.
type VehicleDetail struct {
	Vehicle
	Updates   []VehicleUpdate `json:"atualizacoes"`
	Documents []Document      `json:"documentos"`
}

// VehicleFilter narrows GET /vehicles. Empty fields are not sent.
type VehicleFilter struct {
	Status VehicleStatus
	Brand  string
	Store  string
}

// VehicleInput is the body of POST and PUT /vehicles. Nil fields are
// omitted so a PUT leaves them untouched on the server.
type VehicleInput struct {
	Plate              *string        `json:"matricula,omitempty"`
	Brand              *string        `json:"marca,omitempty"`
	Model              *string        `json:"modelo,omitempty"`
	VIN                *string        `json:"vin,omitempty"`
	Value              *float64       `json:"valor,omitempty"`
	PoliceReport       *bool          `json:"nuipc,omitempty"`
	PoliceReportNumber *string        `json:"nuipc_numero,omitempty"`
	GPSActive          *bool          `json:"gps_ativo,omitempty"`
	Status             *VehicleStatus `json:"status,omitempty"`
	DisappearedAt      *timex.Time    `json:"data_desaparecimento,omitempty"`
	RecoveredAt        *timex.Time    `json:"data_recuperacao,omitempty"`
	RentalStore        *string        `json:"loja_aluguer,omitempty"`
	Notes              *string        `json:"observacoes,omitempty"`
	ClientName         *string        `json:"cliente_nome,omitempty"`
	ClientContact      *string        `json:"cliente_contacto,omitempty"`
	ClientAddress      *string        `json:"cliente_morada,omitempty"`
	ClientEmail        *string        `json:"cliente_email,omitempty"`
	ClientNotes        *string        `json:"cliente_observacoes,omitempty"`
}

// ValidateCreate checks what POST /vehicles requires.
func (in VehicleInput) ValidateCreate() error {
	if in.Plate == nil || strings.TrimSpace(*in.Plate) == "" {
		return fmt.Errorf("%w: matricula is required", ErrInvalid)
	}
	if in.Brand == nil || strings.TrimSpace(*in.Brand) == "" {
		return fmt.Errorf("%w: marca is required", ErrInvalid)
	}
	return in.ValidateUpdate()
}

// ValidateUpdate checks the fields that are present.
func (in VehicleInput) ValidateUpdate() error {
	if in.Status != nil && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, *in.Status)
	}
	if in.Plate != nil && len(*in.Plate) > 20 {
		return fmt.Errorf("%w: matricula longer than 20 characters", ErrInvalid)
	}
	if in.VIN != nil && len(*in.VIN) > 17 {
		return fmt.Errorf("%w: vin longer than 17 characters", ErrInvalid)
	}
	if in.Value != nil && *in.Value < 0 {
		return fmt.Errorf("%w: valor must not be negative", ErrInvalid)
	}
	return nil
}

// UpdateType tags a timeline entry.
type UpdateType string

const (
	UpdateObservation UpdateType = "observacao"
	UpdateLocation    UpdateType = "localizacao"
	UpdateAction      UpdateType = "acao"
	UpdateContact     UpdateType = "contacto"
)

func (t UpdateType) Valid() bool {
	switch t {
	case UpdateObservation, UpdateLocation, UpdateAction, UpdateContact:
		return true
	}
	return false
}

// VehicleUpdate is one timeline entry of a case.
type VehicleUpdate struct {
	ID          int64      `json:"id"`
	VehicleID   int64      `json:"vehicle_id"`
	CreatedAt   timex.Time `json:"data_atualizacao"`
	Description string     `json:"descricao"`
	Type        UpdateType `json:"tipo"`
	Location    string     `json:"localizacao"`
	CreatedBy   *int64     `json:"created_by"`
}

// UpdateInput is the body of POST /vehicles/{id}/updates.
type UpdateInput struct {
	Description string     `json:"descricao"`
	Type        UpdateType `json:"tipo"`
	Location    string     `json:"localizacao,omitempty"`
}

func (in UpdateInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: descricao is required", ErrInvalid)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown update type %q", ErrInvalid, in.Type)
	}
	return nil
}

// Document is metadata of a file attached to a case.
type Document struct {
	ID           int64      `json:"id"`
	VehicleID    int64      `json:"vehicle_id"`
	FileName     string     `json:"nome_ficheiro"`
	OriginalName string     `json:"nome_original"`
	Type         string     `json:"tipo_documento"`
	Size         *int64     `json:"tamanho_ficheiro"`
	UploadedAt   timex.Time `json:"data_upload"`
	UploadedBy   *int64     `json:"uploaded_by"`
	Origin       string     `json:"origem"`
}

// VehicleReport is GET /reports/vehicle/{id}; timeline and documents are
// oldest first.
type VehicleReport struct {
	Vehicle     Vehicle         `json:"vehicle"`
	Timeline    []VehicleUpdate `json:"timeline"`
	Documents   []Document      `json:"documents"`
	GeneratedAt timex.Time      `json:"generated_at"`
	GeneratedBy string          `json:"generated_by"`
}
