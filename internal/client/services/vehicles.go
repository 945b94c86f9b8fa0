package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/filex"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

type VehicleAPI interface {
	Vehicles(ctx context.Context, f models.VehicleFilter) ([]models.Vehicle, error)
	Vehicle(ctx context.Context, id int64) (models.VehicleDetail, error)
	VehicleByPlate(ctx context.Context, plate string) (models.Vehicle, error)
	CreateVehicle(ctx context.Context, in models.VehicleInput) (models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
	AddUpdate(ctx context.Context, vehicleID int64, in models.UpdateInput) (models.VehicleUpdate, error)
	DeleteUpdate(ctx context.Context, vehicleID, updateID int64) error
	VehicleDocuments(ctx context.Context, vehicleID int64) ([]models.Document, error)
	DocumentTypes(ctx context.Context) ([]string, error)
	DownloadDocument(ctx context.Context, id int64, w io.Writer) (string, error)
}

// VehicleService covers the case list, case detail and document screens.
type VehicleService interface {
	List(ctx context.Context, f models.VehicleFilter) ([]models.Vehicle, error)
	Get(ctx context.Context, id int64) (models.VehicleDetail, error)
	ByPlate(ctx context.Context, plate string) (models.Vehicle, error)
	Create(ctx context.Context, in models.VehicleInput) (models.Vehicle, error)
	Update(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error)
	Delete(ctx context.Context, id int64) error
	AddUpdate(ctx context.Context, vehicleID int64, in models.UpdateInput) (models.VehicleUpdate, error)
	DeleteUpdate(ctx context.Context, vehicleID, updateID int64) error
	Documents(ctx context.Context, vehicleID int64) ([]models.Document, error)
	DocumentTypes(ctx context.Context) ([]string, error)
	// Download saves a document into dir and returns the written path.
	Download(ctx context.Context, documentID int64, dir string) (string, error)
}

type vehicleService struct {
	api VehicleAPI
	guard
	log logging.Logger
}

func NewVehicleService(a VehicleAPI, inv Invalidator, log logging.Logger) VehicleService {
	if log == nil {
		log = logging.Nop()
	}
	return &vehicleService{api: a, guard: guard{inv: inv}, log: log.With("component", "vehicles")}
}

func (s *vehicleService) List(ctx context.Context, f models.VehicleFilter) ([]models.Vehicle, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalid, f.Status)
	}
	v, err := s.api.Vehicles(ctx, f)
	return v, s.check(ctx, err)
}

func (s *vehicleService) Get(ctx context.Context, id int64) (models.VehicleDetail, error) {
	v, err := s.api.Vehicle(ctx, id)
	return v, s.check(ctx, err)
}

func (s *vehicleService) ByPlate(ctx context.Context, plate string) (models.Vehicle, error) {
	v, err := s.api.VehicleByPlate(ctx, plate)
	return v, s.check(ctx, err)
}

func (s *vehicleService) Create(ctx context.Context, in models.VehicleInput) (models.Vehicle, error) {
	v, err := s.api.CreateVehicle(ctx, in)
	if err != nil {
		return v, s.check(ctx, err)
	}
	s.log.Info(ctx, "vehicle created", "vehicle_id", v.ID, "matricula", v.Plate)
	return v, nil
}

func (s *vehicleService) Update(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error) {
	v, err := s.api.UpdateVehicle(ctx, id, in)
	return v, s.check(ctx, err)
}

func (s *vehicleService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteVehicle(ctx, id); err != nil {
		return s.check(ctx, err)
	}
	s.log.Info(ctx, "vehicle deleted", "vehicle_id", id)
	return nil
}

func (s *vehicleService) AddUpdate(ctx context.Context, vehicleID int64, in models.UpdateInput) (models.VehicleUpdate, error) {
	u, err := s.api.AddUpdate(ctx, vehicleID, in)
	return u, s.check(ctx, err)
}

func (s *vehicleService) DeleteUpdate(ctx context.Context, vehicleID, updateID int64) error {
	return s.check(ctx, s.api.DeleteUpdate(ctx, vehicleID, updateID))
}

func (s *vehicleService) Documents(ctx context.Context, vehicleID int64) ([]models.Document, error) {
	d, err := s.api.VehicleDocuments(ctx, vehicleID)
	return d, s.check(ctx, err)
}

func (s *vehicleService) DocumentTypes(ctx context.Context) ([]string, error) {
	t, err := s.api.DocumentTypes(ctx)
	return t, s.check(ctx, err)
}

// Download streams into a hidden temporary file first; the final name is
// only known once the response headers arrive.
func (s *vehicleService) Download(ctx context.Context, documentID int64, dir string) (string, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	name, err := s.api.DownloadDocument(ctx, documentID, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return "", s.check(ctx, err)
	}
	if name == "" {
		name = fmt.Sprintf("document-%d", documentID)
	}

	final, err := filex.CreateUnique(dir, name)
	if err != nil {
		return "", err
	}
	path := final.Name()
	_ = final.Close()

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	s.log.Info(ctx, "document saved", "document_id", documentID, "path", path)
	return path, nil
}
