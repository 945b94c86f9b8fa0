package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
)

func (c *Client) Vehicles(ctx context.Context, f models.VehicleFilter) ([]models.Vehicle, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Brand != "" {
		q.Set("marca", f.Brand)
	}
	if f.Store != "" {
		q.Set("loja", f.Store)
	}
	return getList[models.Vehicle](ctx, c, "/vehicles", WithQuery(q))
}

func (c *Client) Vehicle(ctx context.Context, id int64) (models.VehicleDetail, error) {
	return getObject[models.VehicleDetail](ctx, c, fmt.Sprintf("/vehicles/%d", id), []string{"id", "matricula"})
}

// VehicleByPlate looks a case up by its licence plate.
func (c *Client) VehicleByPlate(ctx context.Context, plate string) (models.Vehicle, error) {
	return getObject[models.Vehicle](ctx, c, "/vehicles/"+url.PathEscape(plate), []string{"id", "matricula"})
}

func (c *Client) CreateVehicle(ctx context.Context, in models.VehicleInput) (models.Vehicle, error) {
	if err := in.ValidateCreate(); err != nil {
		return models.Vehicle{}, err
	}
	// the backend reads modelo unconditionally on create
	if in.Model == nil {
		empty := ""
		in.Model = &empty
	}
	return getObject[models.Vehicle](ctx, c, "/vehicles", []string{"id"}, post(in)...)
}

func (c *Client) UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error) {
	if err := in.ValidateUpdate(); err != nil {
		return models.Vehicle{}, err
	}
	return getObject[models.Vehicle](ctx, c, fmt.Sprintf("/vehicles/%d", id), []string{"id"},
		WithMethod(http.MethodPut), WithJSON(in))
}

func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	_, err := c.Request(ctx, fmt.Sprintf("/vehicles/%d", id), WithMethod(http.MethodDelete))
	return err
}

func (c *Client) AddUpdate(ctx context.Context, vehicleID int64, in models.UpdateInput) (models.VehicleUpdate, error) {
	if err := in.Validate(); err != nil {
		return models.VehicleUpdate{}, err
	}
	return getObject[models.VehicleUpdate](ctx, c, fmt.Sprintf("/vehicles/%d/updates", vehicleID), []string{"id"}, post(in)...)
}

func (c *Client) DeleteUpdate(ctx context.Context, vehicleID, updateID int64) error {
	_, err := c.Request(ctx, fmt.Sprintf("/vehicles/%d/updates/%d", vehicleID, updateID), WithMethod(http.MethodDelete))
	return err
}

func (c *Client) VehicleDocuments(ctx context.Context, vehicleID int64) ([]models.Document, error) {
	return getList[models.Document](ctx, c, fmt.Sprintf("/vehicles/%d/documents", vehicleID))
}

func (c *Client) DocumentTypes(ctx context.Context) ([]string, error) {
	return getList[string](ctx, c, "/documents/types")
}

// DownloadDocument streams a document's content into w and returns the
// server-provided file name.
func (c *Client) DownloadDocument(ctx context.Context, id int64, w io.Writer) (string, error) {
	return c.Download(ctx, fmt.Sprintf("/documents/%d", id), w)
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	return getObject[models.DashboardStats](ctx, c, "/dashboard/stats", []string{"total_vehicles"})
}

func (c *Client) VehicleReport(ctx context.Context, id int64) (models.VehicleReport, error) {
	return getObject[models.VehicleReport](ctx, c, fmt.Sprintf("/reports/vehicle/%d", id), []string{"vehicle", "timeline", "documents"})
}
