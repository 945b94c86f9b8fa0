package apitest

import (
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/go-chi/chi/v5"
)

var documentTypes = []string{"contrato", "queixa_policia", "relatorio_gps", "comunicacao_cliente", "fotografia", "outros"}

// AddVehicle stores v as is, assigning an id and timestamps.
func (b *Backend) AddVehicle(v models.Vehicle) models.Vehicle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertVehicle(v)
}

func (b *Backend) insertVehicle(v models.Vehicle) models.Vehicle {
	v.ID = b.id()
	if v.Status == "" {
		v.Status = models.StatusInProgress
	}
	v.SubmittedAt = b.stamp()
	v.CreatedAt = v.SubmittedAt
	v.UpdatedAt = v.SubmittedAt
	cp := v
	b.vehicles[v.ID] = &cp
	return v
}

// AddDocument attaches a file to a vehicle.
func (b *Backend) AddDocument(vehicleID int64, name, docType string, content []byte) models.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	size := int64(len(content))
	d := models.Document{
		ID:           b.id(),
		VehicleID:    vehicleID,
		FileName:     fmt.Sprintf("%d_%s", vehicleID, name),
		OriginalName: name,
		Type:         docType,
		Size:         &size,
		UploadedAt:   b.stamp(),
		Origin:       "manual",
	}
	b.documents[d.ID] = &documentRecord{meta: d, content: content}
	return d
}

// Vehicle returns the stored vehicle.
func (b *Backend) Vehicle(id int64) (models.Vehicle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.vehicles[id]
	if !ok {
		return models.Vehicle{}, false
	}
	return *v, true
}

func (b *Backend) vehicleRoutes(r chi.Router) {
	r.Get("/vehicles", b.listVehicles)
	r.Post("/vehicles", b.createVehicle)
	r.Get("/vehicles/{id}", b.getVehicle)
	r.Put("/vehicles/{id}", b.updateVehicle)
	r.Delete("/vehicles/{id}", b.deleteVehicle)
	r.Post("/vehicles/{id}/updates", b.addUpdate)
	r.Delete("/vehicles/{id}/updates/{uid}", b.deleteUpdate)
	r.Get("/vehicles/{id}/documents", b.vehicleDocuments)
	r.Get("/dashboard/stats", b.dashboard)
	r.Get("/reports/vehicle/{id}", b.report)
}

func (b *Backend) documentRoutes(r chi.Router) {
	r.Get("/documents/types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, documentTypes)
	})
	r.Get("/documents/{id}", b.downloadDocument)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func (b *Backend) sortedVehicles() []models.Vehicle {
	out := make([]models.Vehicle, 0, len(b.vehicles))
	for _, v := range b.vehicles {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (b *Backend) listVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Vehicle{}
	for _, v := range b.sortedVehicles() {
		if s := q.Get("status"); s != "" && string(v.Status) != s {
			continue
		}
		if m := q.Get("marca"); m != "" && v.Brand != m {
			continue
		}
		if l := q.Get("loja"); l != "" && v.RentalStore != l {
			continue
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func applyVehicleInput(v *models.Vehicle, in models.VehicleInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&v.Plate, in.Plate)
	set(&v.Brand, in.Brand)
	set(&v.Model, in.Model)
	set(&v.VIN, in.VIN)
	set(&v.PoliceReportNumber, in.PoliceReportNumber)
	set(&v.RentalStore, in.RentalStore)
	set(&v.Notes, in.Notes)
	set(&v.ClientName, in.ClientName)
	set(&v.ClientContact, in.ClientContact)
	set(&v.ClientAddress, in.ClientAddress)
	set(&v.ClientEmail, in.ClientEmail)
	set(&v.ClientNotes, in.ClientNotes)
	if in.Value != nil {
		val := *in.Value
		v.Value = &val
	}
	if in.PoliceReport != nil {
		v.PoliceReport = *in.PoliceReport
	}
	if in.GPSActive != nil {
		v.GPSActive = *in.GPSActive
	}
	if in.Status != nil {
		v.Status = *in.Status
	}
	if in.DisappearedAt != nil {
		v.DisappearedAt = *in.DisappearedAt
	}
	if in.RecoveredAt != nil {
		v.RecoveredAt = *in.RecoveredAt
	}
}

func (b *Backend) createVehicle(w http.ResponseWriter, r *http.Request) {
	var in models.VehicleInput
	if err := decode(r, &in); err != nil || in.Plate == nil || in.Brand == nil {
		message(w, http.StatusBadRequest, "Bad Request")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range b.vehicles {
		if v.Plate == *in.Plate {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Veículo com esta matrícula já existe"})
			return
		}
	}
	var v models.Vehicle
	applyVehicleInput(&v, in)
	writeJSON(w, http.StatusCreated, b.insertVehicle(v))
}

func (b *Backend) detail(v models.Vehicle) models.VehicleDetail {
	d := models.VehicleDetail{Vehicle: v, Updates: []models.VehicleUpdate{}, Documents: []models.Document{}}
	ups := b.updates[v.ID]
	for i := len(ups) - 1; i >= 0; i-- {
		d.Updates = append(d.Updates, ups[i])
	}
	docs := b.vehicleDocs(v.ID)
	for i := len(docs) - 1; i >= 0; i-- {
		d.Documents = append(d.Documents, docs[i])
	}
	return d
}

func (b *Backend) vehicleDocs(vehicleID int64) []models.Document {
	out := []models.Document{}
	for _, rec := range b.documents {
		if rec.meta.VehicleID == vehicleID {
			out = append(out, rec.meta)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) getVehicle(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		v, ok := b.vehicles[id]
		if !ok {
			message(w, http.StatusNotFound, "Not Found")
			return
		}
		writeJSON(w, http.StatusOK, b.detail(*v))
		return
	}
	for _, v := range b.vehicles {
		if v.Plate == ref {
			writeJSON(w, http.StatusOK, v)
			return
		}
	}
	message(w, http.StatusNotFound, "Not Found")
}

func (b *Backend) updateVehicle(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var in models.VehicleInput
	if err := decode(r, &in); err != nil {
		message(w, http.StatusBadRequest, "Bad Request")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.vehicles[id]
	if !ok {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	applyVehicleInput(v, in)
	v.UpdatedAt = b.stamp()
	writeJSON(w, http.StatusOK, v)
}

func (b *Backend) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.vehicles[id]; !ok {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	delete(b.vehicles, id)
	delete(b.updates, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) addUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var in models.UpdateInput
	if err := decode(r, &in); err != nil || in.Description == "" || in.Type == "" {
		message(w, http.StatusBadRequest, "Bad Request")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.vehicles[id]; !ok {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	by := currentUser(r).ID
	u := models.VehicleUpdate{
		ID:          b.id(),
		VehicleID:   id,
		CreatedAt:   b.stamp(),
		Description: in.Description,
		Type:        in.Type,
		Location:    in.Location,
		CreatedBy:   &by,
	}
	b.updates[id] = append(b.updates[id], u)
	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) deleteUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	uid, _ := pathID(r, "uid")
	b.mu.Lock()
	defer b.mu.Unlock()
	ups := b.updates[id]
	for i, u := range ups {
		if u.ID == uid {
			b.updates[id] = append(ups[:i:i], ups[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	message(w, http.StatusNotFound, "Not Found")
}

func (b *Backend) vehicleDocuments(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.vehicles[id]; !ok {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, b.vehicleDocs(id))
}

func (b *Backend) downloadDocument(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	rec, ok := b.documents[id]
	b.mu.Unlock()
	if !ok {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rec.meta.OriginalName}))
	_, _ = w.Write(rec.content)
}

func (b *Backend) dashboard(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stats := models.DashboardStats{ByBrand: []models.BrandCount{}, ByStore: []models.StoreCount{}}
	brands := map[string]int{}
	stores := map[string]int{}
	for _, v := range b.vehicles {
		stats.TotalVehicles++
		switch v.Status {
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusSubmitted:
			stats.Submitted++
		case models.StatusRecovered:
			stats.Recovered++
		case models.StatusLost:
			stats.Lost++
		}
		brands[v.Brand]++
		if v.RentalStore != "" {
			stores[v.RentalStore]++
		}
		if v.Status != models.StatusRecovered && v.Value != nil {
			stats.MissingValue += *v.Value
		}
	}
	for name, n := range brands {
		stats.ByBrand = append(stats.ByBrand, models.BrandCount{Brand: name, Count: n})
	}
	for name, n := range stores {
		stats.ByStore = append(stats.ByStore, models.StoreCount{Store: name, Count: n})
	}
	sort.Slice(stats.ByBrand, func(i, j int) bool { return stats.ByBrand[i].Brand < stats.ByBrand[j].Brand })
	sort.Slice(stats.ByStore, func(i, j int) bool { return stats.ByStore[i].Store < stats.ByStore[j].Store })
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) report(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.vehicles[id]
	if !ok {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	timeline := append([]models.VehicleUpdate{}, b.updates[id]...)
	writeJSON(w, http.StatusOK, models.VehicleReport{
		Vehicle:     *v,
		Timeline:    timeline,
		Documents:   b.vehicleDocs(id),
		GeneratedAt: b.stamp(),
		GeneratedBy: currentUser(r).Username,
	})
}
