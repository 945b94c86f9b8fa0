package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/go-chi/chi/v5"
)

// AddTrigger stores an unprocessed trigger. extracted may carry "matricula"
// and "marca" used when a case is created from it.
func (b *Backend) AddTrigger(from, subject string, extracted map[string]string) models.EmailTrigger {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertTrigger(models.EmailTrigger{From: from, Subject: subject, ExtractedData: rawJSON(extracted)})
}

func (b *Backend) insertTrigger(t models.EmailTrigger) models.EmailTrigger {
	t.ID = b.id()
	t.Processed = false
	t.ReceivedAt = b.stamp()
	cp := t
	b.triggers = append(b.triggers, &cp)
	return t
}

// QueueEmail places an email in the inbox; check-new ingests it.
func (b *Backend) QueueEmail(from, subject string, extracted map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inbox = append(b.inbox, models.EmailTrigger{From: from, Subject: subject, ExtractedData: rawJSON(extracted)})
}

// FailTrigger makes processing the trigger fail with msg.
func (b *Backend) FailTrigger(id int64, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing[id] = msg
}

// Trigger returns the stored trigger.
func (b *Backend) Trigger(id int64) (models.EmailTrigger, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.findTrigger(id)
	if t == nil {
		return models.EmailTrigger{}, false
	}
	return *t, true
}

func rawJSON(m map[string]string) json.RawMessage {
	if m == nil {
		return nil
	}
	b, _ := json.Marshal(m)
	return b
}

func (b *Backend) findTrigger(id int64) *models.EmailTrigger {
	for _, t := range b.triggers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (b *Backend) triggerRoutes(r chi.Router) {
	r.Get("/email-triggers", b.listTriggers)
	r.Get("/email-triggers/{id}", b.getTrigger)
	r.Post("/email-triggers/{id}/process", b.processTrigger)
	r.Post("/email-triggers/check-new", b.checkNew)
	r.With(requireAdmin).Post("/email-triggers/auto-process", b.autoProcess)
}

func (b *Backend) listTriggers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = 10
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	all := []models.EmailTrigger{}
	for _, t := range b.triggers {
		if p := q.Get("processed"); p != "" && t.Processed != (strings.ToLower(p) == "true") {
			continue
		}
		all = append(all, *t)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	pages := (len(all) + perPage - 1) / perPage
	start := (page - 1) * perPage
	items := []models.EmailTrigger{}
	if start < len(all) {
		end := min(start+perPage, len(all))
		items = all[start:end]
	}
	writeJSON(w, http.StatusOK, models.TriggerPage{Triggers: items, Total: len(all), Pages: pages, CurrentPage: page})
}

func (b *Backend) getTrigger(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.findTrigger(id)
	if t == nil {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// convert creates a case from t. It returns the vehicle id, or 0 and a reason.
func (b *Backend) convert(t *models.EmailTrigger) (int64, string) {
	if msg, ok := b.failing[t.ID]; ok {
		t.ErrorMessage = msg
		return 0, msg
	}
	var data map[string]string
	_ = json.Unmarshal(t.ExtractedData, &data)
	plate := data["matricula"]
	if plate == "" {
		plate = fmt.Sprintf("EM-%04d", t.ID)
	}
	brand := data["marca"]
	if brand == "" {
		brand = "Desconhecida"
	}
	for _, v := range b.vehicles {
		if v.Plate == plate {
			t.ErrorMessage = "Veículo já existe"
			return 0, t.ErrorMessage
		}
	}
	v := b.insertVehicle(models.Vehicle{Plate: plate, Brand: brand, Notes: t.Subject})
	t.Processed = true
	t.VehicleID = &v.ID
	t.ProcessedAt = b.stamp()
	t.ErrorMessage = ""
	return v.ID, "Veículo criado com sucesso"
}

func (b *Backend) processTrigger(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.findTrigger(id)
	if t == nil {
		message(w, http.StatusNotFound, "Not Found")
		return
	}
	if t.Processed {
		message(w, http.StatusBadRequest, "Este email já foi processado")
		return
	}
	vehicleID, msg := b.convert(t)
	if vehicleID == 0 {
		writeJSON(w, http.StatusBadRequest, models.ProcessResult{Message: msg, Trigger: t})
		return
	}
	writeJSON(w, http.StatusOK, models.ProcessResult{Message: msg, VehicleID: &vehicleID, Trigger: t})
}

func (b *Backend) checkNew(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.inbox)
	for _, t := range b.inbox {
		b.insertTrigger(t)
	}
	b.inbox = nil
	writeJSON(w, http.StatusOK, models.CheckNewResult{Message: fmt.Sprintf("%d emails processados", n), ProcessedCount: n})
}

func (b *Backend) autoProcess(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := models.AutoProcessResult{Details: []models.AutoProcessDetail{}}
	for _, t := range b.triggers {
		if t.Processed {
			continue
		}
		vehicleID, msg := b.convert(t)
		d := models.AutoProcessDetail{TriggerID: t.ID, Message: msg, Success: vehicleID != 0}
		if vehicleID != 0 {
			id := vehicleID
			d.VehicleID = &id
			res.Success++
		} else {
			res.Failed++
		}
		res.Details = append(res.Details, d)
	}
	writeJSON(w, http.StatusOK, res)
}
